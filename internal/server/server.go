package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"book-marketplace/internal/config"
	"book-marketplace/internal/shared/middleware"
	"book-marketplace/internal/shared/response"
	"book-marketplace/pkg/container"
	"book-marketplace/pkg/logger"
)

// RouteRegistrar mounts a service's domain routes
type RouteRegistrar func(r gin.IRouter, c *container.Container)

// Bootstrap loads .env and the process-wide settings shared by every binary
func Bootstrap() {
	// .env is optional, real deployments use the environment
	_ = godotenv.Load()

	// prices are JSON numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

// NewRouter builds the gin engine: global middleware, /health and the
// service's routes
func NewRouter(c *container.Container, register RouteRegistrar) *gin.Engine {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Default()...)

	router.GET("/health", HealthHandler(c))
	register(router, c)

	return router
}

// HealthHandler reports 200 when the backing store answers a ping
func HealthHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := c.HealthCheck(ctx.Request.Context()); err != nil {
			response.ErrorResponse(ctx, http.StatusServiceUnavailable, "UNHEALTHY", err.Error())
			return
		}
		response.OK(ctx, gin.H{
			"status":  "ok",
			"service": c.Service,
			"version": c.Config.App.Version,
		})
	}
}

// Run builds the container for service, serves HTTP until SIGINT/SIGTERM
// and shuts down gracefully
func Run(service config.Service, register RouteRegistrar) error {
	Bootstrap()

	appContainer, err := container.NewContainer(service)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer appContainer.Cleanup()

	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        NewRouter(appContainer, register),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", map[string]interface{}{
			"service": service,
			"port":    port,
			"env":     appContainer.Config.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server", map[string]interface{}{"service": service})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited gracefully", map[string]interface{}{"service": service})
	return nil
}
