package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"book-marketplace/internal/config"
	"book-marketplace/internal/infrastructure/queue"
	"book-marketplace/internal/server"
	"book-marketplace/pkg/container"
)

const workerConcurrency = 10

// asynqServer wraps asynq.Server; errs receives a Run failure
type asynqServer struct {
	*asynq.Server
	errs chan error
}

// setupAsynqServer creates the server and starts consuming in the background
func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Queues:      queue.Queues(),
			Concurrency: workerConcurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Error().
					Err(err).
					Str("type", task.Type()).
					Int("retried", retried).
					Int("max_retry", maxRetry).
					Msg("[Asynq] task failed")
			}),
		},
	)

	s := &asynqServer{Server: srv, errs: make(chan error, 1)}
	go func() {
		log.Info().Str("redis", cfg.Redis.Host).Msg("[Worker] starting")
		if err := srv.Run(mux); err != nil {
			s.errs <- err
		}
	}()

	return s
}

// healthServer exposes GET /health next to the worker
type healthServer struct {
	srv *http.Server
}

func startHealthServer(c *container.Container) *healthServer {
	h := &healthServer{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%s", c.Config.App.Port),
			Handler:           server.NewRouter(c, func(gin.IRouter, *container.Container) {}),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	go func() {
		if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("[Worker] health server failed")
		}
	}()

	return h
}

func (h *healthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = h.srv.Shutdown(ctx)
}
