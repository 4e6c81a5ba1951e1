package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"book-marketplace/internal/config"
	"book-marketplace/internal/server"
	"book-marketplace/pkg/container"
)

func main() {
	server.Bootstrap()

	c, err := container.NewContainer(config.ServiceWorker)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] failed to initialize")
	}
	defer c.Cleanup()

	handlers := newHandlerRegistry(c)
	srv := setupAsynqServer(c.Config, handlers)

	health := startHealthServer(c)

	waitForShutdown(srv, health)
}

func waitForShutdown(srv *asynqServer, health *healthServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-srv.errs:
		log.Error().Err(err).Msg("[Worker] stopped unexpectedly")
	}

	log.Info().Msg("[Shutdown] gracefully stopping...")
	health.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] stopped")
}
