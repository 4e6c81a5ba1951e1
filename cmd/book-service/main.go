package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-marketplace/internal/config"
	"book-marketplace/internal/server"
	"book-marketplace/pkg/container"
)

func main() {
	if err := server.Run(config.ServiceBook, setupRoutes); err != nil {
		log.Fatal().Err(err).Msg("book-service stopped")
	}
}

func setupRoutes(r gin.IRouter, c *container.Container) {
	c.BookHandler.RegisterRoutes(r)
}
