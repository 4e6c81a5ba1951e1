package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"book-marketplace/internal/config"
	"book-marketplace/internal/server"
	"book-marketplace/pkg/container"
)

func main() {
	if err := server.Run(config.ServiceUser, setupRoutes); err != nil {
		log.Fatal().Err(err).Msg("user-service stopped")
	}
}

func setupRoutes(r gin.IRouter, c *container.Container) {
	c.UserHandler.RegisterRoutes(r)
}
