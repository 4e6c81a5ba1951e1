package main

import (
	"github.com/hibiken/asynq"

	orderJob "book-marketplace/internal/domains/order/job"
	"book-marketplace/internal/shared"
	"book-marketplace/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	restoreStock *orderJob.RestoreStockHandler
}

func newHandlerRegistry(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		restoreStock: c.RestoreStockJob,
	}
}

// RegisterHandlers maps task types to handlers
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeRestoreBookStock, r.restoreStock)
}
