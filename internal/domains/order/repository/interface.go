package repository

import (
	"context"

	"book-marketplace/internal/domains/order/model"
)

// OrderRepository persists orders. Lists are ordered by id.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error)

	// UpdateStatus locks the row and calls decide with the current status.
	// decide returns the status to write, or an error that aborts the update.
	UpdateStatus(ctx context.Context, id int64, decide func(current model.OrderStatus) (model.OrderStatus, error)) (*model.Order, error)
}
