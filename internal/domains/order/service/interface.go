package service

import (
	"context"

	"book-marketplace/internal/domains/order/model"
)

// OrderService is the Order Orchestrator
type OrderService interface {
	// Purchase reads the book, writes the new stock, then persists a
	// COMPLETED order. Nothing is mutated when stock is insufficient.
	Purchase(ctx context.Context, req model.PurchaseRequest) (*model.Order, error)

	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error)
}
