package client

import (
	"context"

	"book-marketplace/internal/domains/order/model"
)

// BookClient is the order service's view of the Book Store.
// Errors are model.ErrBookNotFound, model.ErrInsufficientStock or
// model.ErrBookStoreUnavailable (wrapped).
type BookClient interface {
	// GetBook bypasses the Book Store's read cache
	GetBook(ctx context.Context, bookID int64) (*model.BookSnapshot, error)

	// UpdateQuantity overwrites the stock (legacy purchase mode)
	UpdateQuantity(ctx context.Context, bookID int64, quantity int) error

	DecrementStock(ctx context.Context, bookID int64, quantity int) (*model.BookSnapshot, error)

	// RestoreStock is applied at most once per orderRef by the Book Store,
	// so it is safe to repeat after a timeout.
	RestoreStock(ctx context.Context, bookID int64, quantity int, orderRef string) error
}
