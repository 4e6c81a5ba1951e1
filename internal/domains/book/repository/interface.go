package repository

import (
	"context"

	"book-marketplace/internal/domains/book/model"
)

// RepositoryInterface is the data access contract of the book store.
// Every method that writes quantity keeps status = StatusForQuantity(quantity).
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	ListByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Book, error)

	// GetByID returns model.ErrBookNotFound when the id is absent.
	// Served from the read cache when possible.
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// FindByID is GetByID without the cache
	FindByID(ctx context.Context, id int64) (*model.Book, error)

	// Update replaces all mutable fields of book.ID
	Update(ctx context.Context, book *model.Book) (*model.Book, error)

	// UpdateQuantity overwrites quantity (legacy, unconditional)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*model.Book, error)

	// DecrementStock subtracts n only if quantity >= n, in one statement.
	// model.ErrInsufficientStock when the guard fails.
	DecrementStock(ctx context.Context, id int64, n int) (*model.Book, error)

	// RestoreStock adds n back, used to compensate a failed purchase.
	// Each non-empty orderRef is applied at most once.
	RestoreStock(ctx context.Context, id int64, n int, orderRef string) (*model.Book, error)

	// Delete is idempotent, no error for a missing id
	Delete(ctx context.Context, id int64) error
}
