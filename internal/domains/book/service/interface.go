package service

import (
	"context"

	"book-marketplace/internal/domains/book/model"
)

// ServiceInterface is the business API of the Book Store
type ServiceInterface interface {
	CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error)
	ListAvailable(ctx context.Context) ([]model.Book, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	GetBookFresh(ctx context.Context, id int64) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*model.Book, error)
	DecrementStock(ctx context.Context, id int64, quantity int) (*model.Book, error)
	RestoreStock(ctx context.Context, id int64, quantity int, orderRef string) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}
