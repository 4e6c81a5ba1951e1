package service

import (
	"context"
	"fmt"

	"book-marketplace/internal/domains/book/model"
	"book-marketplace/internal/domains/book/repository"
	"book-marketplace/pkg/logger"
)

// BookService implements ServiceInterface
type BookService struct {
	repo repository.RepositoryInterface
}

// NewService - Constructor with DI
func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &BookService{repo: repo}
}

// ========================================
// QUERIES
// ========================================

func (s *BookService) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) ListByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error) {
	if !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}
	books, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list books by status: %w", err)
	}
	return books, nil
}

// ListAvailable returns books with status AVAILABLE
func (s *BookService) ListAvailable(ctx context.Context) ([]model.Book, error) {
	return s.ListByStatus(ctx, model.BookStatusAvailable)
}

func (s *BookService) ListBySeller(ctx context.Context, sellerID int64) ([]model.Book, error) {
	books, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list books of seller %d: %w", sellerID, err)
	}
	return books, nil
}

func (s *BookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBookFresh skips the read cache, for callers that act on the quantity
func (s *BookService) GetBookFresh(ctx context.Context, id int64) (*model.Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ========================================
// COMMANDS
// ========================================

func (s *BookService) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book := req.ToBook()
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	logger.Info("book created", map[string]interface{}{
		"book_id":   book.ID,
		"seller_id": book.SellerID,
		"quantity":  book.Quantity,
	})
	return book, nil
}

// UpdateBook replaces every field of the book; status follows the new quantity
func (s *BookService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book := req.ToBook()
	book.ID = id
	return s.repo.Update(ctx, book)
}

func (s *BookService) UpdateQuantity(ctx context.Context, id int64, quantity int) (*model.Book, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	return s.repo.UpdateQuantity(ctx, id, quantity)
}

func (s *BookService) DecrementStock(ctx context.Context, id int64, quantity int) (*model.Book, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	book, err := s.repo.DecrementStock(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("book %d decremented by %d, now %d", id, quantity, book.Quantity))
	return book, nil
}

// RestoreStock adds quantity back. Repeating a call with the same non-empty
// orderRef does not add it again.
func (s *BookService) RestoreStock(ctx context.Context, id int64, quantity int, orderRef string) (*model.Book, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	book, err := s.repo.RestoreStock(ctx, id, quantity, orderRef)
	if err != nil {
		return nil, err
	}

	logger.Info("book stock restored", map[string]interface{}{
		"book_id":   id,
		"quantity":  quantity,
		"order_ref": orderRef,
	})
	return book, nil
}

// DeleteBook succeeds whether or not the book exists
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
