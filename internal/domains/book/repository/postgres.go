package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"book-marketplace/internal/domains/book/model"
	"book-marketplace/pkg/cache"
	"book-marketplace/pkg/database"
	"book-marketplace/pkg/logger"
)

const (
	bookCacheTTL = time.Minute

	bookColumns = `id, title, author, isbn, price, quantity, seller_id, status, created_at, updated_at`

	// statusExpr derives status from the quantity being written ($q)
	statusExpr = `CASE WHEN %s > 0 THEN 'AVAILABLE' ELSE 'SOLD_OUT' END`
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository returns the pgx backed repository with a read cache
// on GetByID
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// CacheKey is the Redis key of a single book
func CacheKey(id int64) string {
	return fmt.Sprintf("book:%d", id)
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.ISBN,
		&b.Price,
		&b.Quantity,
		&b.SellerID,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepository) queryBooks(ctx context.Context, query string, args ...interface{}) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// ========================================
// CRUD
// ========================================

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) error {
	query := `
		INSERT INTO books (title, author, isbn, price, quantity, seller_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		b.Title,
		b.Author,
		b.ISBN,
		b.Price,
		b.Quantity,
		b.SellerID,
		model.StatusForQuantity(b.Quantity),
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	b.Status = model.StatusForQuantity(b.Quantity)
	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.Book, error) {
	return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
}

func (r *postgresRepository) ListByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error) {
	return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE status = $1 ORDER BY id`, status)
}

func (r *postgresRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Book, error) {
	return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE seller_id = $1 ORDER BY id`, sellerID)
}

// GetByID uses cache-aside: Redis first, then Postgres, then fill Redis.
// Cache errors never fail the read.
func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	key := CacheKey(id)

	var cached model.Book
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("book cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if found {
		return &cached, nil
	}

	b, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, b, bookCacheTTL); err != nil {
		logger.Warn("book cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return b, nil
}

// FindByID reads Postgres only. Neither reads nor fills the cache.
func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return nil, r.wrap("read", id, err)
	}
	return b, nil
}

// Update locks the row, applies the new fields through the model (so status
// is recomputed by SetQuantity) and writes everything back
func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		current, err := scanBook(tx.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, b.ID))
		if err != nil {
			return nil, err
		}

		current.Title = b.Title
		current.Author = b.Author
		current.ISBN = b.ISBN
		current.Price = b.Price
		current.SellerID = b.SellerID
		current.SetQuantity(b.Quantity)

		return r.writeBack(ctx, tx, current)
	})
	if err != nil {
		return nil, r.wrap("update book", b.ID, err)
	}

	r.invalidate(ctx, b.ID)
	return updated, nil
}

func (r *postgresRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) (*model.Book, error) {
	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		current, err := scanBook(tx.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return nil, err
		}

		current.SetQuantity(quantity)
		return r.writeBack(ctx, tx, current)
	})
	if err != nil {
		return nil, r.wrap("update quantity", id, err)
	}

	r.invalidate(ctx, id)
	return updated, nil
}

func (r *postgresRepository) writeBack(ctx context.Context, tx pgx.Tx, b *model.Book) (*model.Book, error) {
	query := `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, price = $5,
		    quantity = $6, seller_id = $7, status = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	return scanBook(tx.QueryRow(ctx, query,
		b.ID,
		b.Title,
		b.Author,
		b.ISBN,
		b.Price,
		b.Quantity,
		b.SellerID,
		b.Status,
	))
}

// ========================================
// STOCK OPERATIONS
// ========================================

// DecrementStock is a single conditional UPDATE, so two concurrent purchases
// can never both succeed on the same last copy.
func (r *postgresRepository) DecrementStock(ctx context.Context, id int64, n int) (*model.Book, error) {
	query := `
		UPDATE books
		SET quantity = quantity - $2,
		    status = ` + fmt.Sprintf(statusExpr, "quantity - $2") + `,
		    updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
		RETURNING ` + bookColumns

	b, err := scanBook(r.pool.QueryRow(ctx, query, id, n))
	if err != nil {
		if !errors.Is(err, model.ErrBookNotFound) {
			return nil, fmt.Errorf("decrement stock of book %d: %w", id, err)
		}
		// No row updated: either the book is gone or the guard failed
		exists, existsErr := r.exists(ctx, id)
		if existsErr != nil {
			return nil, fmt.Errorf("decrement stock of book %d: %w", id, existsErr)
		}
		if exists {
			return nil, model.ErrInsufficientStock
		}
		return nil, model.ErrBookNotFound
	}

	r.invalidate(ctx, id)
	return b, nil
}

// RestoreStock adds n back. With a non-empty orderRef the ref is recorded in
// stock_restores in the same transaction; a ref that is already there means
// the restore was applied before and the book is returned unchanged.
func (r *postgresRepository) RestoreStock(ctx context.Context, id int64, n int, orderRef string) (*model.Book, error) {
	query := `
		UPDATE books
		SET quantity = quantity + $2,
		    status = ` + fmt.Sprintf(statusExpr, "quantity + $2") + `,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	b, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		if orderRef != "" {
			tag, err := tx.Exec(ctx, `
				INSERT INTO stock_restores (order_ref, book_id, quantity)
				VALUES ($1, $2, $3)
				ON CONFLICT (order_ref) DO NOTHING
			`, orderRef, id, n)
			if err != nil {
				return nil, fmt.Errorf("record restore %s: %w", orderRef, err)
			}
			if tag.RowsAffected() == 0 {
				logger.Info("stock restore already applied", map[string]interface{}{
					"book_id":   id,
					"order_ref": orderRef,
				})
				return scanBook(tx.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
			}
		}
		return scanBook(tx.QueryRow(ctx, query, id, n))
	})
	if err != nil {
		return nil, r.wrap("restore stock", id, err)
	}

	r.invalidate(ctx, id)
	return b, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}

	r.invalidate(ctx, id)
	return nil
}

// ========================================
// HELPERS
// ========================================

func (r *postgresRepository) exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *postgresRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, CacheKey(id)); err != nil {
		logger.Warn("book cache invalidation failed", map[string]interface{}{"book_id": id, "error": err.Error()})
	}
}

// wrap keeps domain sentinels untouched and adds context to everything else
func (r *postgresRepository) wrap(op string, id int64, err error) error {
	if errors.Is(err, model.ErrBookNotFound) || errors.Is(err, model.ErrInsufficientStock) {
		return err
	}
	return fmt.Errorf("%s of book %d: %w", op, id, err)
}
