package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

const orderColumns = `id, buyer_id, book_id, seller_id, quantity, total_price, status, order_date`

type postgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &postgresOrderRepository{
		pool: pool,
	}
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.BuyerID,
		&o.BookID,
		&o.SellerID,
		&o.Quantity,
		&o.TotalPrice,
		&o.Status,
		&o.OrderDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// =====================================================
// CREATE ORDER
// =====================================================

func (r *postgresOrderRepository) Create(ctx context.Context, order *model.Order) error {
	query := `
		INSERT INTO orders (buyer_id, book_id, seller_id, quantity, total_price, status, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		order.BuyerID,
		order.BookID,
		order.SellerID,
		order.Quantity,
		order.TotalPrice,
		order.Status,
		order.OrderDate,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// =====================================================
// QUERIES
// =====================================================

func (r *postgresOrderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil && !errors.Is(err, model.ErrOrderNotFound) {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, err
}

func (r *postgresOrderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY id`, buyerID)
}

func (r *postgresOrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE seller_id = $1 ORDER BY id`, sellerID)
}

func (r *postgresOrderRepository) list(ctx context.Context, query string, arg int64) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// =====================================================
// UPDATE STATUS
// =====================================================

func (r *postgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	decide func(current model.OrderStatus) (model.OrderStatus, error),
) (*model.Order, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Order, error) {
		current, err := scanOrder(tx.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return nil, err
		}

		next, err := decide(current.Status)
		if err != nil {
			return nil, err
		}
		if next == current.Status {
			return current, nil
		}

		return scanOrder(tx.QueryRow(ctx,
			`UPDATE orders SET status = $2 WHERE id = $1 RETURNING `+orderColumns, id, next))
	})
}
