package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool and pgx.Tx (nested → savepoint)
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxFunc is executed inside a transaction
type TxFunc func(pgx.Tx) error

// WithTransaction wraps fn in a transaction.
// Rollback on error or panic, commit otherwise.
func WithTransaction(ctx context.Context, db TxBeginner, fn TxFunc) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult wraps a function with a return value in a transaction
func WithTransactionResult[T any](ctx context.Context, db TxBeginner, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T

	err := WithTransaction(ctx, db, func(tx pgx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
