package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/internal/shared/utils"
	"book-marketplace/pkg/logger"
)

// StockRestorer is the part of client.BookClient the job needs
type StockRestorer interface {
	RestoreStock(ctx context.Context, bookID int64, quantity int, orderRef string) error
}

// RestoreStockHandler gives stock back to the Book Store for a purchase
// whose order could not be saved
type RestoreStockHandler struct {
	books StockRestorer
}

func NewRestoreStockHandler(books StockRestorer) *RestoreStockHandler {
	return &RestoreStockHandler{books: books}
}

// ProcessTask returns an error to let asynq retry, except for payloads that
// can never succeed. The payload's OrderRef is forwarded, so a retry after a
// restore that did commit is a no-op on the Book Store.
func (h *RestoreStockHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.RestoreStockPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.BookID <= 0 || payload.Quantity <= 0 {
		return fmt.Errorf("invalid restore payload %+v: %w", payload, asynq.SkipRetry)
	}

	fields := map[string]interface{}{
		"book_id":   payload.BookID,
		"quantity":  payload.Quantity,
		"order_ref": payload.OrderRef,
	}

	err := h.books.RestoreStock(ctx, payload.BookID, payload.Quantity, payload.OrderRef)
	if errors.Is(err, model.ErrBookNotFound) {
		logger.Warn("book deleted before stock restore, dropping task", fields)
		return fmt.Errorf("restore stock: %w: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		logger.ErrorWithFields("stock restore attempt failed", err, fields)
		return fmt.Errorf("restore stock: %w", err)
	}

	logger.Info("stock restored by worker", fields)
	return nil
}
