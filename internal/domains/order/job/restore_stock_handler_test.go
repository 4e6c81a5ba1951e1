package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/internal/shared"
	"book-marketplace/internal/shared/utils"
)

type stubRestorer struct {
	calls []model.RestoreStockPayload
	err   error
}

func (s *stubRestorer) RestoreStock(_ context.Context, bookID int64, quantity int, orderRef string) error {
	s.calls = append(s.calls, model.RestoreStockPayload{BookID: bookID, Quantity: quantity, OrderRef: orderRef})
	return s.err
}

func task(t *testing.T, p model.RestoreStockPayload) *asynq.Task {
	t.Helper()
	tk, err := utils.MarshalTask(shared.TypeRestoreBookStock, p)
	require.NoError(t, err)
	return tk
}

func TestRestoreStockHandlerSuccess(t *testing.T) {
	books := &stubRestorer{}
	h := NewRestoreStockHandler(books)

	err := h.ProcessTask(context.Background(), task(t, model.RestoreStockPayload{BookID: 3, Quantity: 2, OrderRef: "r1"}))

	require.NoError(t, err)
	require.Len(t, books.calls, 1)
	assert.Equal(t, int64(3), books.calls[0].BookID)
	assert.Equal(t, 2, books.calls[0].Quantity)
	assert.Equal(t, "r1", books.calls[0].OrderRef)
}

func TestRestoreStockHandlerRetriesUpstreamFailure(t *testing.T) {
	h := NewRestoreStockHandler(&stubRestorer{err: model.ErrBookStoreUnavailable})

	err := h.ProcessTask(context.Background(), task(t, model.RestoreStockPayload{BookID: 3, Quantity: 2}))

	assert.ErrorIs(t, err, model.ErrBookStoreUnavailable)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestRestoreStockHandlerSkipsMissingBook(t *testing.T) {
	h := NewRestoreStockHandler(&stubRestorer{err: model.ErrBookNotFound})

	err := h.ProcessTask(context.Background(), task(t, model.RestoreStockPayload{BookID: 3, Quantity: 2}))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRestoreStockHandlerSkipsBadPayload(t *testing.T) {
	books := &stubRestorer{}
	h := NewRestoreStockHandler(books)

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeRestoreBookStock, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), task(t, model.RestoreStockPayload{BookID: 3, Quantity: 0}))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	assert.Empty(t, books.calls)
}
