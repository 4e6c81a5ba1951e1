package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/pkg/database/dbtest"
)

func setupRepo(t *testing.T) *postgresOrderRepository {
	t.Helper()
	pool := dbtest.Pool(t, []string{"002_orders.sql"}, "orders")
	return NewPostgresOrderRepository(pool).(*postgresOrderRepository)
}

func createOrder(t *testing.T, r *postgresOrderRepository, buyerID, sellerID int64, status model.OrderStatus) *model.Order {
	t.Helper()
	o := &model.Order{
		BuyerID:    buyerID,
		BookID:     1,
		SellerID:   sellerID,
		Quantity:   2,
		TotalPrice: decimal.RequireFromString("25.00"),
		Status:     status,
		OrderDate:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.Create(context.Background(), o))
	return o
}

// to always returns next, like the service with enforcement off
func to(next model.OrderStatus) func(model.OrderStatus) (model.OrderStatus, error) {
	return func(model.OrderStatus) (model.OrderStatus, error) { return next, nil }
}

func TestCreateAndGetByID(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	o := createOrder(t, r, 2, 7, model.OrderStatusCompleted)

	got, err := r.GetByID(ctx, o.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(2), got.BuyerID)
	assert.Equal(t, int64(7), got.SellerID)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, model.OrderStatusCompleted, got.Status)
	assert.True(t, got.OrderDate.Equal(o.OrderDate))

	_, err = r.GetByID(ctx, o.ID+100)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestListByBuyerAndSeller(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	createOrder(t, r, 2, 7, model.OrderStatusCompleted)
	createOrder(t, r, 3, 7, model.OrderStatusCompleted)
	createOrder(t, r, 2, 8, model.OrderStatusCompleted)

	byBuyer, err := r.ListByBuyer(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, byBuyer, 2)

	bySeller, err := r.ListBySeller(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, bySeller, 2)

	none, err := r.ListByBuyer(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateStatusWritesNextStatus(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	o := createOrder(t, r, 2, 7, model.OrderStatusPending)

	var seen model.OrderStatus
	got, err := r.UpdateStatus(ctx, o.ID, func(current model.OrderStatus) (model.OrderStatus, error) {
		seen = current
		return model.OrderStatusCancelled, nil
	})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, seen)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)

	stored, err := r.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, stored.Status)
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	o := createOrder(t, r, 2, 7, model.OrderStatusCompleted)

	got, err := r.UpdateStatus(ctx, o.ID, to(model.OrderStatusCompleted))

	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, model.OrderStatusCompleted, got.Status)
}

func TestUpdateStatusRejectedLeavesRow(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	o := createOrder(t, r, 2, 7, model.OrderStatusCompleted)

	_, err := r.UpdateStatus(ctx, o.ID, func(model.OrderStatus) (model.OrderStatus, error) {
		return "", model.ErrInvalidTransition
	})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	stored, err := r.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, stored.Status)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	r := setupRepo(t)
	called := false

	_, err := r.UpdateStatus(context.Background(), 404, func(model.OrderStatus) (model.OrderStatus, error) {
		called = true
		return model.OrderStatusCancelled, nil
	})

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.False(t, called)
}

func TestUpdateStatusSerializesConcurrentDecisions(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	o := createOrder(t, r, 2, 7, model.OrderStatusPending)

	// Both callers only move PENDING forward. Under FOR UPDATE the second sees
	// the first's result and is refused.
	decide := func(next model.OrderStatus) func(model.OrderStatus) (model.OrderStatus, error) {
		return func(current model.OrderStatus) (model.OrderStatus, error) {
			if current != model.OrderStatusPending {
				return "", model.ErrInvalidTransition
			}
			return next, nil
		}
	}

	errs := make(chan error, 2)
	go func() {
		_, err := r.UpdateStatus(ctx, o.ID, decide(model.OrderStatusCompleted))
		errs <- err
	}()
	go func() {
		_, err := r.UpdateStatus(ctx, o.ID, decide(model.OrderStatusCancelled))
		errs <- err
	}()

	var ok, refused int
	for i := 0; i < 2; i++ {
		err := <-errs
		switch {
		case err == nil:
			ok++
		case errors.Is(err, model.ErrInvalidTransition):
			refused++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, refused)
}
