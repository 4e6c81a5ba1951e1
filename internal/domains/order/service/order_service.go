package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"book-marketplace/internal/config"
	"book-marketplace/internal/domains/order/client"
	"book-marketplace/internal/domains/order/events"
	"book-marketplace/internal/domains/order/model"
	"book-marketplace/internal/domains/order/repository"
	"book-marketplace/internal/infrastructure/queue"
	"book-marketplace/internal/shared"
	"book-marketplace/internal/shared/utils"
	"book-marketplace/pkg/logger"
)

// TaskEnqueuer is satisfied by *asynq.Client
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Options tune the purchase and status workflows
type Options struct {
	// StockMode is config.StockModeAtomic (conditional decrement on the Book
	// Store) or config.StockModeOverwrite (read-compute-write of quantity)
	StockMode string

	// EnforceTransitions rejects status changes outside the transition table
	EnforceTransitions bool
}

// DefaultOptions matches the defaults of config.Load
func DefaultOptions() Options {
	return Options{
		StockMode:          config.StockModeAtomic,
		EnforceTransitions: true,
	}
}

const restoreStockMaxRetry = 10

type orderService struct {
	repo      repository.OrderRepository
	books     client.BookClient
	tasks     TaskEnqueuer
	publisher events.Publisher
	opts      Options
	now       func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	books client.BookClient,
	tasks TaskEnqueuer,
	publisher events.Publisher,
	opts Options,
) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if opts.StockMode == "" {
		opts.StockMode = config.StockModeAtomic
	}
	return &orderService{
		repo:      repo,
		books:     books,
		tasks:     tasks,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

// =====================================================
// PURCHASE
// =====================================================

func (s *orderService) Purchase(ctx context.Context, req model.PurchaseRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 1: snapshot of the book
	book, err := s.books.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	// Step 2: stock check against the snapshot
	if book.Quantity < req.Quantity {
		return nil, model.ErrInsufficientStock
	}

	// Step 3: stock write
	if err := s.takeStock(ctx, book, req.Quantity); err != nil {
		return nil, err
	}

	// Step 4: persist
	order := model.NewCompletedOrder(req.BuyerID, *book, req.Quantity, s.now())
	if err := s.repo.Create(ctx, order); err != nil {
		logger.ErrorWithFields("failed to save order after stock write", err, map[string]interface{}{
			"buyer_id": req.BuyerID,
			"book_id":  req.BookID,
			"quantity": req.Quantity,
		})
		s.compensate(ctx, req.BookID, req.Quantity)
		return nil, fmt.Errorf("save order: %w", err)
	}

	logger.Info("order completed", map[string]interface{}{
		"order_id":    order.ID,
		"buyer_id":    order.BuyerID,
		"book_id":     order.BookID,
		"quantity":    order.Quantity,
		"total_price": order.TotalPrice.String(),
	})

	if err := s.publisher.PublishOrderCompleted(ctx, order); err != nil {
		logger.ErrorWithFields("failed to publish order event", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}

	return order, nil
}

func (s *orderService) takeStock(ctx context.Context, book *model.BookSnapshot, quantity int) error {
	if s.opts.StockMode == config.StockModeOverwrite {
		// Last write wins: a concurrent purchase between GetBook and this
		// call is overwritten.
		return s.books.UpdateQuantity(ctx, book.ID, book.Quantity-quantity)
	}

	_, err := s.books.DecrementStock(ctx, book.ID, quantity)
	return err
}

// compensate gives the stock back after a failed save. The restore runs on a
// context detached from the request; when it fails it is handed to the worker.
// Both attempts carry the same orderRef, so a restore that committed but timed
// out is not applied twice.
func (s *orderService) compensate(ctx context.Context, bookID int64, quantity int) {
	ctx = context.WithoutCancel(ctx)
	orderRef := uuid.NewString()

	err := s.books.RestoreStock(ctx, bookID, quantity, orderRef)
	if err == nil {
		logger.Info("stock restored after failed order", map[string]interface{}{
			"book_id":   bookID,
			"quantity":  quantity,
			"order_ref": orderRef,
		})
		return
	}

	fields := map[string]interface{}{
		"book_id":   bookID,
		"quantity":  quantity,
		"order_ref": orderRef,
	}
	logger.ErrorWithFields("stock restore failed, scheduling retry", err, fields)

	if s.tasks == nil {
		logger.ErrorWithFields("no task queue configured, stock restore lost", errors.New("stock restore not scheduled"), fields)
		return
	}

	task, err := utils.MarshalTask(shared.TypeRestoreBookStock, model.RestoreStockPayload{
		BookID:   bookID,
		Quantity: quantity,
		OrderRef: orderRef,
	})
	if err != nil {
		logger.ErrorWithFields("failed to build restore task", err, fields)
		return
	}

	if _, err := s.tasks.EnqueueContext(ctx, task,
		asynq.Queue(queue.QueueCritical),
		asynq.MaxRetry(restoreStockMaxRetry),
		asynq.TaskID(orderRef),
	); err != nil {
		logger.ErrorWithFields("failed to enqueue restore task", err, fields)
	}
}

// =====================================================
// QUERIES
// =====================================================

func (s *orderService) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}

func (s *orderService) ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *orderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// =====================================================
// UPDATE STATUS
// =====================================================

func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	next, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateStatus(ctx, id, func(current model.OrderStatus) (model.OrderStatus, error) {
		if s.opts.EnforceTransitions && !current.CanTransitionTo(next) {
			return "", fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, current, next)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("order status updated", map[string]interface{}{
		"order_id": id,
		"status":   order.Status,
	})
	return order, nil
}
