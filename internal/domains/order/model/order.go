package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus accepts exact enum names only
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.TrimSpace(s))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// allowedTransitions lists the statuses reachable from each status.
// COMPLETED and CANCELLED are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransitionTo reports whether s may move to next.
// Staying on the same status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a single-book purchase. SellerID and TotalPrice are copied from
// the book at purchase time and never recomputed.
type Order struct {
	ID         int64           `json:"id" db:"id"`
	BuyerID    int64           `json:"buyerId" db:"buyer_id"`
	BookID     int64           `json:"bookId" db:"book_id"`
	SellerID   int64           `json:"sellerId" db:"seller_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	Status     OrderStatus     `json:"status" db:"status"`
	OrderDate  time.Time       `json:"orderDate" db:"order_date"`
}

// NewCompletedOrder builds the order written by a successful purchase
func NewCompletedOrder(buyerID int64, book BookSnapshot, quantity int, now time.Time) *Order {
	return &Order{
		BuyerID:    buyerID,
		BookID:     book.ID,
		SellerID:   book.SellerID,
		Quantity:   quantity,
		TotalPrice: book.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:     OrderStatusCompleted,
		OrderDate:  now,
	}
}

// BookSnapshot is the view of a book returned by the Book Store at read time
type BookSnapshot struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	SellerID int64           `json:"sellerId"`
	Status   string          `json:"status"`
}
