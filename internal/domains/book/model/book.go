package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BookStatus is derived from quantity, never set directly by clients
type BookStatus string

const (
	BookStatusAvailable BookStatus = "AVAILABLE"
	BookStatusSoldOut   BookStatus = "SOLD_OUT"
)

func (s BookStatus) IsValid() bool {
	switch s {
	case BookStatusAvailable, BookStatusSoldOut:
		return true
	}
	return false
}

func (s BookStatus) String() string {
	return string(s)
}

// ParseBookStatus accepts the exact enum names
func ParseBookStatus(s string) (BookStatus, error) {
	status := BookStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// StatusForQuantity: AVAILABLE iff quantity > 0
func StatusForQuantity(quantity int) BookStatus {
	if quantity > 0 {
		return BookStatusAvailable
	}
	return BookStatusSoldOut
}

// Book is a listing owned by a seller
type Book struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Author    string          `json:"author" db:"author"`
	ISBN      string          `json:"isbn" db:"isbn"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Quantity  int             `json:"quantity" db:"quantity"`
	SellerID  int64           `json:"sellerId" db:"seller_id"`
	Status    BookStatus      `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// SetQuantity is the only way quantity changes in Go code; it keeps the
// status in sync.
func (b *Book) SetQuantity(quantity int) {
	b.Quantity = quantity
	b.Status = StatusForQuantity(quantity)
}

// IsAvailable reports whether at least one copy is in stock
func (b *Book) IsAvailable() bool {
	return b.Status == BookStatusAvailable
}
