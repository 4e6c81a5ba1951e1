package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ========================================
// REQUEST DTOs
// ========================================

// BookRequest is the body of POST /books and PUT /books/:id.
// Update replaces every field, so both share one shape.
type BookRequest struct {
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	ISBN     string          `json:"isbn"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int            `json:"quantity"`
	SellerID int64           `json:"sellerId"`
}

func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Author, validation.Length(0, 255)),
		validation.Field(&r.ISBN, validation.Length(0, 20)),
		validation.Field(&r.Price, validation.By(nonNegativeDecimal)),
		validation.Field(&r.Quantity,
			validation.NotNil.Error("quantity is required"),
			validation.Min(0).Error("quantity must not be negative"),
		),
		validation.Field(&r.SellerID,
			validation.Required.Error("sellerId is required"),
			validation.Min(int64(1)),
		),
	)
}

// ToBook builds the entity, status derived from quantity
func (r BookRequest) ToBook() *Book {
	b := &Book{
		Title:    r.Title,
		Author:   r.Author,
		ISBN:     r.ISBN,
		Price:    r.Price,
		SellerID: r.SellerID,
	}
	quantity := 0
	if r.Quantity != nil {
		quantity = *r.Quantity
	}
	b.SetQuantity(quantity)
	return b
}

// UpdateQuantityRequest is the body of PUT /books/:id/quantity
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (r UpdateQuantityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity,
			validation.NotNil.Error("quantity is required"),
			validation.Min(0).Error("quantity must not be negative"),
		),
	)
}

// StockChangeRequest is the body of POST /books/:id/decrement and /restock.
// OrderRef is only read by restock: a ref that was already applied is not
// added a second time.
type StockChangeRequest struct {
	Quantity int    `json:"quantity"`
	OrderRef string `json:"orderRef"`
}

func (r StockChangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Quantity,
			validation.Required.Error("quantity is required"),
			validation.Min(1).Error("quantity must be positive"),
		),
		validation.Field(&r.OrderRef, validation.Length(0, 64)),
	)
}

func nonNegativeDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal")
	}
	if d.IsNegative() {
		return errors.New("price must not be negative")
	}
	return nil
}
