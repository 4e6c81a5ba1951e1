package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PurchaseRequest is the body of POST /orders/purchase
type PurchaseRequest struct {
	BuyerID  int64 `json:"buyerId"`
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

func (r PurchaseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BuyerID, validation.Required.Error("buyerId is required"), validation.Min(int64(1))),
		validation.Field(&r.BookID, validation.Required.Error("bookId is required"), validation.Min(int64(1))),
		validation.Field(&r.Quantity,
			validation.Required.Error("quantity is required"),
			validation.Min(1).Error("quantity must be positive"),
		),
	)
}

// UpdateStatusRequest is the body of PUT /orders/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required.Error("status is required")),
	)
}

// ========================================
// BACKGROUND TASKS / EVENTS
// ========================================

// RestoreStockPayload is the asynq payload of the compensation task.
// OrderRef identifies the failed purchase; the Book Store applies each ref once.
type RestoreStockPayload struct {
	BookID   int64  `json:"bookId"`
	Quantity int    `json:"quantity"`
	OrderRef string `json:"orderRef"`
}

// OrderCompletedEvent is published after a purchase is persisted
type OrderCompletedEvent struct {
	EventID    string `json:"eventId"`
	EventType  string `json:"eventType"`
	OccurredAt string `json:"occurredAt"`
	Order      Order  `json:"order"`
}
