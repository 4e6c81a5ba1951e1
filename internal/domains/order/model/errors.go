package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"book-marketplace/internal/shared/response"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrBookStoreUnavailable = errors.New("book store unavailable")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidTransition    = errors.New("order status transition not allowed")
)

// The purchase errors keep the 400 + message contract existing clients
// already parse ("Book not found", "Insufficient stock").
var orderErrorMap = map[error]response.ErrorMapping{
	ErrOrderNotFound: {
		Status: http.StatusNotFound,
		Code:   "ORDER_NOT_FOUND",
	},
	ErrBookNotFound: {
		Status:  http.StatusBadRequest,
		Code:    "BOOK_NOT_FOUND",
		Message: "Book not found",
	},
	ErrInsufficientStock: {
		Status:  http.StatusBadRequest,
		Code:    "INSUFFICIENT_STOCK",
		Message: "Insufficient stock",
	},
	ErrBookStoreUnavailable: {
		Status: http.StatusBadGateway,
		Code:   "UPSTREAM_UNAVAILABLE",
	},
	ErrInvalidStatus: {
		Status: http.StatusBadRequest,
		Code:   "INVALID_STATUS",
	},
	ErrInvalidTransition: {
		Status: http.StatusConflict,
		Code:   "INVALID_TRANSITION",
	},
}

// HandleOrderError writes the HTTP response for err; false when err is nil
func HandleOrderError(c *gin.Context, err error) bool {
	return response.HandleError(c, orderErrorMap, err)
}
