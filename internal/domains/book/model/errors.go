package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"book-marketplace/internal/shared/response"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidStatus     = errors.New("invalid book status")
)

var bookErrorMap = map[error]response.ErrorMapping{
	ErrBookNotFound: {
		Status: http.StatusNotFound,
		Code:   "BOOK_NOT_FOUND",
	},
	ErrInsufficientStock: {
		Status: http.StatusConflict,
		Code:   "INSUFFICIENT_STOCK",
	},
	ErrInvalidQuantity: {
		Status: http.StatusBadRequest,
		Code:   "INVALID_QUANTITY",
	},
	ErrInvalidStatus: {
		Status: http.StatusBadRequest,
		Code:   "INVALID_STATUS",
	},
}

// HandleBookError writes the HTTP response for err; false when err is nil
func HandleBookError(c *gin.Context, err error) bool {
	return response.HandleError(c, bookErrorMap, err)
}
