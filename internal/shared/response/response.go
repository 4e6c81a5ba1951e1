package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error body returned by every service: {"error": "...", "code": "..."}
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// JSON writes the resource itself as the body, no envelope
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// ErrorResponse writes an error body and aborts the chain
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, Error{
		Error: message,
		Code:  code,
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message)
}

func Conflict(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", message)
}

func BadGateway(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

// ErrorMapping is one row of a per-domain error table
type ErrorMapping struct {
	Status  int
	Code    string
	Message string
}
