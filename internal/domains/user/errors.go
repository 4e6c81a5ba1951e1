package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"book-marketplace/internal/shared/response"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid user role")
)

// Messages keep the wording existing clients match on
var userErrorMap = map[error]response.ErrorMapping{
	ErrUserNotFound: {
		Status: http.StatusNotFound,
		Code:   "USER_NOT_FOUND",
	},
	ErrEmailAlreadyExists: {
		Status:  http.StatusBadRequest,
		Code:    "EMAIL_EXISTS",
		Message: "Email already exists",
	},
	ErrInvalidCredentials: {
		Status:  http.StatusBadRequest,
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid credentials",
	},
	ErrInvalidRole: {
		Status: http.StatusBadRequest,
		Code:   "INVALID_ROLE",
	},
}

// HandleUserError writes the HTTP response for err; false when err is nil
func HandleUserError(c *gin.Context, err error) bool {
	return response.HandleError(c, userErrorMap, err)
}
