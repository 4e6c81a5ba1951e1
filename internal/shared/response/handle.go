package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"book-marketplace/pkg/logger"
)

// HandleError looks err up in the domain table (errors.Is, so wrapped errors
// match) and writes the mapped response. Unknown errors become a 500 and are
// logged. Request validation failures are always a 400. Returns false when
// err is nil.
func HandleError(c *gin.Context, table map[error]ErrorMapping, err error) bool {
	if err == nil {
		return false
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", verrs.Error())
		return true
	}

	for target, m := range table {
		if errors.Is(err, target) {
			message := m.Message
			if message == "" {
				message = target.Error()
			}
			ErrorResponse(c, m.Status, m.Code, message)
			return true
		}
	}

	logger.ErrorWithFields("unhandled error", err, map[string]interface{}{
		"request_id": c.GetString("request_id"),
		"path":       c.Request.URL.Path,
	})
	InternalServerError(c, "internal server error")
	return true
}
