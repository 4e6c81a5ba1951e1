package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. ok is false when the header is missing or uses another scheme;
// the token itself may still be empty.
func BearerToken(c *gin.Context) (token string, ok bool) {
	header := c.GetHeader(AuthorizationHeader)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(header, bearerPrefix), true
}
