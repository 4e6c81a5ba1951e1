package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS opens every route to any origin
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Default is the middleware chain shared by all three services
func Default() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		Recovery(),
		RequestID(),
		Logger(),
		CORS(),
	}
}
