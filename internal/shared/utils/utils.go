package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var ErrInvalidID = errors.New("id must be a positive integer")

// ParseID parses a positive int64 identifier
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParamID reads a path parameter as an identifier
func ParamID(c *gin.Context, name string) (int64, error) {
	return ParseID(c.Param(name))
}
