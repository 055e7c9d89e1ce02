package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veresko/boxroom/internal/server/http/middleware"
)

// CurrentUserID extracts the caller identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
