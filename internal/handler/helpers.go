package handler

import (
	"time"

	"github.com/RF-YVY/HustleNest/internal/apperr"
	"github.com/RF-YVY/HustleNest/pkg/response"

	"github.com/gin-gonic/gin"
)

// abortWithError maps a service error onto the HTTP status of its kind.
func abortWithError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	c.JSON(status, response.Error(status, err.Error()))
}

// dateQuery parses an optional YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
