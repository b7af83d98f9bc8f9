package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DefaultPageLimit is used when the limit query parameter is absent.
	DefaultPageLimit = 50
	// MaxPageLimit is the largest accepted limit.
	MaxPageLimit = 100
)

// ParseKeysetPagination parses the "after" and "limit" query parameters.
// "after" is the last id of the previous page and defaults to uuid.Nil.
// "limit" defaults to DefaultPageLimit and cannot exceed MaxPageLimit.
func ParseKeysetPagination(c *gin.Context) (after uuid.UUID, limit int, err error) {
	if afterStr := c.Query("after"); afterStr != "" {
		after, err = uuid.Parse(afterStr)
		if err != nil {
			return uuid.Nil, 0, fmt.Errorf("invalid after parameter: must be a UUID")
		}
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageLimit)))
	if err != nil || limit < 1 || limit > MaxPageLimit {
		return uuid.Nil, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", MaxPageLimit)
	}

	return after, limit, nil
}
