package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/domain/activity"
)

// ActivityHandler serves the recent-actions feed.
type ActivityHandler struct {
	*BaseHandler
	feed *activity.Feed
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(base *BaseHandler, feed *activity.Feed) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler: base,
		feed:        feed,
	}
}

// Recent handles GET /activity
func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 20)
	entries := h.feed.Recent(limit)

	c.JSON(http.StatusOK, gin.H{"items": entries})
}
