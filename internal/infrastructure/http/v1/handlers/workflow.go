package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/domain"
	"clinova/internal/domain/workflow"
	"clinova/internal/infrastructure/http/v1/dto"
)

// WorkflowHandler serves the patient workflow view: each patient joined
// with their latest appointment and latest invoice.
type WorkflowHandler struct {
	*BaseHandler
	service *workflow.Service
}

// NewWorkflowHandler creates a new workflow handler.
func NewWorkflowHandler(base *BaseHandler, service *workflow.Service) *WorkflowHandler {
	return &WorkflowHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /workflow
func (h *WorkflowHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	entries, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(entries))
	for i := range entries {
		items[i] = dto.FromWorkflowEntry(&entries[i])
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(total),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// GetByCIN handles GET /workflow/:cin
func (h *WorkflowHandler) GetByCIN(c *gin.Context) {
	ctx := c.Request.Context()

	entry, err := h.service.GetByCIN(ctx, c.Param("cin"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromWorkflowEntry(entry))
}
