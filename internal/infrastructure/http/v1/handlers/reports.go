package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/domain/reports"
	"clinova/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetStockBalance handles GET /reports/stock-balance
func (h *ReportsHandler) GetStockBalance(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StockBalanceReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetStockBalance(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetRevenue handles GET /reports/revenue
func (h *ReportsHandler) GetRevenue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RevenueReportRequest
	if !h.BindQuery(c, &req) {
		return
	}

	report, err := h.service.GetRevenue(ctx, req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetDocumentJournal handles GET /reports/document-journal
func (h *ReportsHandler) GetDocumentJournal(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.DocumentJournalRequest
	if !h.BindQuery(c, &req) {
		return
	}

	journal, err := h.service.GetDocumentJournal(ctx, req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, journal)
}
