package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/domain/registers/stock"
	"clinova/internal/infrastructure/http/v1/dto"
)

// StockHandler handles stock register read endpoints.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBalances handles GET /registers/stock/balances
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	filter := stock.BalanceFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
	}
	for _, raw := range c.QueryArray("productIds") {
		productID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid product id in productIds").
				WithDetail("value", raw))
			return
		}
		filter.ProductIDs = append(filter.ProductIDs, productID)
	}

	balances, err := h.service.GetBalances(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockBalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = dto.FromStockBalance(b)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetMovements handles GET /registers/stock/movements/:productId
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("recordType"); raw != "" {
		rt := entity.RecordType(raw)
		filter.RecordType = &rt
	}
	if raw := c.Query("fromDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid fromDate format (expected YYYY-MM-DD)"))
			return
		}
		filter.FromDate = &t
	}
	if raw := c.Query("toDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid toDate format (expected YYYY-MM-DD)"))
			return
		}
		filter.ToDate = &t
	}

	movements, err := h.service.GetMovementHistory(ctx, productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		items[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetTurnover handles GET /registers/stock/turnover
func (h *StockHandler) GetTurnover(c *gin.Context) {
	ctx := c.Request.Context()

	fromDate, err := time.Parse("2006-01-02", c.Query("fromDate"))
	if err != nil {
		h.Error(c, apperror.NewValidation("fromDate is required (YYYY-MM-DD)"))
		return
	}
	toDate, err := time.Parse("2006-01-02", c.Query("toDate"))
	if err != nil {
		h.Error(c, apperror.NewValidation("toDate is required (YYYY-MM-DD)"))
		return
	}

	filter := stock.TurnoverFilter{
		FromDate: fromDate,
		ToDate:   toDate,
	}
	if raw := c.Query("productId"); raw != "" {
		productID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		filter.ProductID = &productID
	}

	turnover, err := h.service.GetTurnover(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromTurnover(turnover))
}

// Recalculate handles POST /registers/stock/recalculate
// Rebuilds balances from the movement history.
func (h *StockHandler) Recalculate(c *gin.Context) {
	ctx := c.Request.Context()

	var productID *id.ID
	if raw := c.Query("productId"); raw != "" {
		parsed, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		productID = &parsed
	}

	if err := h.service.RecalculateBalances(ctx, productID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "balances recalculated")
}
