package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/infrastructure/http/v1/dto"
)

// FactureHandler handles invoice endpoints.
type FactureHandler struct {
	*BaseHandler
	service *facture.Service
}

// NewFactureHandler creates a new invoice handler.
func NewFactureHandler(base *BaseHandler, service *facture.Service) *FactureHandler {
	return &FactureHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /document/factures
func (h *FactureHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := facture.ListFilter{
		PatientCIN: c.Query("patientCin"),
		Status:     facture.Status(c.Query("status")),
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}

	if from := c.Query("fromDate"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid fromDate format (expected YYYY-MM-DD)"))
			return
		}
		filter.FromDate = &t
	}
	if to := c.Query("toDate"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid toDate format (expected YYYY-MM-DD)"))
			return
		}
		filter.ToDate = &t
	}

	factures, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(factures))
	for i := range factures {
		items[i] = dto.FromFacture(&factures[i])
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(total),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Get handles GET /document/factures/:id
func (h *FactureHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	factureID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	f, err := h.service.GetByID(ctx, factureID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromFacture(f))
}

// Create handles POST /document/factures
func (h *FactureHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateFactureRequest
	if !h.BindJSON(c, &req) {
		return
	}

	f, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Create(ctx, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromFactureResult(result)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Update handles PUT /document/factures/:id
func (h *FactureHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	factureID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateFactureRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, factureID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(existing); err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Update(ctx, existing)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromFactureResult(result)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// SetStatus handles POST /document/factures/:id/status
func (h *FactureHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	factureID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetFactureStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var payment *facture.PaymentInfo
	if req.ModePaiement != nil {
		payment = &facture.PaymentInfo{
			Mode: *req.ModePaiement,
			Date: req.DatePaiement,
		}
		if req.NumeroCheque != nil {
			payment.NumeroCheque = *req.NumeroCheque
		}
		if req.Banque != nil {
			payment.Banque = *req.Banque
		}
	}

	result, err := h.service.SetStatus(ctx, factureID, req.Status, payment)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromFactureResult(result)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /document/factures/:id
// Deleting a paid invoice restores its consumed stock; any resulting
// warnings are returned in the response body.
func (h *FactureHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	factureID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	warnings, err := h.service.Delete(ctx, factureID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if len(warnings) > 0 {
		c.JSON(http.StatusOK, gin.H{"warnings": dto.FromStockWarnings(warnings)})
		return
	}
	c.Status(http.StatusNoContent)
}
