package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain/documents/rendezvous"
	"clinova/internal/infrastructure/http/v1/dto"
)

// RendezVousHandler handles appointment endpoints.
type RendezVousHandler struct {
	*BaseHandler
	service *rendezvous.Service
}

// NewRendezVousHandler creates a new appointment handler.
func NewRendezVousHandler(base *BaseHandler, service *rendezvous.Service) *RendezVousHandler {
	return &RendezVousHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /document/rendez-vous
func (h *RendezVousHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := rendezvous.ListFilter{
		PatientCIN: c.Query("patientCin"),
		Status:     rendezvous.Status(c.Query("status")),
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("employeeId"); raw != "" {
		employeeID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid employeeId format"))
			return
		}
		filter.EmployeeID = &employeeID
	}
	if raw := c.Query("day"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid day format (expected YYYY-MM-DD)"))
			return
		}
		filter.Day = &day
	}

	rdvs, total, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(rdvs))
	for i := range rdvs {
		items[i] = dto.FromRendezVous(&rdvs[i])
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(total),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Get handles GET /document/rendez-vous/:id
func (h *RendezVousHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	rdvID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	rdv, err := h.service.GetByID(ctx, rdvID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromRendezVous(rdv))
}

// Create handles POST /document/rendez-vous
func (h *RendezVousHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateRendezVousRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rdv, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, rdv); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromRendezVous(rdv)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", response)
	c.JSON(http.StatusCreated, response)
}

// Update handles PUT /document/rendez-vous/:id
func (h *RendezVousHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	rdvID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateRendezVousRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, rdvID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(existing); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, existing); err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromRendezVous(existing)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// SetStatus handles POST /document/rendez-vous/:id/status
func (h *RendezVousHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	rdvID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetRendezVousStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rdv, err := h.service.SetStatus(ctx, rdvID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := dto.FromRendezVous(rdv)
	h.CompleteIdempotency(c, http.StatusOK, "application/json", response)
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /document/rendez-vous/:id
func (h *RendezVousHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	rdvID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, rdvID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AvailableSlots handles GET /document/rendez-vous/slots
func (h *RendezVousHandler) AvailableSlots(c *gin.Context) {
	ctx := c.Request.Context()

	raw := c.Query("date")
	if raw == "" {
		h.Error(c, apperror.NewValidation("date query parameter is required"))
		return
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date format (expected YYYY-MM-DD)"))
		return
	}

	var employeeID *id.ID
	if rawID := c.Query("employeeId"); rawID != "" {
		parsed, err := id.Parse(rawID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid employeeId format"))
			return
		}
		employeeID = &parsed
	}

	slots, err := h.service.AvailableSlots(ctx, date, employeeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  raw,
		"slots": dto.FromSlots(slots),
	})
}
