package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/domain/catalogs/patient"
	"clinova/internal/infrastructure/http/v1/dto"
)

// PatientHTTPHandler is the generic catalog handler specialized for patients.
type PatientHTTPHandler struct {
	*CatalogHandler[*patient.Patient, dto.CreatePatientRequest, dto.UpdatePatientRequest]
	service *patient.Service
}

// NewPatientHandler creates the patient HTTP handler.
func NewPatientHandler(base *BaseHandler, service *patient.Service) *PatientHTTPHandler {
	config := CatalogHandlerConfig[*patient.Patient, dto.CreatePatientRequest, dto.UpdatePatientRequest]{
		Service:    service.CatalogService,
		EntityName: "patient",

		MapCreateDTO: func(req dto.CreatePatientRequest) (*patient.Patient, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdatePatientRequest, existing *patient.Patient) (*patient.Patient, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
		MapToDTO: func(p *patient.Patient) any {
			return dto.FromPatient(p)
		},
	}

	return &PatientHTTPHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// GetByCIN handles GET /catalog/patients/by-cin/:cin
func (h *PatientHTTPHandler) GetByCIN(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.service.FindByCIN(ctx, c.Param("cin"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPatient(p))
}
