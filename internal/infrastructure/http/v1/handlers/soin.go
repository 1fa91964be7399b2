package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/soin"
	"clinova/internal/infrastructure/http/v1/dto"
)

// SoinHTTPHandler is the generic catalog handler specialized for soins.
type SoinHTTPHandler struct {
	*CatalogHandler[*soin.Soin, dto.CreateSoinRequest, dto.UpdateSoinRequest]
	service *soin.Service
}

// NewSoinHandler creates the soin HTTP handler.
func NewSoinHandler(base *BaseHandler, service *soin.Service) *SoinHTTPHandler {
	config := CatalogHandlerConfig[*soin.Soin, dto.CreateSoinRequest, dto.UpdateSoinRequest]{
		Service:    service.CatalogService,
		EntityName: "soin",

		MapCreateDTO: func(req dto.CreateSoinRequest) (*soin.Soin, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateSoinRequest, existing *soin.Soin) (*soin.Soin, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},
		MapToDTO: func(s *soin.Soin) any {
			return dto.FromSoin(s)
		},
	}

	return &SoinHTTPHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ByTherapeute handles GET /catalog/soins/by-therapeute/:employeeId
func (h *SoinHTTPHandler) ByTherapeute(c *gin.Context) {
	ctx := c.Request.Context()

	employeeID, err := id.Parse(c.Param("employeeId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid employeeId format"))
		return
	}

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.FindByTherapeute(ctx, employeeID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, s := range result.Items {
		items[i] = dto.FromSoin(s)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
