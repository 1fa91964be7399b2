package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/employee"
	"clinova/internal/infrastructure/http/v1/dto"
)

// EmployeeHTTPHandler is the generic catalog handler specialized for employees.
type EmployeeHTTPHandler struct {
	*CatalogHandler[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]
	service *employee.Service
}

// NewEmployeeHandler creates the employee HTTP handler.
func NewEmployeeHandler(base *BaseHandler, service *employee.Service) *EmployeeHTTPHandler {
	config := CatalogHandlerConfig[*employee.Employee, dto.CreateEmployeeRequest, dto.UpdateEmployeeRequest]{
		Service:    service.CatalogService,
		EntityName: "employee",

		MapCreateDTO: func(req dto.CreateEmployeeRequest) (*employee.Employee, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateEmployeeRequest, existing *employee.Employee) (*employee.Employee, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},
		MapToDTO: func(e *employee.Employee) any {
			return dto.FromEmployee(e)
		},
	}

	return &EmployeeHTTPHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ByRole handles GET /catalog/employees/by-role/:role
func (h *EmployeeHTTPHandler) ByRole(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.FindByRole(ctx, employee.Role(c.Param("role")), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, e := range result.Items {
		items[i] = dto.FromEmployee(e)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
