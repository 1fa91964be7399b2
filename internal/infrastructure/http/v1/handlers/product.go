package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/domain"
	"clinova/internal/domain/catalogs/product"
	"clinova/internal/infrastructure/http/v1/dto"
)

// ProductHTTPHandler is the generic catalog handler specialized for products.
type ProductHTTPHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
}

// NewProductHandler creates the product HTTP handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHTTPHandler {
	config := CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(req dto.CreateProductRequest) (*product.Product, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) (*product.Product, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
		MapToDTO: func(p *product.Product) any {
			return dto.FromProduct(p)
		},
	}

	return &ProductHTTPHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// LowStock handles GET /catalog/products/low-stock
func (h *ProductHTTPHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.FindLowStock(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, p := range result.Items {
		items[i] = dto.FromProduct(p)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
