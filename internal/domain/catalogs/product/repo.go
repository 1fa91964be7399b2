package product

import (
	"context"

	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetForUpdate retrieves a product with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)

	// FindByName retrieves a product by exact name.
	FindByName(ctx context.Context, name string) (*Product, error)

	// FindLowStock retrieves products with stock at or below their alert threshold.
	FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)

	// AdjustStock applies a signed quantity delta to the stored quantity.
	// The write is clamped at zero by the stock register service before it
	// reaches here.
	AdjustStock(ctx context.Context, id id.ID, delta types.Quantity) error

	// SetStock overwrites the stored quantity.
	SetStock(ctx context.Context, id id.ID, quantity types.Quantity) error
}
