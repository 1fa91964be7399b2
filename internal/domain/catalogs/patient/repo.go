package patient

import (
	"context"

	"clinova/internal/core/id"
	"clinova/internal/domain"
)

// Repository defines the interface for Patient persistence.
type Repository interface {
	domain.CatalogRepository[*Patient]

	// FindByCIN retrieves a patient by identity card number.
	FindByCIN(ctx context.Context, cin string) (*Patient, error)

	// GetForUpdate retrieves a patient with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Patient, error)
}
