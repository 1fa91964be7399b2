package employee

import (
	"context"

	"clinova/internal/domain"
)

// Repository defines the interface for Employee persistence.
type Repository interface {
	domain.CatalogRepository[*Employee]

	// FindByCIN retrieves an employee by identity card number.
	FindByCIN(ctx context.Context, cin string) (*Employee, error)

	// FindByRole retrieves employees with a given role.
	FindByRole(ctx context.Context, role Role, filter domain.ListFilter) (domain.ListResult[*Employee], error)
}
