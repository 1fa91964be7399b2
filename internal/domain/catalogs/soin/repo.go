package soin

import (
	"context"

	"clinova/internal/core/id"
	"clinova/internal/domain"
)

// Repository defines the interface for Soin persistence.
type Repository interface {
	domain.CatalogRepository[*Soin]

	// FindByName retrieves a soin by exact name.
	FindByName(ctx context.Context, name string) (*Soin, error)

	// FindByTherapeute retrieves soins assigned to an employee.
	FindByTherapeute(ctx context.Context, employeeID id.ID, filter domain.ListFilter) (domain.ListResult[*Soin], error)
}
