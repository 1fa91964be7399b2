package rendezvous

import (
	"context"
	"time"

	"clinova/internal/core/id"
)

// ListFilter narrows appointment listings.
type ListFilter struct {
	PatientCIN string
	EmployeeID *id.ID
	Status     Status
	// Day restricts to appointments starting on that calendar day
	Day    *time.Time
	Limit  int
	Offset int
}

// Repository defines appointment persistence.
type Repository interface {
	Create(ctx context.Context, r *RendezVous) error
	GetByID(ctx context.Context, rdvID id.ID) (*RendezVous, error)
	GetForUpdate(ctx context.Context, rdvID id.ID) (*RendezVous, error)
	Update(ctx context.Context, r *RendezVous) error
	Delete(ctx context.Context, rdvID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]RendezVous, int, error)
	ListForDay(ctx context.Context, day time.Time, employeeID *id.ID) ([]RendezVous, error)
	LatestByPatient(ctx context.Context, patientCIN string) (*RendezVous, error)
}
