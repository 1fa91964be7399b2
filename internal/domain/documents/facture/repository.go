package facture

import (
	"context"
	"time"

	"clinova/internal/core/id"
)

// ListFilter narrows invoice listings.
type ListFilter struct {
	PatientCIN string
	Status     Status
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// Repository defines invoice persistence. Line writes are full-replace:
// Update rewrites the whole line set of the invoice.
type Repository interface {
	Create(ctx context.Context, f *Facture) error
	GetByID(ctx context.Context, factureID id.ID) (*Facture, error)
	GetForUpdate(ctx context.Context, factureID id.ID) (*Facture, error)
	Update(ctx context.Context, f *Facture) error
	Delete(ctx context.Context, factureID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]Facture, int, error)
	ListOverdueCandidates(ctx context.Context, before time.Time) ([]Facture, error)
	LatestByPatient(ctx context.Context, patientCIN string) (*Facture, error)
}
