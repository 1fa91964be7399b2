package doctemplate

import (
	"context"

	"clinova/internal/domain"
)

// Repository defines the interface for Template persistence.
type Repository interface {
	domain.CatalogRepository[*Template]

	// SaveRendered stores a render result.
	SaveRendered(ctx context.Context, doc *RenderedDocument) error

	// ListRendered retrieves stored documents for a patient.
	ListRendered(ctx context.Context, patientCIN string, limit int) ([]RenderedDocument, error)
}
