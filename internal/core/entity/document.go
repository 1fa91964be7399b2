package entity

import (
	"context"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
)

// Document is the base type for dated business records: factures and
// rendez-vous. Unlike catalogs, documents track who created and changed them.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+year)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document dated now.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// GetID returns the document ID.
func (d *Document) GetID() id.ID {
	return d.ID
}

// IsBackdated checks if document date is in the past.
func (d *Document) IsBackdated() bool {
	return d.Date.Before(time.Now().UTC().Truncate(24 * time.Hour))
}
