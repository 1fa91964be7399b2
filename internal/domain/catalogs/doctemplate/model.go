// Package doctemplate provides the document template catalog and its renderer.
// Templates carry placeholder expressions evaluated against patient, facture
// and entreprise data at render time.
package doctemplate

import (
	"context"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
)

// Category groups templates by purpose.
type Category string

const (
	CategoryCertificat  Category = "certificat"
	CategoryOrdonnance  Category = "ordonnance"
	CategoryCourrier    Category = "courrier"
	CategoryAttestation Category = "attestation"
)

// Template represents a document template.
type Template struct {
	entity.Catalog

	// Category groups templates
	Category Category `db:"category" json:"category"`

	// Body is the template text with {{expr}} placeholders.
	// Expressions are CEL, evaluated against patient/facture/entreprise.
	Body string `db:"body" json:"body"`

	// Description explains when to use the template
	Description *string `db:"description" json:"description,omitempty"`
}

// NewTemplate creates a new Template with required fields.
func NewTemplate(name string, category Category, body string) *Template {
	return &Template{
		Catalog:  entity.NewCatalog("", name),
		Category: category,
		Body:     body,
	}
}

// Validate implements entity.Validatable interface.
func (t *Template) Validate(ctx context.Context) error {
	if err := t.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidCategory(t.Category) {
		return apperror.NewValidation("invalid template category").
			WithDetail("field", "category").
			WithDetail("value", string(t.Category))
	}

	if t.Body == "" {
		return apperror.NewValidation("template body is required").
			WithDetail("field", "body")
	}

	return nil
}

func isValidCategory(c Category) bool {
	switch c {
	case CategoryCertificat, CategoryOrdonnance, CategoryCourrier, CategoryAttestation:
		return true
	}
	return false
}

// RenderedDocument is a stored render result for a patient.
type RenderedDocument struct {
	ID         id.ID     `db:"id" json:"id"`
	TemplateID id.ID     `db:"template_id" json:"templateId"`
	PatientCIN string    `db:"patient_cin" json:"patientCin"`
	Content    string    `db:"content" json:"content"`
	RenderedBy string    `db:"rendered_by" json:"renderedBy,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
