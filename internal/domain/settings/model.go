// Package settings provides the clinic profile and application settings.
package settings

import (
	"context"
	"time"

	"clinova/internal/core/apperror"
)

// Entreprise is the clinic business profile printed on invoices and
// rendered documents.
type Entreprise struct {
	Nom       string `db:"nom" json:"nom"`
	Adresse   string `db:"adresse" json:"adresse"`
	Ville     string `db:"ville" json:"ville,omitempty"`
	Telephone string `db:"telephone" json:"telephone,omitempty"`
	Email     string `db:"email" json:"email,omitempty"`

	// ICE is the Moroccan company identifier (Identifiant Commun de l'Entreprise)
	ICE string `db:"ice" json:"ice,omitempty"`

	// AfficherTVA controls whether invoices display the VAT breakdown
	AfficherTVA bool `db:"afficher_tva" json:"afficherTva"`

	// PiedDePage is the invoice footer text
	PiedDePage string `db:"pied_de_page" json:"piedDePage,omitempty"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks the profile.
func (e *Entreprise) Validate(ctx context.Context) error {
	if e.Nom == "" {
		return apperror.NewValidation("entreprise name is required").
			WithDetail("field", "nom")
	}
	return nil
}

// RenderContext shapes the profile for document template rendering.
func (e *Entreprise) RenderContext() map[string]string {
	return map[string]string{
		"nom":       e.Nom,
		"adresse":   e.Adresse,
		"ville":     e.Ville,
		"telephone": e.Telephone,
		"email":     e.Email,
		"ice":       e.ICE,
	}
}

// Setting is one application key/value pair.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
