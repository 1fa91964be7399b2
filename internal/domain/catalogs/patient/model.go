// Package patient provides the Patient catalog.
package patient

import (
	"context"
	"regexp"
	"strings"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
)

var cinPattern = regexp.MustCompile(`^[A-Za-z]{1,2}[0-9]{4,8}$`)

// Patient represents a clinic patient.
type Patient struct {
	entity.Catalog

	// CIN is the national identity card number (unique)
	CIN string `db:"cin" json:"cin"`

	// Nom is the family name
	Nom string `db:"nom" json:"nom"`

	// Prenom is the given name
	Prenom string `db:"prenom" json:"prenom"`

	// DateNaissance is the birth date
	DateNaissance *time.Time `db:"date_naissance" json:"dateNaissance,omitempty"`

	// Telephone is the contact phone
	Telephone *string `db:"telephone" json:"telephone,omitempty"`

	// Email is the contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Adresse is the postal address
	Adresse *string `db:"adresse" json:"adresse,omitempty"`

	// Mutuelle is the health insurance provider
	Mutuelle *string `db:"mutuelle" json:"mutuelle,omitempty"`

	// Notes holds medical history remarks
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// NewPatient creates a new Patient with required fields.
// Name is derived from nom/prenom for catalog search.
func NewPatient(cin, nom, prenom string) *Patient {
	p := &Patient{
		Catalog: entity.NewCatalog("", strings.TrimSpace(nom+" "+prenom)),
		CIN:     strings.ToUpper(strings.TrimSpace(cin)),
		Nom:     nom,
		Prenom:  prenom,
	}
	return p
}

// FullName returns "Nom Prenom".
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.Nom + " " + p.Prenom)
}

// Validate implements entity.Validatable interface.
func (p *Patient) Validate(ctx context.Context) error {
	if p.Nom == "" {
		return apperror.NewValidation("nom is required").
			WithDetail("field", "nom")
	}

	if p.CIN == "" {
		return apperror.NewValidation("CIN is required").
			WithDetail("field", "cin")
	}

	if !cinPattern.MatchString(p.CIN) {
		return apperror.NewValidation("invalid CIN format").
			WithDetail("field", "cin").
			WithDetail("value", p.CIN)
	}

	if p.DateNaissance != nil && p.DateNaissance.After(time.Now()) {
		return apperror.NewValidation("birth date cannot be in the future").
			WithDetail("field", "dateNaissance")
	}

	// Keep search name in sync with nom/prenom
	if p.Name == "" {
		p.Name = p.FullName()
	}

	return nil
}
