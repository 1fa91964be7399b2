// Package employee provides the Employee catalog.
package employee

import (
	"context"
	"strings"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
)

// Role defines the employee's function in the clinic.
type Role string

const (
	RoleMedecin      Role = "medecin"
	RoleKine         Role = "kine"
	RoleInfirmier    Role = "infirmier"
	RoleSecretaire   Role = "secretaire"
	RoleAdministratif Role = "administratif"
)

// Employee represents a clinic staff member.
type Employee struct {
	entity.Catalog

	// CIN is the national identity card number (unique)
	CIN string `db:"cin" json:"cin"`

	// Nom is the family name
	Nom string `db:"nom" json:"nom"`

	// Prenom is the given name
	Prenom string `db:"prenom" json:"prenom"`

	// Role is the clinic function
	Role Role `db:"role" json:"role"`

	// Telephone is the contact phone
	Telephone *string `db:"telephone" json:"telephone,omitempty"`

	// Email is the contact email
	Email *string `db:"email" json:"email,omitempty"`

	// DateEmbauche is the hire date
	DateEmbauche *time.Time `db:"date_embauche" json:"dateEmbauche,omitempty"`

	// UserID links the employee to an auth account, when one exists
	UserID *id.ID `db:"user_id" json:"userId,omitempty"`
}

// NewEmployee creates a new Employee with required fields.
func NewEmployee(cin, nom, prenom string, role Role) *Employee {
	return &Employee{
		Catalog: entity.NewCatalog("", strings.TrimSpace(nom+" "+prenom)),
		CIN:     strings.ToUpper(strings.TrimSpace(cin)),
		Nom:     nom,
		Prenom:  prenom,
		Role:    role,
	}
}

// FullName returns "Nom Prenom".
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.Nom + " " + e.Prenom)
}

// Validate implements entity.Validatable interface.
func (e *Employee) Validate(ctx context.Context) error {
	if e.Nom == "" {
		return apperror.NewValidation("nom is required").
			WithDetail("field", "nom")
	}

	if e.CIN == "" {
		return apperror.NewValidation("CIN is required").
			WithDetail("field", "cin")
	}

	if !isValidRole(e.Role) {
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role").
			WithDetail("value", string(e.Role))
	}

	if e.Name == "" {
		e.Name = e.FullName()
	}

	return nil
}

func isValidRole(r Role) bool {
	switch r {
	case RoleMedecin, RoleKine, RoleInfirmier, RoleSecretaire, RoleAdministratif:
		return true
	}
	return false
}
