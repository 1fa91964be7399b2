// Package soin provides the Soin catalog (clinic care services).
package soin

import (
	"context"

	"github.com/shopspring/decimal"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
)

// SoinType classifies a care service.
type SoinType string

const (
	TypeConsultation SoinType = "consultation"
	TypeSeance       SoinType = "seance"
	TypeBilan        SoinType = "bilan"
	TypeAutre        SoinType = "autre"
)

// Soin represents a care service. Soins have no stock: invoicing a soin
// never produces stock movements.
type Soin struct {
	entity.Catalog

	// Type classifies the service
	Type SoinType `db:"type" json:"type"`

	// Prix is the service price
	Prix types.Money `db:"prix" json:"prix"`

	// DureeMinutes is the default session duration
	DureeMinutes int `db:"duree_minutes" json:"dureeMinutes"`

	// TherapeuteID is the default assigned employee
	TherapeuteID *id.ID `db:"therapeute_id" json:"therapeuteId,omitempty"`

	// Cabinet is the room/location where the soin takes place
	Cabinet *string `db:"cabinet" json:"cabinet,omitempty"`

	// Description is a free-form description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewSoin creates a new Soin with required fields.
func NewSoin(name string, soinType SoinType, prix types.Money) *Soin {
	return &Soin{
		Catalog: entity.NewCatalog("", name),
		Type:    soinType,
		Prix:    prix,
	}
}

// Validate implements entity.Validatable interface.
func (s *Soin) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidSoinType(s.Type) {
		return apperror.NewValidation("invalid soin type").
			WithDetail("field", "type").
			WithDetail("value", string(s.Type))
	}

	if s.Prix.LessThan(decimal.Zero) {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "prix")
	}

	if s.DureeMinutes < 0 {
		return apperror.NewValidation("duration cannot be negative").
			WithDetail("field", "dureeMinutes")
	}

	return nil
}

func isValidSoinType(t SoinType) bool {
	switch t {
	case TypeConsultation, TypeSeance, TypeBilan, TypeAutre:
		return true
	}
	return false
}
