// Package product provides the Product catalog (sellable clinic goods).
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/types"
)

// Product represents a sellable good tracked in stock.
type Product struct {
	entity.Catalog

	// PrixUnitaire is the unit sale price
	PrixUnitaire types.Money `db:"prix_unitaire" json:"prixUnitaire"`

	// QuantiteStock is the current on-hand quantity. It is derived from
	// stock movements and mutated only by invoice reconciliation; never
	// written directly through catalog update.
	QuantiteStock types.Quantity `db:"quantite_stock" json:"quantiteStock"`

	// SeuilAlerte is the low-stock alert threshold
	SeuilAlerte types.Quantity `db:"seuil_alerte" json:"seuilAlerte"`

	// Description is a free-form description
	Description *string `db:"description" json:"description,omitempty"`

	// CreatedBy is the CIN of the user who created the product
	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(name string, prix types.Money) *Product {
	return &Product{
		Catalog:      entity.NewCatalog("", name),
		PrixUnitaire: prix,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.PrixUnitaire.LessThan(decimal.Zero) {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "prixUnitaire")
	}

	if p.QuantiteStock.IsNegative() {
		return apperror.NewValidation("stock quantity cannot be negative").
			WithDetail("field", "quantiteStock")
	}

	if p.SeuilAlerte.IsNegative() {
		return apperror.NewValidation("alert threshold cannot be negative").
			WithDetail("field", "seuilAlerte")
	}

	return nil
}

// IsLowStock reports whether the stock is at or below the alert threshold.
func (p *Product) IsLowStock() bool {
	return !p.SeuilAlerte.IsZero() && p.QuantiteStock <= p.SeuilAlerte
}
