package dto

import (
	"clinova/internal/core/entity"
	"clinova/internal/core/types"
	"clinova/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	PrixUnitaire  types.Money       `json:"prixUnitaire"`
	QuantiteStock types.Quantity    `json:"quantiteStock"`
	SeuilAlerte   types.Quantity    `json:"seuilAlerte"`
	Description   *string           `json:"description"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Name, r.PrixUnitaire)
	p.Code = r.Code
	p.QuantiteStock = r.QuantiteStock
	p.SeuilAlerte = r.SeuilAlerte
	p.Description = r.Description
	p.Attributes = r.Attributes
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	PrixUnitaire types.Money       `json:"prixUnitaire"`
	SeuilAlerte  types.Quantity    `json:"seuilAlerte"`
	Description  *string           `json:"description"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
// QuantiteStock is deliberately absent: stock only changes through
// invoice reconciliation, never by direct edit.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.PrixUnitaire = r.PrixUnitaire
	p.SeuilAlerte = r.SeuilAlerte
	p.Description = r.Description
	p.Attributes = r.Attributes
	p.Version = r.Version
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	PrixUnitaire  types.Money       `json:"prixUnitaire"`
	QuantiteStock types.Quantity    `json:"quantiteStock"`
	SeuilAlerte   types.Quantity    `json:"seuilAlerte"`
	LowStock      bool              `json:"lowStock"`
	Description   *string           `json:"description,omitempty"`
	DeletionMark  bool              `json:"deletionMark"`
	Version       int               `json:"version"`
	Attributes    entity.Attributes `json:"attributes,omitempty"`
}

// FromProduct creates response DTO from domain entity.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		Name:          p.Name,
		PrixUnitaire:  p.PrixUnitaire,
		QuantiteStock: p.QuantiteStock,
		SeuilAlerte:   p.SeuilAlerte,
		LowStock:      p.IsLowStock(),
		Description:   p.Description,
		DeletionMark:  p.DeletionMark,
		Version:       p.Version,
		Attributes:    p.Attributes,
	}
}
