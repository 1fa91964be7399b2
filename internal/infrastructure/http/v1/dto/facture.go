package dto

import (
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/domain/registers/stock"
)

// --- Request DTOs ---

// FactureLigneRequest is one invoice line in a request body.
type FactureLigneRequest struct {
	BienType     facture.BienType `json:"bienType" binding:"required"`
	BienID       string           `json:"bienId" binding:"required"`
	Designation  string           `json:"designation" binding:"required"`
	Quantite     types.Quantity   `json:"quantite" binding:"required"`
	PrixUnitaire types.Money      `json:"prixUnitaire"`
}

func (r *FactureLigneRequest) toLigne() (facture.Ligne, error) {
	bienID, err := id.Parse(r.BienID)
	if err != nil {
		return facture.Ligne{}, apperror.NewValidation("invalid bienId format").
			WithDetail("value", r.BienID)
	}
	return facture.NewLigne(r.BienType, bienID, r.Designation, r.Quantite, r.PrixUnitaire), nil
}

// CreateFactureRequest is the request body for creating an invoice.
type CreateFactureRequest struct {
	Number       string                `json:"number"`
	Date         time.Time             `json:"date"`
	PatientCIN   string                `json:"patientCin" binding:"required"`
	Status       facture.Status        `json:"status"`
	ModePaiement *facture.ModePaiement `json:"modePaiement"`
	NumeroCheque *string               `json:"numeroCheque"`
	Banque       *string               `json:"banque"`
	Comment      string                `json:"comment"`
	Lignes       []FactureLigneRequest `json:"lignes"`
	Attributes   entity.Attributes     `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateFactureRequest) ToEntity() (*facture.Facture, error) {
	f := facture.NewFacture(r.PatientCIN, r.Date)
	f.Number = r.Number
	if r.Status != "" {
		f.Status = r.Status
	}
	f.ModePaiement = r.ModePaiement
	f.NumeroCheque = r.NumeroCheque
	f.Banque = r.Banque
	f.Comment = r.Comment
	f.Attributes = r.Attributes

	for _, lr := range r.Lignes {
		ligne, err := lr.toLigne()
		if err != nil {
			return nil, err
		}
		ligne.FactureID = f.ID
		f.Lignes = append(f.Lignes, ligne)
	}
	return f, nil
}

// UpdateFactureRequest is the request body for updating an invoice.
// Lines are full-replace: the submitted set becomes the invoice's lines.
type UpdateFactureRequest struct {
	Date         time.Time             `json:"date"`
	PatientCIN   string                `json:"patientCin" binding:"required"`
	Status       facture.Status        `json:"status" binding:"required"`
	ModePaiement *facture.ModePaiement `json:"modePaiement"`
	NumeroCheque *string               `json:"numeroCheque"`
	Banque       *string               `json:"banque"`
	Comment      string                `json:"comment"`
	Lignes       []FactureLigneRequest `json:"lignes"`
	Attributes   entity.Attributes     `json:"attributes"`
	Version      int                   `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateFactureRequest) ApplyTo(f *facture.Facture) error {
	if !r.Date.IsZero() {
		f.Date = r.Date
	}
	f.PatientCIN = r.PatientCIN
	f.Status = r.Status
	f.ModePaiement = r.ModePaiement
	f.NumeroCheque = r.NumeroCheque
	f.Banque = r.Banque
	f.Comment = r.Comment
	f.Attributes = r.Attributes
	f.Version = r.Version

	f.Lignes = f.Lignes[:0]
	for _, lr := range r.Lignes {
		ligne, err := lr.toLigne()
		if err != nil {
			return err
		}
		ligne.FactureID = f.ID
		f.Lignes = append(f.Lignes, ligne)
	}
	return nil
}

// SetFactureStatusRequest is the request body for a status change.
type SetFactureStatusRequest struct {
	Status       facture.Status        `json:"status" binding:"required"`
	ModePaiement *facture.ModePaiement `json:"modePaiement"`
	DatePaiement *time.Time            `json:"datePaiement"`
	NumeroCheque *string               `json:"numeroCheque"`
	Banque       *string               `json:"banque"`
}

// --- Response DTOs ---

// FactureLigneResponse is one invoice line.
type FactureLigneResponse struct {
	LineID       string           `json:"lineId"`
	BienType     facture.BienType `json:"bienType"`
	BienID       string           `json:"bienId"`
	Designation  string           `json:"designation"`
	Quantite     types.Quantity   `json:"quantite"`
	PrixUnitaire types.Money      `json:"prixUnitaire"`
	Montant      types.Money      `json:"montant"`
}

// StockWarningResponse reports a clamped stock deduction.
type StockWarningResponse struct {
	ProductID string         `json:"productId"`
	Requested types.Quantity `json:"requested"`
	Applied   types.Quantity `json:"applied"`
	Deficit   types.Quantity `json:"deficit"`
}

// FactureResponse is the response body for an invoice.
type FactureResponse struct {
	ID           string                 `json:"id"`
	Number       string                 `json:"number"`
	Date         time.Time              `json:"date"`
	PatientCIN   string                 `json:"patientCin"`
	Status       facture.Status         `json:"status"`
	DatePaiement *time.Time             `json:"datePaiement,omitempty"`
	ModePaiement *facture.ModePaiement  `json:"modePaiement,omitempty"`
	NumeroCheque *string                `json:"numeroCheque,omitempty"`
	Banque       *string                `json:"banque,omitempty"`
	PrixHT       types.Money            `json:"prixHt"`
	TVA          types.Money            `json:"tva"`
	TotalTTC     types.Money            `json:"totalTtc"`
	Comment      string                 `json:"comment,omitempty"`
	Lignes       []FactureLigneResponse `json:"lignes"`
	Warnings     []StockWarningResponse `json:"warnings,omitempty"`
	DeletionMark bool                   `json:"deletionMark"`
	Version      int                    `json:"version"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
	CreatedBy    string                 `json:"createdBy,omitempty"`
}

// FromFacture creates response DTO from domain entity.
func FromFacture(f *facture.Facture) *FactureResponse {
	lignes := make([]FactureLigneResponse, len(f.Lignes))
	for i, l := range f.Lignes {
		lignes[i] = FactureLigneResponse{
			LineID:       l.LineID.String(),
			BienType:     l.BienType,
			BienID:       l.BienID.String(),
			Designation:  l.Designation,
			Quantite:     l.Quantite,
			PrixUnitaire: l.PrixUnitaire,
			Montant:      l.Montant,
		}
	}
	return &FactureResponse{
		ID:           f.ID.String(),
		Number:       f.Number,
		Date:         f.Date,
		PatientCIN:   f.PatientCIN,
		Status:       f.Status,
		DatePaiement: f.DatePaiement,
		ModePaiement: f.ModePaiement,
		NumeroCheque: f.NumeroCheque,
		Banque:       f.Banque,
		PrixHT:       f.PrixHT,
		TVA:          f.TVA,
		TotalTTC:     f.TotalTTC,
		Comment:      f.Comment,
		Lignes:       lignes,
		DeletionMark: f.DeletionMark,
		Version:      f.Version,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
		CreatedBy:    f.CreatedBy,
	}
}

// FromFactureResult creates response DTO including stock warnings.
func FromFactureResult(res *facture.Result) *FactureResponse {
	resp := FromFacture(res.Facture)
	resp.Warnings = FromStockWarnings(res.Warnings)
	return resp
}

// FromStockWarnings maps stock warnings to DTOs.
func FromStockWarnings(warnings []stock.Warning) []StockWarningResponse {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]StockWarningResponse, len(warnings))
	for i, w := range warnings {
		out[i] = StockWarningResponse{
			ProductID: w.ProductID.String(),
			Requested: w.Requested,
			Applied:   w.Applied,
			Deficit:   w.Deficit,
		}
	}
	return out
}
