// Package facture provides the invoice document and its stock reconciliation.
package facture

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
)

// Status is the invoice lifecycle status. Transitions are unrestricted;
// stock effects happen only on edges into and out of StatusPayee.
type Status string

const (
	StatusBrouillon Status = "brouillon"
	StatusEnvoyee   Status = "envoyee"
	StatusPayee     Status = "payee"
	StatusAnnulee   Status = "annulee"
	StatusEnRetard  Status = "en_retard"
)

// ModePaiement is the payment method.
type ModePaiement string

const (
	PaiementEspeces  ModePaiement = "especes"
	PaiementCheque   ModePaiement = "cheque"
	PaiementVirement ModePaiement = "virement"
	PaiementCarte    ModePaiement = "carte"
)

// BienType tags an invoice line as product or soin.
// Only product lines participate in stock reconciliation.
type BienType string

const (
	BienProduct BienType = "product"
	BienSoin    BienType = "soin"
)

// TVA rate applied to all invoices (20%).
var TauxTVA = decimal.NewFromFloat(0.20)

// Ligne is one invoice line.
type Ligne struct {
	LineID    id.ID `db:"line_id" json:"lineId"`
	FactureID id.ID `db:"facture_id" json:"factureId"`

	// BienType: product or soin
	BienType BienType `db:"bien_type" json:"bienType"`

	// BienID references the product or soin catalog entry
	BienID id.ID `db:"bien_id" json:"bienId"`

	// Designation is the display name captured at invoicing time
	Designation string `db:"designation" json:"designation"`

	Quantite     types.Quantity `db:"quantite" json:"quantite"`
	PrixUnitaire types.Money    `db:"prix_unitaire" json:"prixUnitaire"`

	// Montant is quantite * prix_unitaire, recomputed server-side
	Montant types.Money `db:"montant" json:"montant"`
}

// Facture is an invoice for a patient.
type Facture struct {
	entity.Document

	// PatientCIN references the billed patient by identity card number
	PatientCIN string `db:"patient_cin" json:"patientCin"`

	Status Status `db:"status" json:"status"`

	// Payment details, set when the invoice is paid
	DatePaiement *time.Time    `db:"date_paiement" json:"datePaiement,omitempty"`
	ModePaiement *ModePaiement `db:"mode_paiement" json:"modePaiement,omitempty"`
	NumeroCheque *string       `db:"numero_cheque" json:"numeroCheque,omitempty"`
	Banque       *string       `db:"banque" json:"banque,omitempty"`

	// Totals, always recomputed server-side from lines
	PrixHT   types.Money `db:"prix_ht" json:"prixHt"`
	TVA      types.Money `db:"tva" json:"tva"`
	TotalTTC types.Money `db:"total_ttc" json:"totalTtc"`

	// Lignes are loaded separately from the lines table
	Lignes []Ligne `db:"-" json:"lignes"`
}

// NewFacture creates a draft invoice for a patient.
func NewFacture(patientCIN string, date time.Time) *Facture {
	doc := entity.NewDocument()
	if !date.IsZero() {
		doc.Date = date
	}
	return &Facture{
		Document:   doc,
		PatientCIN: patientCIN,
		Status:     StatusBrouillon,
		PrixHT:     decimal.Zero,
		TVA:        decimal.Zero,
		TotalTTC:   decimal.Zero,
	}
}

// NewLigne creates an invoice line.
func NewLigne(bienType BienType, bienID id.ID, designation string, qty types.Quantity, prix types.Money) Ligne {
	return Ligne{
		LineID:       id.New(),
		BienType:     bienType,
		BienID:       bienID,
		Designation:  designation,
		Quantite:     qty,
		PrixUnitaire: prix,
		Montant:      prix.Mul(decimal.NewFromInt(qty.Int64())),
	}
}

// IsPaid reports whether the invoice is in the paid status.
func (f *Facture) IsPaid() bool {
	return f.Status == StatusPayee
}

// ComputeTotals recomputes line amounts and invoice totals from lines.
// prix_ht = sum(quantite * prix_unitaire); tva = round(ht * 0.20, 2);
// total_ttc = round(ht + tva, 2).
func (f *Facture) ComputeTotals() {
	ht := decimal.Zero
	for i := range f.Lignes {
		l := &f.Lignes[i]
		l.Montant = l.PrixUnitaire.Mul(decimal.NewFromInt(l.Quantite.Int64()))
		ht = ht.Add(l.Montant)
	}
	f.PrixHT = ht
	f.TVA = types.Round2(ht.Mul(TauxTVA))
	f.TotalTTC = types.Round2(ht.Add(f.TVA))
}

// Validate implements entity.Validatable interface.
func (f *Facture) Validate(ctx context.Context) error {
	if err := f.Document.Validate(ctx); err != nil {
		return err
	}

	if f.PatientCIN == "" {
		return apperror.NewValidation("patient CIN is required").
			WithDetail("field", "patientCin")
	}

	if !IsValidStatus(f.Status) {
		return apperror.NewInvalidStatus("facture", string(f.Status))
	}

	if f.ModePaiement != nil {
		if !isValidModePaiement(*f.ModePaiement) {
			return apperror.NewValidation("invalid payment method").
				WithDetail("field", "modePaiement").
				WithDetail("value", string(*f.ModePaiement))
		}
		// Cheque payments need the cheque number and bank
		if *f.ModePaiement == PaiementCheque {
			if f.NumeroCheque == nil || *f.NumeroCheque == "" {
				return apperror.NewValidation("cheque number is required for cheque payments").
					WithDetail("field", "numeroCheque")
			}
			if f.Banque == nil || *f.Banque == "" {
				return apperror.NewValidation("bank is required for cheque payments").
					WithDetail("field", "banque")
			}
		}
	}

	for i, l := range f.Lignes {
		if err := l.validate(); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return appErr.WithDetail("ligne", i)
			}
			return err
		}
	}

	return nil
}

func (l Ligne) validate() error {
	if l.BienType != BienProduct && l.BienType != BienSoin {
		return apperror.NewValidation("invalid line type").
			WithDetail("field", "bienType").
			WithDetail("value", string(l.BienType))
	}
	if id.IsNil(l.BienID) {
		return apperror.NewValidation("line item reference is required").
			WithDetail("field", "bienId")
	}
	if !l.Quantite.IsPositive() {
		return apperror.NewValidation("line quantity must be positive").
			WithDetail("field", "quantite")
	}
	if l.PrixUnitaire.LessThan(decimal.Zero) {
		return apperror.NewValidation("line price cannot be negative").
			WithDetail("field", "prixUnitaire")
	}
	return nil
}

// IsValidStatus reports whether s is a known invoice status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusBrouillon, StatusEnvoyee, StatusPayee, StatusAnnulee, StatusEnRetard:
		return true
	}
	return false
}

func isValidModePaiement(m ModePaiement) bool {
	switch m {
	case PaiementEspeces, PaiementCheque, PaiementVirement, PaiementCarte:
		return true
	}
	return false
}
