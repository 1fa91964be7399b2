package facture

import (
	"context"
	"fmt"
	"time"

	"clinova/internal/core/id"
	"clinova/internal/core/tx"
	"clinova/internal/domain/registers/stock"
	"clinova/pkg/logger"
	"clinova/pkg/numerator"
)

// RecorderType identifies invoice-originated stock movements.
const RecorderType = "Facture"

// Invoice numbers must be gap-aware, so the numerator runs strict.
const NumeratorStrategy = numerator.StrategyStrict

// ChangeLogger records entity change events to the audit trail.
type ChangeLogger interface {
	LogEntityChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// Service provides business operations for invoices. Every operation that
// touches a paid invoice reconciles product stock inside the same
// transaction as the invoice write.
type Service struct {
	repo      Repository
	stock     *stock.Service
	numerator *numerator.Service
	txManager tx.Manager
	audit     ChangeLogger // optional
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	stockSvc *stock.Service,
	num *numerator.Service,
	txManager tx.Manager,
	audit ChangeLogger,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stockSvc,
		numerator: num,
		txManager: txManager,
		audit:     audit,
	}
}

// Result reports the outcome of a write operation. Warnings carry stock
// shortfalls that were clamped at zero; they never fail the operation.
type Result struct {
	Facture  *Facture        `json:"facture"`
	Warnings []stock.Warning `json:"warnings,omitempty"`
}

// Create creates an invoice. The invoice may be created directly in any
// status; creating it paid consumes stock for its product lines.
func (s *Service) Create(ctx context.Context, f *Facture) (*Result, error) {
	if f.Status == "" {
		f.Status = StatusBrouillon
	}
	f.ComputeTotals()

	if err := f.Validate(ctx); err != nil {
		return nil, err
	}

	if f.Number == "" {
		cfg := numerator.DefaultConfig("FAC")
		number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, f.Date)
		if err != nil {
			return nil, fmt.Errorf("generate number: %w", err)
		}
		f.Number = number
	}

	if f.IsPaid() && f.DatePaiement == nil {
		now := time.Now().UTC()
		f.DatePaiement = &now
	}

	var warnings []stock.Warning
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, f); err != nil {
			return fmt.Errorf("create facture: %w", err)
		}

		deltas := StockDeltas(nil, effectiveConsumption(f.Status, f.Lignes))
		w, err := s.applyStock(ctx, f, deltas)
		if err != nil {
			return err
		}
		warnings = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logChange(ctx, f.ID, "create", map[string]any{"number": f.Number, "status": f.Status})
	logger.Info(ctx, "facture created",
		"id", f.ID, "number", f.Number, "status", f.Status, "totalTtc", f.TotalTTC)
	return &Result{Facture: f, Warnings: warnings}, nil
}

// Update replaces the invoice and its full line set, reconciling stock
// against what the stored version currently consumes. Status changes go
// through here too: any edge into payee consumes stock, any edge out of
// payee restores it, and line edits while paid adjust by the difference.
func (s *Service) Update(ctx context.Context, f *Facture) (*Result, error) {
	f.ComputeTotals()

	if err := f.Validate(ctx); err != nil {
		return nil, err
	}

	if f.Status == StatusPayee && f.DatePaiement == nil {
		now := time.Now().UTC()
		f.DatePaiement = &now
	}

	var warnings []stock.Warning
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetForUpdate(ctx, f.ID)
		if err != nil {
			return err
		}

		oldEff := effectiveConsumption(stored.Status, stored.Lignes)
		newEff := effectiveConsumption(f.Status, f.Lignes)

		if err := s.repo.Update(ctx, f); err != nil {
			return fmt.Errorf("update facture: %w", err)
		}

		w, err := s.applyStock(ctx, f, StockDeltas(oldEff, newEff))
		if err != nil {
			return err
		}
		warnings = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logChange(ctx, f.ID, "update", map[string]any{"number": f.Number, "status": f.Status})
	logger.Info(ctx, "facture updated", "id", f.ID, "number", f.Number, "status", f.Status)
	return &Result{Facture: f, Warnings: warnings}, nil
}

// PaymentInfo carries payment details supplied on a status change to paid.
type PaymentInfo struct {
	Mode         ModePaiement `json:"mode"`
	Date         *time.Time   `json:"date,omitempty"`
	NumeroCheque string       `json:"numeroCheque,omitempty"`
	Banque       string       `json:"banque,omitempty"`
}

// SetStatus changes the invoice status without touching lines. Payment
// details are applied when the target status is paid.
func (s *Service) SetStatus(ctx context.Context, factureID id.ID, status Status, payment *PaymentInfo) (*Result, error) {
	var result *Result
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetForUpdate(ctx, factureID)
		if err != nil {
			return err
		}

		stored.Status = status
		if status == StatusPayee {
			if payment != nil {
				stored.ModePaiement = &payment.Mode
				if payment.NumeroCheque != "" {
					stored.NumeroCheque = &payment.NumeroCheque
				}
				if payment.Banque != "" {
					stored.Banque = &payment.Banque
				}
				stored.DatePaiement = payment.Date
			}
			if stored.DatePaiement == nil {
				now := time.Now().UTC()
				stored.DatePaiement = &now
			}
		}

		result, err = s.Update(ctx, stored)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the invoice and its lines. Deleting a paid invoice
// restores the stock its product lines consumed.
func (s *Service) Delete(ctx context.Context, factureID id.ID) ([]stock.Warning, error) {
	var warnings []stock.Warning
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetForUpdate(ctx, factureID)
		if err != nil {
			return err
		}

		oldEff := effectiveConsumption(stored.Status, stored.Lignes)

		if err := s.repo.Delete(ctx, factureID); err != nil {
			return fmt.Errorf("delete facture: %w", err)
		}

		w, err := s.applyStock(ctx, stored, StockDeltas(oldEff, nil))
		if err != nil {
			return err
		}
		warnings = w

		s.logChange(ctx, factureID, "delete", map[string]any{"number": stored.Number})
		logger.Info(ctx, "facture deleted", "id", factureID, "number", stored.Number)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return warnings, nil
}

// GetByID retrieves an invoice with its lines.
func (s *Service) GetByID(ctx context.Context, factureID id.ID) (*Facture, error) {
	return s.repo.GetByID(ctx, factureID)
}

// List retrieves invoices matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Facture, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// LatestByPatient returns the most recent invoice for a patient.
func (s *Service) LatestByPatient(ctx context.Context, patientCIN string) (*Facture, error) {
	return s.repo.LatestByPatient(ctx, patientCIN)
}

// MarkOverdue flips sent invoices dated before the cutoff to en_retard.
// This is a pure status sweep: en_retard is not paid, so stock is untouched.
func (s *Service) MarkOverdue(ctx context.Context, before time.Time) (int, error) {
	var marked int
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		candidates, err := s.repo.ListOverdueCandidates(ctx, before)
		if err != nil {
			return err
		}
		for i := range candidates {
			f := &candidates[i]
			f.Status = StatusEnRetard
			if err := s.repo.Update(ctx, f); err != nil {
				return fmt.Errorf("mark overdue %s: %w", f.Number, err)
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if marked > 0 {
		logger.Info(ctx, "invoices marked overdue", "count", marked, "before", before)
	}
	return marked, nil
}

func (s *Service) applyStock(ctx context.Context, f *Facture, deltas []stock.Delta) ([]stock.Warning, error) {
	if len(deltas) == 0 {
		return nil, nil
	}
	warnings, err := s.stock.ApplyDeltas(ctx, f.ID, RecorderType, f.Date, deltas)
	if err != nil {
		return nil, fmt.Errorf("apply stock deltas: %w", err)
	}
	return warnings, nil
}

func (s *Service) logChange(ctx context.Context, factureID id.ID, action string, changes map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogEntityChange(ctx, RecorderType, factureID, action, changes); err != nil {
		logger.Warn(ctx, "audit log failed", "error", err, "factureId", factureID)
	}
}
