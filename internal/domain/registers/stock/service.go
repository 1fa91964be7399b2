package stock

import (
	"context"
	"fmt"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/pkg/logger"
)

// ProductStockWriter keeps the product catalog's stored quantity in sync
// with register balances. Implemented by the product repository.
type ProductStockWriter interface {
	SetStock(ctx context.Context, productID id.ID, quantity types.Quantity) error
}

// Service provides business operations for the stock register.
// Transactions are managed by the caller (the invoice service).
type Service struct {
	repo     Repository
	products ProductStockWriter
}

// NewService creates a new stock register service.
func NewService(repo Repository, products ProductStockWriter) *Service {
	return &Service{
		repo:     repo,
		products: products,
	}
}

// Delta is a signed per-product quantity change requested by reconciliation.
// Negative means consumption (sale), positive means restock.
type Delta struct {
	ProductID id.ID
	Quantity  types.Quantity
}

// Warning reports a delta that could not be applied in full because the
// balance would have gone negative. The balance is clamped at zero and the
// shortfall is surfaced to the caller instead of failing the invoice.
type Warning struct {
	ProductID id.ID          `json:"productId"`
	Requested types.Quantity `json:"requested"`
	Applied   types.Quantity `json:"applied"`
	Deficit   types.Quantity `json:"deficit"`
}

// ApplyDeltas applies signed quantity deltas for a recorder document.
// Must be called inside a transaction. For each product it locks the
// balance row, clamps the result at zero, records a movement for the
// applied amount and mirrors the new balance into the product catalog.
func (s *Service) ApplyDeltas(ctx context.Context, recorderID id.ID, recorderType string, period time.Time, deltas []Delta) ([]Warning, error) {
	if len(deltas) == 0 {
		return nil, nil
	}

	var warnings []Warning
	movements := make([]entity.StockMovement, 0, len(deltas))

	for _, d := range deltas {
		if d.Quantity.IsZero() {
			continue
		}
		if id.IsNil(d.ProductID) {
			return nil, apperror.NewValidation("delta product_id is required")
		}

		balance, err := s.repo.GetBalanceForUpdate(ctx, d.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get balance for %s: %w", d.ProductID, err)
		}

		applied := d.Quantity
		newQty := balance.Quantity + d.Quantity
		if newQty < 0 {
			// Clamp at zero: consume what is on hand, report the shortfall.
			applied = balance.Quantity.Neg()
			deficit := newQty.Neg()
			newQty = 0
			warnings = append(warnings, Warning{
				ProductID: d.ProductID,
				Requested: d.Quantity,
				Applied:   applied,
				Deficit:   deficit,
			})
			logger.Warn(ctx, "stock clamped at zero",
				"product_id", d.ProductID,
				"requested", d.Quantity.Int64(),
				"deficit", deficit.Int64(),
			)
		}

		if !applied.IsZero() {
			recordType := entity.RecordTypeReceipt
			if applied.IsNegative() {
				recordType = entity.RecordTypeExpense
			}
			movements = append(movements, entity.NewStockMovement(
				recorderID, recorderType, period, recordType,
				d.ProductID, applied.Abs(),
			))
		}

		balance.ProductID = d.ProductID
		balance.Quantity = newQty
		balance.LastMovementAt = period
		if err := s.repo.UpsertBalance(ctx, balance); err != nil {
			return nil, fmt.Errorf("upsert balance for %s: %w", d.ProductID, err)
		}

		if err := s.products.SetStock(ctx, d.ProductID, newQty); err != nil {
			return nil, fmt.Errorf("sync product stock for %s: %w", d.ProductID, err)
		}
	}

	if len(movements) > 0 {
		if err := s.repo.CreateMovements(ctx, movements); err != nil {
			return nil, fmt.Errorf("create movements: %w", err)
		}
	}

	logger.Info(ctx, "applied stock deltas",
		"recorder_id", recorderID,
		"movements", len(movements),
		"warnings", len(warnings),
	)

	return warnings, nil
}

// GetBalance returns the current balance for a product.
func (s *Service) GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	return s.repo.GetBalance(ctx, productID)
}

// GetBalances returns balances for the given filter.
func (s *Service) GetBalances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error) {
	return s.repo.GetBalances(ctx, filter)
}

// GetMovementHistory returns movement history for a product.
func (s *Service) GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, productID, filter)
}

// GetMovementsByRecorder returns movements written by a document.
func (s *Service) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}

// GetTurnover calculates receipt and expense totals for a period.
func (s *Service) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}

// RecalculateBalances rebuilds the balance table from movements.
func (s *Service) RecalculateBalances(ctx context.Context, productID *id.ID) error {
	return s.repo.RecalculateBalances(ctx, productID)
}
