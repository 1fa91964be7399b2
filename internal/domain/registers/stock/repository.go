// Package stock provides the stock movement register.
package stock

import (
	"context"
	"time"

	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
)

// Repository defines operations for the stock register.
type Repository interface {
	// CreateMovements batch inserts movements (called within the invoice transaction)
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// GetMovementsByRecorder retrieves all movements written by a document
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// GetBalance returns the current balance for a product
	GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error)

	// GetBalanceForUpdate returns the balance with a row lock
	GetBalanceForUpdate(ctx context.Context, productID id.ID) (entity.StockBalance, error)

	// UpsertBalance writes the balance row for a product
	UpsertBalance(ctx context.Context, balance entity.StockBalance) error

	// GetBalances returns balances for the given filter
	GetBalances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error)

	// GetMovementHistory returns movement history for a product
	GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// GetTurnover calculates receipt and expense totals for a period
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)

	// RecalculateBalances rebuilds the balance table from movements
	RecalculateBalances(ctx context.Context, productID *id.ID) error
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ProductIDs  []id.ID
	ExcludeZero bool
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	RecordType *entity.RecordType
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	ProductID *id.ID
	FromDate  time.Time
	ToDate    time.Time
}

// Turnover represents receipt/expense totals.
type Turnover struct {
	ProductID      id.ID          `json:"productId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}
