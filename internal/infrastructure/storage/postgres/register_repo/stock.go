// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain/registers/stock"
	"clinova/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movements"
	stockBalancesTable  = "reg_stock_balances"
)

var movementCols = []string{
	"line_id", "recorder_id", "recorder_type",
	"period", "record_type",
	"product_id", "quantity", "created_at",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMovements batch inserts movements.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.RecorderID, m.RecorderType,
				m.Period, m.RecordType,
				m.ProductID, m.Quantity, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementCols, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert. Prefer calling within tx.
	q := r.builder.Insert(stockMovementsTable).Columns(movementCols...)
	for _, m := range movements {
		q = q.Values(
			m.LineID, m.RecorderID, m.RecorderType,
			m.Period, m.RecordType,
			m.ProductID, m.Quantity, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// GetMovementsByRecorder retrieves movements written by a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetBalance returns the current balance for a product.
// A missing row reads as a zero balance.
func (r *StockRepo) GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	q := r.builder.Select(
		"product_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable).
		Where(squirrel.Eq{"product_id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return balance, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{ProductID: productID}, nil
		}
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetBalanceForUpdate returns the balance with a pessimistic lock.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	var balance entity.StockBalance

	sql := `
		SELECT product_id, quantity, last_movement_at, updated_at
		FROM reg_stock_balances
		WHERE product_id = $1
		FOR UPDATE
	`

	err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &balance, sql, productID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{ProductID: productID}, nil
		}
		return balance, fmt.Errorf("get balance for update: %w", err)
	}

	return balance, nil
}

// UpsertBalance writes the balance row for a product.
func (r *StockRepo) UpsertBalance(ctx context.Context, balance entity.StockBalance) error {
	sql := `
		INSERT INTO reg_stock_balances (product_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		balance.ProductID, balance.Quantity, balance.LastMovementAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}

	return nil
}

// GetBalances returns balances for the given filter.
func (r *StockRepo) GetBalances(ctx context.Context, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := r.builder.Select(
		"product_id", "quantity", "last_movement_at", "updated_at",
	).From(stockBalancesTable)

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"product_id": filter.ProductIDs})
	}

	q = q.OrderBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// GetMovementHistory returns movement history for a product.
func (r *StockRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementCols...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": productID})

	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// GetTurnover calculates turnover for a period.
func (r *StockRepo) GetTurnover(ctx context.Context, filter stock.TurnoverFilter) (stock.Turnover, error) {
	var result stock.Turnover

	args := []any{filter.FromDate, filter.ToDate}
	baseConditions := "period >= $1 AND period < $2"

	if filter.ProductID != nil {
		baseConditions += " AND product_id = $3"
		args = append(args, *filter.ProductID)
		result.ProductID = *filter.ProductID
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE 0 END), 0) as receipt,
			COALESCE(SUM(CASE WHEN record_type = 'expense' THEN quantity ELSE 0 END), 0) as expense
		FROM reg_stock_movements
		WHERE %s
	`, baseConditions)

	querier := r.txManager.GetQuerier(ctx)
	var receipt, expense int64
	err := querier.QueryRow(ctx, sql, args...).Scan(&receipt, &expense)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}
	result.Receipt = types.Quantity(receipt)
	result.Expense = types.Quantity(expense)

	// Opening balance: everything before the period start
	openingArgs := []any{filter.FromDate}
	openingConditions := "period < $1"
	if filter.ProductID != nil {
		openingConditions += " AND product_id = $2"
		openingArgs = append(openingArgs, *filter.ProductID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_movements
		WHERE %s
	`, openingConditions)

	var opening int64
	err = querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&opening)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}
	result.OpeningBalance = types.Quantity(opening)

	result.ClosingBalance = result.OpeningBalance + result.Receipt - result.Expense

	return result, nil
}

// RecalculateBalances rebuilds the balance table from movements.
func (r *StockRepo) RecalculateBalances(ctx context.Context, productID *id.ID) error {
	sql := `
		INSERT INTO reg_stock_balances (product_id, quantity, last_movement_at, updated_at)
		SELECT product_id,
		       GREATEST(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END), 0),
		       MAX(period),
		       NOW()
		FROM reg_stock_movements
	`
	args := []any{}
	if productID != nil {
		sql += " WHERE product_id = $1"
		args = append(args, *productID)
	}
	sql += `
		GROUP BY product_id
		ON CONFLICT (product_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("recalculate balances: %w", err)
	}

	return nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)
