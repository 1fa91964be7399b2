package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
)

type memRepo struct {
	balances  map[id.ID]entity.StockBalance
	movements []entity.StockMovement
}

func newMemRepo() *memRepo {
	return &memRepo{balances: make(map[id.ID]entity.StockBalance)}
}

func (m *memRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	m.movements = append(m.movements, movements...)
	return nil
}

func (m *memRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, mv := range m.movements {
		if mv.RecorderID == recorderID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memRepo) GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	return m.balances[productID], nil
}

func (m *memRepo) GetBalanceForUpdate(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	return m.balances[productID], nil
}

func (m *memRepo) UpsertBalance(ctx context.Context, balance entity.StockBalance) error {
	m.balances[balance.ProductID] = balance
	return nil
}

func (m *memRepo) GetBalances(ctx context.Context, filter BalanceFilter) ([]entity.StockBalance, error) {
	var out []entity.StockBalance
	for _, b := range m.balances {
		out = append(out, b)
	}
	return out, nil
}

func (m *memRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return nil, nil
}

func (m *memRepo) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return Turnover{}, nil
}

func (m *memRepo) RecalculateBalances(ctx context.Context, productID *id.ID) error {
	return nil
}

type memProducts struct {
	stock map[id.ID]types.Quantity
}

func (m *memProducts) SetStock(ctx context.Context, productID id.ID, quantity types.Quantity) error {
	if m.stock == nil {
		m.stock = make(map[id.ID]types.Quantity)
	}
	m.stock[productID] = quantity
	return nil
}

func TestApplyDeltas_SaleAndRestock(t *testing.T) {
	repo := newMemRepo()
	products := &memProducts{}
	svc := NewService(repo, products)
	ctx := context.Background()

	productID := id.New()
	repo.balances[productID] = entity.StockBalance{ProductID: productID, Quantity: 10}

	recorderID := id.New()
	warnings, err := svc.ApplyDeltas(ctx, recorderID, "facture", time.Now(), []Delta{
		{ProductID: productID, Quantity: -3},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, types.Quantity(7), repo.balances[productID].Quantity)
	assert.Equal(t, types.Quantity(7), products.stock[productID])

	require.Len(t, repo.movements, 1)
	assert.Equal(t, entity.RecordTypeExpense, repo.movements[0].RecordType)
	assert.Equal(t, types.Quantity(3), repo.movements[0].Quantity)

	// Restock brings the quantity back.
	warnings, err = svc.ApplyDeltas(ctx, id.New(), "facture", time.Now(), []Delta{
		{ProductID: productID, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, types.Quantity(10), repo.balances[productID].Quantity)

	require.Len(t, repo.movements, 2)
	assert.Equal(t, entity.RecordTypeReceipt, repo.movements[1].RecordType)
}

func TestApplyDeltas_ClampAtZero(t *testing.T) {
	repo := newMemRepo()
	products := &memProducts{}
	svc := NewService(repo, products)
	ctx := context.Background()

	productID := id.New()
	repo.balances[productID] = entity.StockBalance{ProductID: productID, Quantity: 2}

	warnings, err := svc.ApplyDeltas(ctx, id.New(), "facture", time.Now(), []Delta{
		{ProductID: productID, Quantity: -5},
	})
	require.NoError(t, err)

	// Balance is clamped, shortfall is reported, invoice is not failed.
	require.Len(t, warnings, 1)
	assert.Equal(t, types.Quantity(-5), warnings[0].Requested)
	assert.Equal(t, types.Quantity(-2), warnings[0].Applied)
	assert.Equal(t, types.Quantity(3), warnings[0].Deficit)
	assert.Equal(t, types.Quantity(0), repo.balances[productID].Quantity)
	assert.Equal(t, types.Quantity(0), products.stock[productID])

	// Only the applied amount hits the ledger.
	require.Len(t, repo.movements, 1)
	assert.Equal(t, types.Quantity(2), repo.movements[0].Quantity)
}

func TestApplyDeltas_EmptyBalanceExpense(t *testing.T) {
	repo := newMemRepo()
	products := &memProducts{}
	svc := NewService(repo, products)
	ctx := context.Background()

	productID := id.New()

	warnings, err := svc.ApplyDeltas(ctx, id.New(), "facture", time.Now(), []Delta{
		{ProductID: productID, Quantity: -4},
	})
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, types.Quantity(4), warnings[0].Deficit)
	// Nothing on hand, nothing applied: no movement at all.
	assert.Empty(t, repo.movements)
	assert.Equal(t, types.Quantity(0), repo.balances[productID].Quantity)
}

func TestApplyDeltas_ZeroDeltaSkipped(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, &memProducts{})

	warnings, err := svc.ApplyDeltas(context.Background(), id.New(), "facture", time.Now(), []Delta{
		{ProductID: id.New(), Quantity: 0},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, repo.movements)
}
