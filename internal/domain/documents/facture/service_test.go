package facture

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinova/internal/core/apperror"
	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain/registers/stock"
	"clinova/pkg/numerator"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memStockRepo struct {
	balances  map[id.ID]entity.StockBalance
	movements []entity.StockMovement
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{balances: make(map[id.ID]entity.StockBalance)}
}

func (m *memStockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	m.movements = append(m.movements, movements...)
	return nil
}

func (m *memStockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, mv := range m.movements {
		if mv.RecorderID == recorderID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memStockRepo) GetBalance(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	b, ok := m.balances[productID]
	if !ok {
		return entity.StockBalance{ProductID: productID}, nil
	}
	return b, nil
}

func (m *memStockRepo) GetBalanceForUpdate(ctx context.Context, productID id.ID) (entity.StockBalance, error) {
	return m.GetBalance(ctx, productID)
}

func (m *memStockRepo) UpsertBalance(ctx context.Context, balance entity.StockBalance) error {
	m.balances[balance.ProductID] = balance
	return nil
}

func (m *memStockRepo) GetBalances(ctx context.Context, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	var out []entity.StockBalance
	for _, b := range m.balances {
		out = append(out, b)
	}
	return out, nil
}

func (m *memStockRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	return nil, nil
}

func (m *memStockRepo) GetTurnover(ctx context.Context, filter stock.TurnoverFilter) (stock.Turnover, error) {
	return stock.Turnover{}, nil
}

func (m *memStockRepo) RecalculateBalances(ctx context.Context, productID *id.ID) error {
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

type memFactureRepo struct {
	byID map[id.ID]*Facture
}

func newMemFactureRepo() *memFactureRepo {
	return &memFactureRepo{byID: make(map[id.ID]*Facture)}
}

func cloneFacture(f *Facture) *Facture {
	cp := *f
	cp.Lignes = append([]Ligne(nil), f.Lignes...)
	return &cp
}

func (m *memFactureRepo) Create(ctx context.Context, f *Facture) error {
	m.byID[f.ID] = cloneFacture(f)
	return nil
}

func (m *memFactureRepo) GetByID(ctx context.Context, factureID id.ID) (*Facture, error) {
	f, ok := m.byID[factureID]
	if !ok {
		return nil, apperror.NewNotFound("facture", factureID.String())
	}
	return cloneFacture(f), nil
}

func (m *memFactureRepo) GetForUpdate(ctx context.Context, factureID id.ID) (*Facture, error) {
	return m.GetByID(ctx, factureID)
}

func (m *memFactureRepo) Update(ctx context.Context, f *Facture) error {
	if _, ok := m.byID[f.ID]; !ok {
		return apperror.NewNotFound("facture", f.ID.String())
	}
	m.byID[f.ID] = cloneFacture(f)
	return nil
}

func (m *memFactureRepo) Delete(ctx context.Context, factureID id.ID) error {
	delete(m.byID, factureID)
	return nil
}

func (m *memFactureRepo) List(ctx context.Context, filter ListFilter) ([]Facture, int, error) {
	var out []Facture
	for _, f := range m.byID {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if filter.PatientCIN != "" && f.PatientCIN != filter.PatientCIN {
			continue
		}
		out = append(out, *cloneFacture(f))
	}
	return out, len(out), nil
}

func (m *memFactureRepo) ListOverdueCandidates(ctx context.Context, before time.Time) ([]Facture, error) {
	var out []Facture
	for _, f := range m.byID {
		if f.Status == StatusEnvoyee && f.Date.Before(before) {
			out = append(out, *cloneFacture(f))
		}
	}
	return out, nil
}

func (m *memFactureRepo) LatestByPatient(ctx context.Context, patientCIN string) (*Facture, error) {
	var latest *Facture
	for _, f := range m.byID {
		if f.PatientCIN != patientCIN {
			continue
		}
		if latest == nil || f.Date.After(latest.Date) {
			latest = f
		}
	}
	if latest == nil {
		return nil, apperror.NewNotFound("facture", patientCIN)
	}
	return cloneFacture(latest), nil
}

type fixture struct {
	svc       *Service
	factures  *memFactureRepo
	stockRepo *memStockRepo
	products  *memProducts
}

func newFixture() *fixture {
	factures := newMemFactureRepo()
	stockRepo := newMemStockRepo()
	products := &memProducts{}
	stockSvc := stock.NewService(stockRepo, products)
	svc := NewService(factures, stockSvc, nil, fakeTxManager{}, nil)
	return &fixture{svc: svc, factures: factures, stockRepo: stockRepo, products: products}
}

func (fx *fixture) setBalance(productID id.ID, qty types.Quantity) {
	fx.stockRepo.balances[productID] = entity.StockBalance{ProductID: productID, Quantity: qty}
}

func (fx *fixture) balance(productID id.ID) types.Quantity {
	return fx.stockRepo.balances[productID].Quantity
}

func paidFacture(productID id.ID, qty types.Quantity) *Facture {
	f := NewFacture("AB123456", time.Now())
	f.Number = "FAC-2026-00001"
	f.Status = StatusPayee
	f.Lignes = []Ligne{NewLigne(BienProduct, productID, "Attelle", qty, money("89.90"))}
	return f
}

func TestCreate_PaidConsumesStock(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	fx.setBalance(productA, 10)

	res, err := fx.svc.Create(ctx, paidFacture(productA, 3))
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Equal(t, types.Quantity(7), fx.balance(productA))
	assert.Equal(t, types.Quantity(7), fx.products.stock[productA])
	require.Len(t, fx.stockRepo.movements, 1)
	assert.Equal(t, entity.RecordTypeExpense, fx.stockRepo.movements[0].RecordType)
	assert.Equal(t, types.Quantity(3), fx.stockRepo.movements[0].Quantity)
	assert.NotNil(t, res.Facture.DatePaiement)
}

func TestCreate_DraftLeavesStockAlone(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	fx.setBalance(productA, 10)

	f := paidFacture(productA, 3)
	f.Status = StatusBrouillon

	res, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Equal(t, types.Quantity(10), fx.balance(productA))
	assert.Empty(t, fx.stockRepo.movements)
}

func TestUpdate_UnpayRestoresStock(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	fx.setBalance(productA, 10)

	f := paidFacture(productA, 3)
	_, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)
	require.Equal(t, types.Quantity(7), fx.balance(productA))

	f.Status = StatusBrouillon
	_, err = fx.svc.Update(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(10), fx.balance(productA))
}

func TestUpdate_PaidQuantityChangeAdjustsByDifference(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	fx.setBalance(productA, 10)

	f := paidFacture(productA, 3)
	_, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)

	f.Lignes[0].Quantite = 5
	_, err = fx.svc.Update(ctx, f)
	require.NoError(t, err)

	// 10 - 3 - 2 = 5
	assert.Equal(t, types.Quantity(5), fx.balance(productA))
}

func TestUpdate_PaidProductSwitch(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	productB := id.New()
	fx.setBalance(productA, 10)
	fx.setBalance(productB, 10)

	f := paidFacture(productA, 2)
	_, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)
	require.Equal(t, types.Quantity(8), fx.balance(productA))

	f.Lignes = []Ligne{NewLigne(BienProduct, productB, "Genouillère", 2, money("120"))}
	_, err = fx.svc.Update(ctx, f)
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(10), fx.balance(productA))
	assert.Equal(t, types.Quantity(8), fx.balance(productB))
}

func TestDelete_PaidRestoresStock(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productB := id.New()
	fx.setBalance(productB, 10)

	f := paidFacture(productB, 2)
	_, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)
	require.Equal(t, types.Quantity(8), fx.balance(productB))

	warnings, err := fx.svc.Delete(ctx, f.ID)
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Equal(t, types.Quantity(10), fx.balance(productB))

	_, err = fx.svc.GetByID(ctx, f.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_InsufficientStockClampsAndWarns(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	fx.setBalance(productA, 2)

	res, err := fx.svc.Create(ctx, paidFacture(productA, 5))
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, productA, w.ProductID)
	assert.Equal(t, types.Quantity(-5), w.Requested)
	assert.Equal(t, types.Quantity(-2), w.Applied)
	assert.Equal(t, types.Quantity(3), w.Deficit)
	assert.Equal(t, types.Quantity(0), fx.balance(productA))
}

func TestSoinLinesNeverTouchStock(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	soinID := id.New()

	f := NewFacture("AB123456", time.Now())
	f.Number = "FAC-2026-00002"
	f.Status = StatusPayee
	f.Lignes = []Ligne{NewLigne(BienSoin, soinID, "Consultation", 1, money("250"))}

	res, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Empty(t, fx.stockRepo.movements)
	assert.Empty(t, fx.stockRepo.balances)
}

func TestSetStatus_PayThenCancel(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	fx.setBalance(productA, 10)

	f := paidFacture(productA, 4)
	f.Status = StatusEnvoyee
	_, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)
	require.Equal(t, types.Quantity(10), fx.balance(productA))

	res, err := fx.svc.SetStatus(ctx, f.ID, StatusPayee, &PaymentInfo{Mode: PaiementEspeces})
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(6), fx.balance(productA))
	assert.NotNil(t, res.Facture.DatePaiement)

	_, err = fx.svc.SetStatus(ctx, f.ID, StatusAnnulee, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(10), fx.balance(productA))
}

func TestMarkOverdue(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	productA := id.New()
	fx.setBalance(productA, 10)

	old := paidFacture(productA, 1)
	old.Status = StatusEnvoyee
	old.Date = time.Now().AddDate(0, -2, 0)
	old.Number = "FAC-2026-00003"
	_, err := fx.svc.Create(ctx, old)
	require.NoError(t, err)

	recent := NewFacture("CD654321", time.Now())
	recent.Status = StatusEnvoyee
	recent.Number = "FAC-2026-00004"
	_, err = fx.svc.Create(ctx, recent)
	require.NoError(t, err)

	marked, err := fx.svc.MarkOverdue(ctx, time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := fx.svc.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusEnRetard, got.Status)
	// overdue is not paid: stock untouched
	assert.Equal(t, types.Quantity(10), fx.balance(productA))
}

type seqRow struct {
	val int64
}

func (r *seqRow) Scan(dest ...any) error {
	*dest[0].(*int64) = r.val
	return nil
}

type seqQuerier struct {
	current int64
}

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.current++
	return &seqRow{val: q.current}
}

func TestCreate_GeneratesStrictNumber(t *testing.T) {
	ctx := context.Background()
	fx := newFixture()
	fx.svc.numerator = numerator.New(&seqQuerier{})

	f := NewFacture("AB123456", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	f.Lignes = []Ligne{NewLigne(BienSoin, id.New(), "Consultation", 1, money("250"))}

	res, err := fx.svc.Create(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "FAC-2026-00001", res.Facture.Number)
}
