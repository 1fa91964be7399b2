package facture

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinova/internal/core/id"
	"clinova/internal/core/types"
)

func money(s string) types.Money {
	return types.MustMoney(s)
}

func TestComputeTotals(t *testing.T) {
	f := NewFacture("AB123456", time.Now())
	f.Lignes = []Ligne{
		NewLigne(BienSoin, id.New(), "Consultation", 1, money("250.00")),
		NewLigne(BienProduct, id.New(), "Attelle poignet", 2, money("89.90")),
	}

	f.ComputeTotals()

	// ht = 250 + 2*89.90 = 429.80
	assert.True(t, f.PrixHT.Equal(money("429.80")), "got ht %s", f.PrixHT)
	// tva = round(429.80 * 0.20, 2) = 85.96
	assert.True(t, f.TVA.Equal(money("85.96")), "got tva %s", f.TVA)
	// ttc = 429.80 + 85.96 = 515.76
	assert.True(t, f.TotalTTC.Equal(money("515.76")), "got ttc %s", f.TotalTTC)

	// line amounts are recomputed too
	assert.True(t, f.Lignes[1].Montant.Equal(money("179.80")))
}

func TestComputeTotals_RoundsTVA(t *testing.T) {
	f := NewFacture("AB123456", time.Now())
	// 33.33 * 0.20 = 6.666 -> 6.67
	f.Lignes = []Ligne{
		NewLigne(BienSoin, id.New(), "Séance", 1, money("33.33")),
	}

	f.ComputeTotals()

	assert.True(t, f.TVA.Equal(money("6.67")), "got tva %s", f.TVA)
	assert.True(t, f.TotalTTC.Equal(money("40.00")), "got ttc %s", f.TotalTTC)
}

func TestComputeTotals_Empty(t *testing.T) {
	f := NewFacture("AB123456", time.Now())
	f.ComputeTotals()

	assert.True(t, f.PrixHT.Equal(decimal.Zero))
	assert.True(t, f.TVA.Equal(decimal.Zero))
	assert.True(t, f.TotalTTC.Equal(decimal.Zero))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid draft", func(t *testing.T) {
		f := NewFacture("AB123456", time.Now())
		f.Lignes = []Ligne{NewLigne(BienSoin, id.New(), "Consultation", 1, money("250"))}
		require.NoError(t, f.Validate(ctx))
	})

	t.Run("missing patient", func(t *testing.T) {
		f := NewFacture("", time.Now())
		assert.Error(t, f.Validate(ctx))
	})

	t.Run("unknown status", func(t *testing.T) {
		f := NewFacture("AB123456", time.Now())
		f.Status = Status("perdue")
		assert.Error(t, f.Validate(ctx))
	})

	t.Run("zero quantity line", func(t *testing.T) {
		f := NewFacture("AB123456", time.Now())
		f.Lignes = []Ligne{NewLigne(BienProduct, id.New(), "Bande", 0, money("10"))}
		assert.Error(t, f.Validate(ctx))
	})

	t.Run("negative price line", func(t *testing.T) {
		f := NewFacture("AB123456", time.Now())
		f.Lignes = []Ligne{NewLigne(BienProduct, id.New(), "Bande", 1, money("-5"))}
		assert.Error(t, f.Validate(ctx))
	})

	t.Run("cheque requires number and bank", func(t *testing.T) {
		f := NewFacture("AB123456", time.Now())
		mode := PaiementCheque
		f.ModePaiement = &mode
		assert.Error(t, f.Validate(ctx))

		num := "1234567"
		f.NumeroCheque = &num
		assert.Error(t, f.Validate(ctx))

		bank := "BMCE"
		f.Banque = &bank
		assert.NoError(t, f.Validate(ctx))
	})

	t.Run("especes needs no cheque fields", func(t *testing.T) {
		f := NewFacture("AB123456", time.Now())
		mode := PaiementEspeces
		f.ModePaiement = &mode
		assert.NoError(t, f.Validate(ctx))
	})
}

func TestAggregateProductQuantities(t *testing.T) {
	productA := id.New()
	productB := id.New()

	lignes := []Ligne{
		NewLigne(BienProduct, productA, "A", 2, money("10")),
		NewLigne(BienSoin, id.New(), "Consultation", 1, money("250")),
		NewLigne(BienProduct, productA, "A", 3, money("10")),
		NewLigne(BienProduct, productB, "B", 1, money("5")),
	}

	agg := AggregateProductQuantities(lignes)

	assert.Len(t, agg, 2)
	assert.Equal(t, types.Quantity(5), agg[productA])
	assert.Equal(t, types.Quantity(1), agg[productB])
}

func TestStockDeltas(t *testing.T) {
	productA := id.New()
	productB := id.New()

	t.Run("new sale", func(t *testing.T) {
		deltas := StockDeltas(nil, map[id.ID]types.Quantity{productA: 3})
		require.Len(t, deltas, 1)
		assert.Equal(t, types.Quantity(-3), deltas[0].Quantity)
	})

	t.Run("restock on removal", func(t *testing.T) {
		deltas := StockDeltas(map[id.ID]types.Quantity{productA: 3}, nil)
		require.Len(t, deltas, 1)
		assert.Equal(t, types.Quantity(3), deltas[0].Quantity)
	})

	t.Run("quantity change", func(t *testing.T) {
		deltas := StockDeltas(
			map[id.ID]types.Quantity{productA: 3},
			map[id.ID]types.Quantity{productA: 5},
		)
		require.Len(t, deltas, 1)
		assert.Equal(t, types.Quantity(-2), deltas[0].Quantity)
	})

	t.Run("unchanged product omitted", func(t *testing.T) {
		deltas := StockDeltas(
			map[id.ID]types.Quantity{productA: 3, productB: 1},
			map[id.ID]types.Quantity{productA: 3, productB: 2},
		)
		require.Len(t, deltas, 1)
		assert.Equal(t, productB, deltas[0].ProductID)
		assert.Equal(t, types.Quantity(-1), deltas[0].Quantity)
	})

	t.Run("product switch", func(t *testing.T) {
		deltas := StockDeltas(
			map[id.ID]types.Quantity{productA: 2},
			map[id.ID]types.Quantity{productB: 2},
		)
		require.Len(t, deltas, 2)
		byProduct := map[id.ID]types.Quantity{}
		for _, d := range deltas {
			byProduct[d.ProductID] = d.Quantity
		}
		assert.Equal(t, types.Quantity(2), byProduct[productA])
		assert.Equal(t, types.Quantity(-2), byProduct[productB])
	})
}

func TestEffectiveConsumption_NonPaidIsEmpty(t *testing.T) {
	lignes := []Ligne{NewLigne(BienProduct, id.New(), "A", 3, money("10"))}

	for _, st := range []Status{StatusBrouillon, StatusEnvoyee, StatusAnnulee, StatusEnRetard} {
		assert.Empty(t, effectiveConsumption(st, lignes), "status %s", st)
	}
	assert.Len(t, effectiveConsumption(StatusPayee, lignes), 1)
}
