package facture

import (
	"sort"

	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain/registers/stock"
)

// AggregateProductQuantities sums line quantities per product.
// Soin lines are skipped: they never consume stock.
func AggregateProductQuantities(lignes []Ligne) map[id.ID]types.Quantity {
	out := make(map[id.ID]types.Quantity)
	for _, l := range lignes {
		if l.BienType != BienProduct {
			continue
		}
		out[l.BienID] += l.Quantite
	}
	return out
}

// effectiveConsumption returns the per-product quantities an invoice
// actually holds against stock. Only paid invoices consume stock, so
// any non-paid status yields an empty map.
func effectiveConsumption(status Status, lignes []Ligne) map[id.ID]types.Quantity {
	if status != StatusPayee {
		return map[id.ID]types.Quantity{}
	}
	return AggregateProductQuantities(lignes)
}

// StockDeltas computes the stock adjustments needed to move from the old
// effective consumption to the new one. The delta for a product is
// old - new: a paid sale (new > old) yields a negative delta (stock
// decreases), un-paying or deleting (old > new) yields a positive delta
// (stock is restored). Products with a zero net delta are omitted.
// Deltas are returned in a stable product order so movement rows and
// lock acquisition are deterministic.
func StockDeltas(old, new map[id.ID]types.Quantity) []stock.Delta {
	seen := make(map[id.ID]struct{}, len(old)+len(new))
	deltas := make([]stock.Delta, 0, len(old)+len(new))

	add := func(productID id.ID) {
		if _, ok := seen[productID]; ok {
			return
		}
		seen[productID] = struct{}{}
		d := old[productID] - new[productID]
		if d.IsZero() {
			return
		}
		deltas = append(deltas, stock.Delta{ProductID: productID, Quantity: d})
	}

	for productID := range old {
		add(productID)
	}
	for productID := range new {
		add(productID)
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].ProductID.String() < deltas[j].ProductID.String()
	})
	return deltas
}
