package dto

import (
	"time"

	"clinova/internal/core/entity"
	"clinova/internal/core/id"
	"clinova/internal/core/types"
	"clinova/internal/domain/registers/stock"
)

// --- Response DTOs ---

// StockBalanceResponse is one product balance row.
type StockBalanceResponse struct {
	ProductID      string         `json:"productId"`
	Quantity       types.Quantity `json:"quantity"`
	LastMovementAt time.Time      `json:"lastMovementAt"`
}

// FromStockBalance creates response DTO from register entry.
func FromStockBalance(b entity.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		ProductID:      b.ProductID.String(),
		Quantity:       b.Quantity,
		LastMovementAt: b.LastMovementAt,
	}
}

// StockMovementResponse is one register movement row.
type StockMovementResponse struct {
	LineID       string            `json:"lineId"`
	RecorderID   string            `json:"recorderId"`
	RecorderType string            `json:"recorderType"`
	Period       time.Time         `json:"period"`
	RecordType   entity.RecordType `json:"recordType"`
	ProductID    string            `json:"productId"`
	Quantity     types.Quantity    `json:"quantity"`
}

// FromStockMovement creates response DTO from register entry.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		LineID:       m.LineID.String(),
		RecorderID:   m.RecorderID.String(),
		RecorderType: m.RecorderType,
		Period:       m.Period,
		RecordType:   m.RecordType,
		ProductID:    m.ProductID.String(),
		Quantity:     m.Quantity,
	}
}

// TurnoverResponse holds receipt/expense totals for a period.
type TurnoverResponse struct {
	ProductID      string         `json:"productId,omitempty"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}

// FromTurnover creates response DTO from turnover totals.
func FromTurnover(t stock.Turnover) TurnoverResponse {
	resp := TurnoverResponse{
		OpeningBalance: t.OpeningBalance,
		Receipt:        t.Receipt,
		Expense:        t.Expense,
		ClosingBalance: t.ClosingBalance,
	}
	if !id.IsNil(t.ProductID) {
		resp.ProductID = t.ProductID.String()
	}
	return resp
}
