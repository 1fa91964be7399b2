// Package entity provides core domain entities.
package entity

import (
	"time"

	"clinova/internal/core/id"
	"clinova/internal/core/types"
)

// RecordType defines movement direction for the stock register.
type RecordType string

const (
	// RecordTypeReceipt increases stock (restock when a facture leaves Paid)
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases stock (sale when a facture enters Paid)
	RecordTypeExpense RecordType = "expense"
)

// MovementBase contains common fields for all register movements.
// Movements are immutable - they are never updated, only deleted and recreated.
type MovementBase struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement (facture)
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "Facture")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// Period is the business date for the movement (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a new movement base with generated LineID.
func NewMovementBase(recorderID id.ID, recorderType string, period time.Time, recordType RecordType) MovementBase {
	return MovementBase{
		LineID:       id.New(),
		RecorderID:   recorderID,
		RecorderType: recorderType,
		Period:       period,
		RecordType:   recordType,
		CreatedAt:    time.Now().UTC(),
	}
}

// StockMovement represents a movement in the stock register.
// Tracks quantity changes for products sold through paid factures.
type StockMovement struct {
	MovementBase

	// Dimension
	ProductID id.ID `db:"product_id" json:"productId"`

	// Resource
	Quantity types.Quantity `db:"quantity" json:"quantity"`
}

// NewStockMovement creates a new stock movement.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	period time.Time,
	recordType RecordType,
	productID id.ID,
	quantity types.Quantity,
) StockMovement {
	return StockMovement{
		MovementBase: NewMovementBase(recorderID, recorderType, period, recordType),
		ProductID:    productID,
		Quantity:     quantity,
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.RecordType == RecordTypeExpense {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockBalance represents the current stored stock of a product.
// The balance is clamped at zero: reconciliation never drives it negative.
type StockBalance struct {
	ProductID id.ID `db:"product_id" json:"productId"`

	Quantity types.Quantity `db:"quantity" json:"quantity"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
