// Package reports provides report generation services.
package reports

import (
	"time"

	"clinova/internal/core/id"
	"clinova/internal/core/types"
)

// --- Stock Balance Report ---

// StockBalanceFilter defines filter for stock balance report.
type StockBalanceFilter struct {
	// AsOfDate - report date (defaults to now)
	AsOfDate *time.Time

	ProductIDs []id.ID

	// Exclude zero balances
	ExcludeZero bool

	// LowStockOnly keeps only products at or under their alert threshold
	LowStockOnly bool

	Limit  int
	Offset int
}

// StockBalanceItem represents a single row in stock balance report.
type StockBalanceItem struct {
	ProductID   id.ID          `json:"productId"`
	ProductCode string         `json:"productCode"`
	ProductName string         `json:"productName"`
	Quantity    types.Quantity `json:"quantity"`
	SeuilAlerte types.Quantity `json:"seuilAlerte"`
	LowStock    bool           `json:"lowStock"`
}

// StockBalanceReport represents the full stock balance report.
type StockBalanceReport struct {
	AsOfDate   time.Time          `json:"asOfDate"`
	Items      []StockBalanceItem `json:"items"`
	TotalItems int                `json:"totalItems"`
}

// --- Revenue Report ---

// RevenueFilter defines filter for the revenue report. Only paid
// invoices count toward revenue.
type RevenueFilter struct {
	FromDate time.Time
	ToDate   time.Time

	// GroupBy: "day", "month" (default "month")
	GroupBy string
}

// RevenueItem is one period bucket.
type RevenueItem struct {
	Period       string      `json:"period"`
	FactureCount int         `json:"factureCount"`
	TotalHT      types.Money `json:"totalHt"`
	TotalTVA     types.Money `json:"totalTva"`
	TotalTTC     types.Money `json:"totalTtc"`
}

// RevenueReport represents the full revenue report.
type RevenueReport struct {
	FromDate time.Time     `json:"fromDate"`
	ToDate   time.Time     `json:"toDate"`
	Items    []RevenueItem `json:"items"`

	TotalHT  types.Money `json:"totalHt"`
	TotalTVA types.Money `json:"totalTva"`
	TotalTTC types.Money `json:"totalTtc"`
}

// --- Document Journal ---

// DocumentJournalFilter defines filter for the document journal.
type DocumentJournalFilter struct {
	FromDate *time.Time
	ToDate   *time.Time

	// DocumentTypes: "facture", "rendezvous" (empty means both)
	DocumentTypes []string

	// Search by number
	NumberContains string

	PatientCIN string

	SortBy    string // "date", "number", "type"
	SortOrder string // "asc", "desc"

	Limit  int
	Offset int
}

// DocumentJournalItem represents a document in the journal.
type DocumentJournalItem struct {
	ID           id.ID       `json:"id"`
	DocumentType string      `json:"documentType"`
	Number       string      `json:"number"`
	Date         time.Time   `json:"date"`
	PatientCIN   string      `json:"patientCin"`
	Status       string      `json:"status"`
	TotalTTC     types.Money `json:"totalTtc"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// DocumentJournal represents the document journal result.
type DocumentJournal struct {
	Items      []DocumentJournalItem `json:"items"`
	TotalCount int                   `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
}
