package dto

import (
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain/reports"
)

// --- Request DTOs ---

// StockBalanceReportRequest holds query params for the stock balance report.
type StockBalanceReportRequest struct {
	AsOfDate     *time.Time `form:"asOfDate" time_format:"2006-01-02"`
	ProductIDs   []string   `form:"productIds"`
	ExcludeZero  bool       `form:"excludeZero"`
	LowStockOnly bool       `form:"lowStockOnly"`
	Limit        int        `form:"limit"`
	Offset       int        `form:"offset"`
}

// ToFilter converts request to domain filter.
func (r *StockBalanceReportRequest) ToFilter() (reports.StockBalanceFilter, error) {
	filter := reports.StockBalanceFilter{
		AsOfDate:     r.AsOfDate,
		ExcludeZero:  r.ExcludeZero,
		LowStockOnly: r.LowStockOnly,
		Limit:        r.Limit,
		Offset:       r.Offset,
	}
	for _, raw := range r.ProductIDs {
		parsed, err := id.Parse(raw)
		if err != nil {
			return filter, apperror.NewValidation("invalid product id in productIds").
				WithDetail("value", raw)
		}
		filter.ProductIDs = append(filter.ProductIDs, parsed)
	}
	return filter, nil
}

// RevenueReportRequest holds query params for the revenue report.
type RevenueReportRequest struct {
	FromDate time.Time `form:"fromDate" time_format:"2006-01-02" binding:"required"`
	ToDate   time.Time `form:"toDate" time_format:"2006-01-02" binding:"required"`
	GroupBy  string    `form:"groupBy"`
}

// ToFilter converts request to domain filter.
func (r *RevenueReportRequest) ToFilter() reports.RevenueFilter {
	return reports.RevenueFilter{
		FromDate: r.FromDate,
		ToDate:   r.ToDate,
		GroupBy:  r.GroupBy,
	}
}

// DocumentJournalRequest holds query params for the document journal.
type DocumentJournalRequest struct {
	FromDate       *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate         *time.Time `form:"toDate" time_format:"2006-01-02"`
	DocumentTypes  []string   `form:"documentTypes"`
	NumberContains string     `form:"numberContains"`
	PatientCIN     string     `form:"patientCin"`
	SortBy         string     `form:"sortBy"`
	SortOrder      string     `form:"sortOrder"`
	Limit          int        `form:"limit"`
	Offset         int        `form:"offset"`
}

// ToFilter converts request to domain filter.
func (r *DocumentJournalRequest) ToFilter() reports.DocumentJournalFilter {
	return reports.DocumentJournalFilter{
		FromDate:       r.FromDate,
		ToDate:         r.ToDate,
		DocumentTypes:  r.DocumentTypes,
		NumberContains: r.NumberContains,
		PatientCIN:     r.PatientCIN,
		SortBy:         r.SortBy,
		SortOrder:      r.SortOrder,
		Limit:          r.Limit,
		Offset:         r.Offset,
	}
}
