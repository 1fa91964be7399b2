package reports

import (
	"context"
	"fmt"
	"time"

	"clinova/internal/core/apperror"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetStockBalance generates the stock balance report.
func (s *Service) GetStockBalance(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error) {
	if filter.AsOfDate == nil {
		now := time.Now()
		filter.AsOfDate = &now
	}

	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	report, err := s.repo.GetStockBalanceReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get stock balance report: %w", err)
	}

	return report, nil
}

// GetRevenue generates the revenue report over paid invoices.
func (s *Service) GetRevenue(ctx context.Context, filter RevenueFilter) (*RevenueReport, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("fromDate and toDate are required")
	}
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("fromDate must be before toDate")
	}

	switch filter.GroupBy {
	case "":
		filter.GroupBy = "month"
	case "day", "month":
	default:
		return nil, apperror.NewValidation("groupBy must be day or month").
			WithDetail("groupBy", filter.GroupBy)
	}

	report, err := s.repo.GetRevenueReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get revenue report: %w", err)
	}

	return report, nil
}

// GetDocumentJournal returns the document journal.
func (s *Service) GetDocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.SortBy == "" {
		filter.SortBy = "date"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	journal, err := s.repo.GetDocumentJournal(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get document journal: %w", err)
	}

	return journal, nil
}
