package reports

import "context"

// Repository defines report queries. Implementations read directly from
// storage; reports never mutate state.
type Repository interface {
	GetStockBalanceReport(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error)
	GetRevenueReport(ctx context.Context, filter RevenueFilter) (*RevenueReport, error)
	GetDocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error)
}
