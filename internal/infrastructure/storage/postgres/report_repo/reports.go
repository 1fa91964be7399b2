// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinova/internal/domain/reports"
	"clinova/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ reports.Repository = (*ReportRepo)(nil)

func (r *ReportRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// GetStockBalanceReport generates the stock balance report joined with
// product catalog details.
func (r *ReportRepo) GetStockBalanceReport(ctx context.Context, filter reports.StockBalanceFilter) (*reports.StockBalanceReport, error) {
	q := r.builder.
		Select(
			"b.product_id",
			"p.code AS product_code",
			"p.name AS product_name",
			"b.quantity",
			"p.seuil_alerte",
			"(p.seuil_alerte > 0 AND b.quantity <= p.seuil_alerte) AS low_stock",
		).
		From("reg_stock_balances b").
		Join("cat_products p ON p.id = b.product_id").
		Where(squirrel.Eq{"p.deletion_mark": false})

	if len(filter.ProductIDs) > 0 {
		q = q.Where(squirrel.Eq{"b.product_id": filter.ProductIDs})
	}
	if filter.ExcludeZero {
		q = q.Where("b.quantity != 0")
	}
	if filter.LowStockOnly {
		q = q.Where("p.seuil_alerte > 0 AND b.quantity <= p.seuil_alerte")
	}

	q = q.OrderBy("p.name")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []reports.StockBalanceItem
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("stock balance report: %w", err)
	}

	return &reports.StockBalanceReport{
		AsOfDate:   *filter.AsOfDate,
		Items:      items,
		TotalItems: len(items),
	}, nil
}

// GetRevenueReport sums paid invoices per period bucket.
func (r *ReportRepo) GetRevenueReport(ctx context.Context, filter reports.RevenueFilter) (*reports.RevenueReport, error) {
	bucket := "YYYY-MM"
	if filter.GroupBy == "day" {
		bucket = "YYYY-MM-DD"
	}

	query := `
		SELECT
			to_char(f.date, $1) AS period,
			COUNT(*) AS facture_count,
			COALESCE(SUM(f.prix_ht), 0) AS total_ht,
			COALESCE(SUM(f.tva), 0) AS total_tva,
			COALESCE(SUM(f.total_ttc), 0) AS total_ttc
		FROM doc_factures f
		WHERE f.status = 'payee'
		  AND f.date >= $2 AND f.date < $3
		GROUP BY 1
		ORDER BY 1
	`

	var items []reports.RevenueItem
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, query,
		bucket, filter.FromDate, filter.ToDate); err != nil {
		return nil, fmt.Errorf("revenue report: %w", err)
	}

	report := &reports.RevenueReport{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
		Items:    items,
	}
	for _, it := range items {
		report.TotalHT = report.TotalHT.Add(it.TotalHT)
		report.TotalTVA = report.TotalTVA.Add(it.TotalTVA)
		report.TotalTTC = report.TotalTTC.Add(it.TotalTTC)
	}

	return report, nil
}

// GetDocumentJournal lists factures and rendez-vous in one journal.
func (r *ReportRepo) GetDocumentJournal(ctx context.Context, filter reports.DocumentJournalFilter) (*reports.DocumentJournal, error) {
	journal := &reports.DocumentJournal{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	union := `
		SELECT id, 'facture' AS document_type, number, date, patient_cin,
			   status, total_ttc, created_at
		FROM doc_factures
		UNION ALL
		SELECT id, 'rendezvous' AS document_type, number, date, patient_cin,
			   status, 0 AS total_ttc, created_at
		FROM doc_rendez_vous
	`

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.FromDate != nil {
		conds = append(conds, "date >= "+arg(*filter.FromDate))
	}
	if filter.ToDate != nil {
		conds = append(conds, "date < "+arg(*filter.ToDate))
	}
	if len(filter.DocumentTypes) > 0 {
		placeholders := make([]string, len(filter.DocumentTypes))
		for i, dt := range filter.DocumentTypes {
			placeholders[i] = arg(dt)
		}
		conds = append(conds, "document_type IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.NumberContains != "" {
		conds = append(conds, "number ILIKE "+arg("%"+filter.NumberContains+"%"))
	}
	if filter.PatientCIN != "" {
		conds = append(conds, "patient_cin = "+arg(filter.PatientCIN))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	countSQL := "SELECT COUNT(*) FROM (" + union + ") docs" + where
	if err := pgxscan.Get(ctx, r.querier(ctx), &journal.TotalCount, countSQL, args...); err != nil {
		return nil, fmt.Errorf("count journal: %w", err)
	}

	sortCol := map[string]string{"date": "date", "number": "number", "type": "document_type"}[filter.SortBy]
	if sortCol == "" {
		sortCol = "date"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	listSQL := "SELECT id, document_type, number, date, patient_cin, status, total_ttc, created_at" +
		" FROM (" + union + ") docs" + where +
		fmt.Sprintf(" ORDER BY %s %s", sortCol, direction) +
		" LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	if err := pgxscan.Select(ctx, r.querier(ctx), &journal.Items, listSQL, args...); err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}

	return journal, nil
}
