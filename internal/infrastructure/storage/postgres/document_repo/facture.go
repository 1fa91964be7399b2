package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinova/internal/core/id"
	"clinova/internal/domain/documents/facture"
	"clinova/internal/infrastructure/storage/postgres"
)

const (
	facturesTable      = "doc_factures"
	factureLignesTable = "doc_facture_lignes"
)

var ligneCols = []string{
	"line_id", "facture_id", "bien_type", "bien_id",
	"designation", "quantite", "prix_unitaire", "montant",
}

// FactureRepo implements facture.Repository.
type FactureRepo struct {
	*BaseDocumentRepo[*facture.Facture]
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
}

// NewFactureRepo creates a new invoice repository.
func NewFactureRepo(txManager *postgres.TxManager) *FactureRepo {
	return &FactureRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*facture.Facture](
			txManager,
			facturesTable,
			postgres.ExtractDBColumns[facture.Facture](),
			func() *facture.Facture { return &facture.Facture{} },
		),
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
	}
}

var _ facture.Repository = (*FactureRepo)(nil)

// Create inserts the invoice and its lines.
func (r *FactureRepo) Create(ctx context.Context, f *facture.Facture) error {
	if err := r.BaseDocumentRepo.Create(ctx, f); err != nil {
		return err
	}
	return r.saveLignes(ctx, f.ID, f.Lignes)
}

// GetByID retrieves an invoice with its lines.
func (r *FactureRepo) GetByID(ctx context.Context, factureID id.ID) (*facture.Facture, error) {
	f, err := r.BaseDocumentRepo.GetByID(ctx, factureID)
	if err != nil {
		return nil, err
	}
	return r.withLignes(ctx, f)
}

// GetForUpdate retrieves an invoice with its lines, locking the header row.
func (r *FactureRepo) GetForUpdate(ctx context.Context, factureID id.ID) (*facture.Facture, error) {
	f, err := r.BaseDocumentRepo.GetForUpdate(ctx, factureID)
	if err != nil {
		return nil, err
	}
	return r.withLignes(ctx, f)
}

// Update rewrites the invoice header and replaces its full line set.
func (r *FactureRepo) Update(ctx context.Context, f *facture.Facture) error {
	if err := r.BaseDocumentRepo.Update(ctx, f); err != nil {
		return err
	}
	return r.saveLignes(ctx, f.ID, f.Lignes)
}

// Delete removes the invoice and its lines permanently.
func (r *FactureRepo) Delete(ctx context.Context, factureID id.ID) error {
	querier := r.Querier(ctx)
	if _, err := querier.Exec(ctx, "DELETE FROM "+factureLignesTable+" WHERE facture_id = $1", factureID); err != nil {
		return fmt.Errorf("delete lignes: %w", err)
	}
	return r.HardDelete(ctx, factureID)
}

// List retrieves invoices matching the filter, with lines loaded.
func (r *FactureRepo) List(ctx context.Context, filter facture.ListFilter) ([]facture.Facture, int, error) {
	q := r.baseSelect()

	if filter.PatientCIN != "" {
		q = q.Where(squirrel.Eq{"patient_cin": filter.PatientCIN})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"date": *filter.ToDate})
	}

	total, err := r.count(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	q = q.OrderBy("date DESC", "number DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var factures []facture.Facture
	if err := pgxscan.Select(ctx, r.Querier(ctx), &factures, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list factures: %w", err)
	}

	if err := r.loadLignesFor(ctx, factures); err != nil {
		return nil, 0, err
	}

	return factures, total, nil
}

// ListOverdueCandidates returns sent invoices dated before the cutoff.
func (r *FactureRepo) ListOverdueCandidates(ctx context.Context, before time.Time) ([]facture.Facture, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"status": facture.StatusEnvoyee}).
		Where(squirrel.Lt{"date": before}).
		OrderBy("date")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var factures []facture.Facture
	if err := pgxscan.Select(ctx, r.Querier(ctx), &factures, sql, args...); err != nil {
		return nil, fmt.Errorf("list overdue candidates: %w", err)
	}

	if err := r.loadLignesFor(ctx, factures); err != nil {
		return nil, err
	}

	return factures, nil
}

// LatestByPatient returns the most recent invoice for a patient.
func (r *FactureRepo) LatestByPatient(ctx context.Context, patientCIN string) (*facture.Facture, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"patient_cin": patientCIN}).
		OrderBy("date DESC", "created_at DESC").
		Limit(1)

	f, err := r.getOne(ctx, q, patientCIN)
	if err != nil {
		return nil, err
	}
	return r.withLignes(ctx, f)
}

func (r *FactureRepo) withLignes(ctx context.Context, f *facture.Facture) (*facture.Facture, error) {
	lignes, err := r.getLignes(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	f.Lignes = lignes
	return f, nil
}

func (r *FactureRepo) getLignes(ctx context.Context, factureID id.ID) ([]facture.Ligne, error) {
	q := r.Builder().
		Select(ligneCols...).
		From(factureLignesTable).
		Where(squirrel.Eq{"facture_id": factureID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lignes []facture.Ligne
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lignes, sql, args...); err != nil {
		return nil, fmt.Errorf("get lignes: %w", err)
	}

	return lignes, nil
}

// loadLignesFor fetches the lines for a result page in a single query.
func (r *FactureRepo) loadLignesFor(ctx context.Context, factures []facture.Facture) error {
	if len(factures) == 0 {
		return nil
	}

	ids := make([]id.ID, len(factures))
	byID := make(map[id.ID]*facture.Facture, len(factures))
	for i := range factures {
		ids[i] = factures[i].ID
		byID[factures[i].ID] = &factures[i]
	}

	q := r.Builder().
		Select(ligneCols...).
		From(factureLignesTable).
		Where(squirrel.Eq{"facture_id": ids}).
		OrderBy("facture_id", "line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var lignes []facture.Ligne
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lignes, sql, args...); err != nil {
		return fmt.Errorf("load lignes: %w", err)
	}

	for _, l := range lignes {
		if f, ok := byID[l.FactureID]; ok {
			f.Lignes = append(f.Lignes, l)
		}
	}

	return nil
}

// saveLignes replaces the full line set of an invoice. Inside a
// transaction the COPY protocol is used; otherwise a multi-VALUES insert.
func (r *FactureRepo) saveLignes(ctx context.Context, factureID id.ID, lignes []facture.Ligne) error {
	querier := r.Querier(ctx)

	if _, err := querier.Exec(ctx, "DELETE FROM "+factureLignesTable+" WHERE facture_id = $1", factureID); err != nil {
		return fmt.Errorf("delete existing lignes: %w", err)
	}

	if len(lignes) == 0 {
		return nil
	}

	if r.txManager.GetTx(ctx) != nil {
		rows := make([][]any, 0, len(lignes))
		for _, l := range lignes {
			rows = append(rows, []any{
				l.LineID, factureID, l.BienType, l.BienID,
				l.Designation, l.Quantite, l.PrixUnitaire, l.Montant,
			})
		}
		if _, err := r.inserter.CopyFromSlice(ctx, factureLignesTable, ligneCols, rows); err != nil {
			return fmt.Errorf("copy lignes: %w", err)
		}
		return nil
	}

	q := r.Builder().
		Insert(factureLignesTable).
		Columns(ligneCols...)
	for _, l := range lignes {
		q = q.Values(
			l.LineID, factureID, l.BienType, l.BienID,
			l.Designation, l.Quantite, l.PrixUnitaire, l.Montant,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lignes: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lignes: %w", err)
	}

	return nil
}
