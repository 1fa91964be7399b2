package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"clinova/internal/domain/catalogs/doctemplate"
	"clinova/internal/infrastructure/storage/postgres"
)

const (
	templateTable = "cat_doc_templates"
	renderedTable = "doc_patient_documents"
)

// TemplateRepo implements doctemplate.Repository.
type TemplateRepo struct {
	*BaseCatalogRepo[*doctemplate.Template]
}

// NewTemplateRepo creates a new template repository.
func NewTemplateRepo(txManager *postgres.TxManager) *TemplateRepo {
	return &TemplateRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			templateTable,
			postgres.ExtractDBColumns[doctemplate.Template](),
			func() *doctemplate.Template { return &doctemplate.Template{} },
		),
	}
}

// SaveRendered stores a render result.
func (r *TemplateRepo) SaveRendered(ctx context.Context, doc *doctemplate.RenderedDocument) error {
	q := r.Builder().
		Insert(renderedTable).
		Columns("id", "template_id", "patient_cin", "content", "rendered_by", "created_at").
		Values(doc.ID, doc.TemplateID, doc.PatientCIN, doc.Content, doc.RenderedBy, doc.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert rendered document: %w", err)
	}

	return nil
}

// ListRendered retrieves stored documents for a patient, newest first.
func (r *TemplateRepo) ListRendered(ctx context.Context, patientCIN string, limit int) ([]doctemplate.RenderedDocument, error) {
	q := r.Builder().
		Select("id", "template_id", "patient_cin", "content", "rendered_by", "created_at").
		From(renderedTable).
		Where(squirrel.Eq{"patient_cin": patientCIN}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []doctemplate.RenderedDocument
	if err := pgxscan.Select(ctx, r.Querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list rendered documents: %w", err)
	}

	return docs, nil
}
