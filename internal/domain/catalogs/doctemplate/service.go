package doctemplate

import (
	"context"
	"fmt"
	"time"

	appcontext "clinova/internal/core/context"
	"clinova/internal/core/id"
	"clinova/internal/core/tx"
	"clinova/internal/domain"
	"clinova/pkg/numerator"
)

// Service provides business logic for document templates.
type Service struct {
	*domain.CatalogService[*Template]
	repo      Repository
	renderer  *Renderer
	numerator *numerator.Service
	txManager tx.Manager
}

// NewService creates a new template service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	num *numerator.Service,
	renderer *Renderer,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Template]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "doctemplate",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		renderer:       renderer,
		numerator:      num,
		txManager:      txManager,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForSave)
	base.Hooks().On(domain.BeforeUpdate, svc.checkBody)

	return svc
}

func (s *Service) prepareForSave(ctx context.Context, t *Template) error {
	if t.Code == "" {
		cfg := numerator.DefaultConfig("TPL")
		cfg.IncludeYear = false
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		t.Code = code
	}
	return s.checkBody(ctx, t)
}

// checkBody compiles placeholders so a broken template is rejected at save time.
func (s *Service) checkBody(ctx context.Context, t *Template) error {
	return s.renderer.Check(t.Body)
}

// Render evaluates a template against the given context and stores the result
// as a patient document.
func (s *Service) Render(ctx context.Context, templateID id.ID, patientCIN string, rctx RenderContext) (*RenderedDocument, error) {
	tpl, err := s.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.Render(tpl.Body, rctx)
	if err != nil {
		return nil, err
	}

	doc := &RenderedDocument{
		ID:         id.New(),
		TemplateID: tpl.ID,
		PatientCIN: patientCIN,
		Content:    content,
		RenderedBy: appcontext.GetUserCIN(ctx),
		CreatedAt:  time.Now().UTC(),
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SaveRendered(ctx, doc)
	})
	if err != nil {
		return nil, fmt.Errorf("save rendered document: %w", err)
	}

	return doc, nil
}

// ListRendered retrieves stored documents for a patient.
func (s *Service) ListRendered(ctx context.Context, patientCIN string, limit int) ([]RenderedDocument, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRendered(ctx, patientCIN, limit)
}
