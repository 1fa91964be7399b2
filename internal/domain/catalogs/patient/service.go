package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/core/tx"
	"clinova/internal/domain"
	"clinova/pkg/numerator"
)

// Service provides business logic for the Patient catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Patient]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Patient service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Patient]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "patient",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)
	base.Hooks().On(domain.BeforeUpdate, svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and CIN uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, p *Patient) error {
	p.CIN = strings.ToUpper(strings.TrimSpace(p.CIN))

	if p.Code == "" {
		cfg := numerator.DefaultConfig("PAT")
		cfg.IncludeYear = false
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if exists, _ := s.checkCINExists(ctx, p.CIN, p.ID); exists {
		return apperror.NewDuplicate("patient", "cin", p.CIN)
	}

	return nil
}

// prepareForUpdate re-checks CIN uniqueness.
func (s *Service) prepareForUpdate(ctx context.Context, p *Patient) error {
	p.CIN = strings.ToUpper(strings.TrimSpace(p.CIN))

	if exists, _ := s.checkCINExists(ctx, p.CIN, p.ID); exists {
		return apperror.NewDuplicate("patient", "cin", p.CIN)
	}

	return nil
}

// FindByCIN retrieves a patient by identity card number.
func (s *Service) FindByCIN(ctx context.Context, cin string) (*Patient, error) {
	p, err := s.repo.FindByCIN(ctx, strings.ToUpper(strings.TrimSpace(cin)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("patient", cin)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) checkCINExists(ctx context.Context, cin string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByCIN(ctx, cin)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
