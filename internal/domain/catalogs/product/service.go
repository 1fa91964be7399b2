package product

import (
	"context"
	"fmt"
	"time"

	appcontext "clinova/internal/core/context"
	"clinova/internal/core/tx"
	"clinova/internal/domain"
	"clinova/pkg/numerator"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Product service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "product",
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

// prepareForUpdate pins the stored stock quantity. Stock is owned by
// invoice reconciliation; a catalog update must not overwrite it.
func (s *Service) prepareForUpdate(ctx context.Context, p *Product) error {
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.QuantiteStock = current.QuantiteStock
	return nil
}

// prepareForCreate handles code generation and creator stamping.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	if p.Code == "" {
		cfg := numerator.DefaultConfig("PRD")
		cfg.IncludeYear = false
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		p.Code = code
	}

	if p.CreatedBy == "" {
		p.CreatedBy = appcontext.GetUserCIN(ctx)
	}

	return nil
}

// FindByName retrieves a product by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Product, error) {
	return s.repo.FindByName(ctx, name)
}

// FindLowStock retrieves products with stock at or below their alert threshold.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.FindLowStock(ctx, filter)
}
