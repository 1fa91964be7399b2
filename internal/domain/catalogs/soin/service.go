package soin

import (
	"context"
	"fmt"
	"time"

	"clinova/internal/core/id"
	"clinova/internal/core/tx"
	"clinova/internal/domain"
	"clinova/pkg/numerator"
)

// Service provides business logic for the Soin catalog.
type Service struct {
	*domain.CatalogService[*Soin]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Soin service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Soin]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "soin",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, item *Soin) error {
	if item.Code == "" {
		cfg := numerator.DefaultConfig("SOI")
		cfg.IncludeYear = false
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		item.Code = code
	}
	return nil
}

// FindByName retrieves a soin by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Soin, error) {
	return s.repo.FindByName(ctx, name)
}

// FindByTherapeute retrieves soins assigned to an employee.
func (s *Service) FindByTherapeute(ctx context.Context, employeeID id.ID, filter domain.ListFilter) (domain.ListResult[*Soin], error) {
	return s.repo.FindByTherapeute(ctx, employeeID, filter)
}
