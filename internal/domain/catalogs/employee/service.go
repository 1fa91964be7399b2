package employee

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

// Service provides business logic for the Employee catalog.
type Service struct {
	*domain.CatalogService[*Employee]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Employee service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Employee]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  num,
		EntityName: "employee",
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

func (s *Service) prepareForCreate(ctx context.Context, e *Employee) error {
	e.CIN = strings.ToUpper(strings.TrimSpace(e.CIN))

	if e.Code == "" {
		cfg := numerator.DefaultConfig("EMP")
		cfg.IncludeYear = false
		code, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		e.Code = code
	}

	if exists, _ := s.checkCINExists(ctx, e.CIN, e.ID); exists {
		return apperror.NewDuplicate("employee", "cin", e.CIN)
	}

	return nil
}

func (s *Service) prepareForUpdate(ctx context.Context, e *Employee) error {
	e.CIN = strings.ToUpper(strings.TrimSpace(e.CIN))

	if exists, _ := s.checkCINExists(ctx, e.CIN, e.ID); exists {
		return apperror.NewDuplicate("employee", "cin", e.CIN)
	}

	return nil
}

// FindByCIN retrieves an employee by identity card number.
func (s *Service) FindByCIN(ctx context.Context, cin string) (*Employee, error) {
	return s.repo.FindByCIN(ctx, strings.ToUpper(strings.TrimSpace(cin)))
}

// FindByRole retrieves employees with a given role.
func (s *Service) FindByRole(ctx context.Context, role Role, filter domain.ListFilter) (domain.ListResult[*Employee], error) {
	return s.repo.FindByRole(ctx, role, filter)
}

func (s *Service) checkCINExists(ctx context.Context, cin string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByCIN(ctx, cin)
	if err != nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
