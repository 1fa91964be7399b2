package settings

import (
	"context"
	"fmt"

	"clinova/internal/core/tx"
	"clinova/pkg/logger"
)

// Repository defines settings persistence. The entreprise profile is a
// single row; app settings are key/value pairs.
type Repository interface {
	GetEntreprise(ctx context.Context) (*Entreprise, error)
	SaveEntreprise(ctx context.Context, e *Entreprise) error
	GetSetting(ctx context.Context, key string) (*Setting, error)
	SetSetting(ctx context.Context, key, value string) error
	ListSettings(ctx context.Context) ([]Setting, error)
}

// Service provides settings operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new settings service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// GetEntreprise returns the clinic profile.
func (s *Service) GetEntreprise(ctx context.Context) (*Entreprise, error) {
	return s.repo.GetEntreprise(ctx)
}

// SaveEntreprise replaces the clinic profile.
func (s *Service) SaveEntreprise(ctx context.Context, e *Entreprise) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SaveEntreprise(ctx, e)
	})
	if err != nil {
		return fmt.Errorf("save entreprise: %w", err)
	}

	logger.Info(ctx, "entreprise profile updated", "nom", e.Nom)
	return nil
}

// GetSetting returns one application setting.
func (s *Service) GetSetting(ctx context.Context, key string) (*Setting, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting writes one application setting.
func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetSetting(ctx, key, value)
	})
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// ListSettings returns all application settings.
func (s *Service) ListSettings(ctx context.Context) ([]Setting, error) {
	return s.repo.ListSettings(ctx)
}
