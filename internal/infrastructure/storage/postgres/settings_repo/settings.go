// Package settings_repo provides the PostgreSQL settings repository.
package settings_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"clinova/internal/core/apperror"
	"clinova/internal/domain/settings"
	"clinova/internal/infrastructure/storage/postgres"
)

const (
	entrepriseTable = "sys_entreprise"
	settingsTable   = "sys_settings"
)

// SettingsRepo implements settings.Repository.
type SettingsRepo struct {
	txManager *postgres.TxManager
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txManager *postgres.TxManager) *SettingsRepo {
	return &SettingsRepo{txManager: txManager}
}

var _ settings.Repository = (*SettingsRepo)(nil)

func (r *SettingsRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// GetEntreprise returns the single clinic profile row.
func (r *SettingsRepo) GetEntreprise(ctx context.Context) (*settings.Entreprise, error) {
	query := `
		SELECT nom, adresse, ville, telephone, email, ice,
			   afficher_tva, pied_de_page, updated_at
		FROM ` + entrepriseTable + `
		WHERE singleton = TRUE
	`

	var e settings.Entreprise
	if err := pgxscan.Get(ctx, r.querier(ctx), &e, query); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("entreprise", "profile")
		}
		return nil, fmt.Errorf("query entreprise: %w", err)
	}

	return &e, nil
}

// SaveEntreprise upserts the single clinic profile row.
func (r *SettingsRepo) SaveEntreprise(ctx context.Context, e *settings.Entreprise) error {
	query := `
		INSERT INTO ` + entrepriseTable + ` (
			singleton, nom, adresse, ville, telephone, email, ice,
			afficher_tva, pied_de_page, updated_at
		) VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (singleton) DO UPDATE SET
			nom = EXCLUDED.nom,
			adresse = EXCLUDED.adresse,
			ville = EXCLUDED.ville,
			telephone = EXCLUDED.telephone,
			email = EXCLUDED.email,
			ice = EXCLUDED.ice,
			afficher_tva = EXCLUDED.afficher_tva,
			pied_de_page = EXCLUDED.pied_de_page,
			updated_at = NOW()
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		e.Nom, e.Adresse, e.Ville, e.Telephone, e.Email, e.ICE,
		e.AfficherTVA, e.PiedDePage,
	)
	if err != nil {
		return fmt.Errorf("upsert entreprise: %w", err)
	}

	return nil
}

// GetSetting returns one setting by key.
func (r *SettingsRepo) GetSetting(ctx context.Context, key string) (*settings.Setting, error) {
	query := `SELECT key, value, updated_at FROM ` + settingsTable + ` WHERE key = $1`

	var s settings.Setting
	if err := pgxscan.Get(ctx, r.querier(ctx), &s, query, key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("setting", key)
		}
		return nil, fmt.Errorf("query setting: %w", err)
	}

	return &s, nil
}

// SetSetting upserts one setting.
func (r *SettingsRepo) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO ` + settingsTable + ` (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.querier(ctx).Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}

	return nil
}

// ListSettings returns all settings.
func (r *SettingsRepo) ListSettings(ctx context.Context) ([]settings.Setting, error) {
	query := `SELECT key, value, updated_at FROM ` + settingsTable + ` ORDER BY key`

	var out []settings.Setting
	if err := pgxscan.Select(ctx, r.querier(ctx), &out, query); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	return out, nil
}
