package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain/auth"
	"clinova/internal/infrastructure/storage/postgres"
)

const refreshTokensTable = "sys_refresh_tokens"

// TokenRepo implements auth.TokenRepository.
type TokenRepo struct {
	txManager *postgres.TxManager
}

// NewTokenRepo creates a new token repository.
func NewTokenRepo(txManager *postgres.TxManager) *TokenRepo {
	return &TokenRepo{txManager: txManager}
}

var _ auth.TokenRepository = (*TokenRepo)(nil)

func (r *TokenRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// SaveRefreshToken saves a refresh token.
func (r *TokenRepo) SaveRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	query := `
		INSERT INTO ` + refreshTokensTable + ` (
			id, user_id, token_hash, expires_at, created_at, user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		token.ID, token.UserID, token.TokenHash,
		token.ExpiresAt, token.CreatedAt, token.UserAgent, token.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	return nil
}

// GetRefreshToken retrieves refresh token by hash.
func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at,
			   revoked_at, COALESCE(revoked_reason, '') AS revoked_reason,
			   COALESCE(user_agent, '') AS user_agent,
			   COALESCE(ip_address, '') AS ip_address
		FROM ` + refreshTokensTable + `
		WHERE token_hash = $1
	`

	var token auth.RefreshToken
	if err := pgxscan.Get(ctx, r.querier(ctx), &token, query, tokenHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("refresh_token", "")
		}
		return nil, fmt.Errorf("query refresh token: %w", err)
	}

	return &token, nil
}

// RevokeRefreshToken revokes a refresh token.
func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	query := `
		UPDATE ` + refreshTokensTable + `
		SET revoked_at = NOW(), revoked_reason = $2
		WHERE id = $1 AND revoked_at IS NULL
	`

	if _, err := r.querier(ctx).Exec(ctx, query, tokenID, reason); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

// RevokeAllUserTokens revokes all tokens for a user.
func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	query := `
		UPDATE ` + refreshTokensTable + `
		SET revoked_at = NOW(), revoked_reason = $2
		WHERE user_id = $1 AND revoked_at IS NULL
	`

	if _, err := r.querier(ctx).Exec(ctx, query, userID, reason); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}

	return nil
}

// CleanupExpiredTokens removes expired tokens.
func (r *TokenRepo) CleanupExpiredTokens(ctx context.Context) (int, error) {
	query := `DELETE FROM ` + refreshTokensTable + ` WHERE expires_at < NOW()`

	result, err := r.querier(ctx).Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("cleanup tokens: %w", err)
	}

	return int(result.RowsAffected()), nil
}
