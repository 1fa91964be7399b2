// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
	"clinova/internal/domain/auth"
	"clinova/internal/infrastructure/storage/postgres"
)

const (
	usersTable     = "sys_users"
	userRolesTable = "sys_user_roles"
)

const userCols = `id, email, password_hash, cin, first_name, last_name,
	is_active, is_admin, last_login_at, failed_login_attempts, locked_until,
	created_at, updated_at, version`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

var _ auth.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO ` + usersTable + ` (
			id, email, password_hash, cin, first_name, last_name,
			is_active, is_admin, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.CIN,
		user.FirstName, user.LastName, user.IsActive, user.IsAdmin,
		user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	query := `
		SELECT ` + userCols + `
		FROM ` + usersTable + `
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.getOne(ctx, query, userID.String(), userID)
}

// GetByEmail retrieves user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT ` + userCols + `
		FROM ` + usersTable + `
		WHERE email = $1 AND deleted_at IS NULL
	`
	return r.getOne(ctx, query, email, email)
}

func (r *UserRepo) getOne(ctx context.Context, query, key string, arg any) (*auth.User, error) {
	var user auth.User
	if err := pgxscan.Get(ctx, r.querier(ctx), &user, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// Update updates user data with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	query := `
		UPDATE ` + usersTable + `
		SET email = $1, password_hash = $2, cin = $3,
			first_name = $4, last_name = $5,
			is_active = $6, is_admin = $7, last_login_at = $8,
			failed_login_attempts = $9, locked_until = $10,
			updated_at = NOW(), version = version + 1
		WHERE id = $11 AND version = $12
	`

	result, err := r.querier(ctx).Exec(ctx, query,
		user.Email, user.PasswordHash, user.CIN,
		user.FirstName, user.LastName,
		user.IsActive, user.IsAdmin, user.LastLoginAt,
		user.FailedLoginAttempts, user.LockedUntil,
		user.ID, user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(usersTable, user.ID)
	}

	user.Version++
	return nil
}

// Delete soft-deletes a user.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	query := `
		UPDATE ` + usersTable + `
		SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.querier(ctx).Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}

// List retrieves users with filtering.
func (r *UserRepo) List(ctx context.Context, filter auth.UserFilter) ([]auth.User, int, error) {
	builder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	q := builder.
		Select(userCols).
		From(usersTable).
		Where("deleted_at IS NULL")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		})
	}
	if filter.IsActive != nil {
		q = q.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}
	if filter.RoleCode != "" {
		q = q.Where(`id IN (
			SELECT ur.user_id FROM `+userRolesTable+` ur
			JOIN sys_roles r ON r.id = ur.role_id
			WHERE r.code = ?)`, filter.RoleCode)
	}

	countQ := builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := pgxscan.Get(ctx, r.querier(ctx), &total, countSQL, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	q = q.OrderBy("email")
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

	var users []auth.User
	if err := pgxscan.Select(ctx, r.querier(ctx), &users, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

// LoadRoles loads user's roles.
func (r *UserRepo) LoadRoles(ctx context.Context, userID id.ID) ([]auth.Role, error) {
	query := `
		SELECT r.id, r.code, r.name, r.description, r.is_system, r.created_at, r.updated_at
		FROM sys_roles r
		JOIN ` + userRolesTable + ` ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.code
	`

	var roles []auth.Role
	if err := pgxscan.Select(ctx, r.querier(ctx), &roles, query, userID); err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	return roles, nil
}

// LoadPermissions loads user's permissions flattened from roles.
func (r *UserRepo) LoadPermissions(ctx context.Context, userID id.ID) ([]string, error) {
	query := `
		SELECT DISTINCT p.code
		FROM sys_permissions p
		JOIN sys_role_permissions rp ON rp.permission_id = p.id
		JOIN ` + userRolesTable + ` ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
		ORDER BY p.code
	`

	var permissions []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &permissions, query, userID); err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	return permissions, nil
}

// AssignRole assigns a role to user.
func (r *UserRepo) AssignRole(ctx context.Context, userID, roleID id.ID, grantedBy id.ID) error {
	query := `
		INSERT INTO ` + userRolesTable + ` (user_id, role_id, granted_by, granted_at)
		VALUES ($1, $2, NULLIF($3, '00000000-0000-0000-0000-000000000000'::uuid), NOW())
		ON CONFLICT (user_id, role_id) DO NOTHING
	`

	if _, err := r.querier(ctx).Exec(ctx, query, userID, roleID, grantedBy); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}

	return nil
}

// RevokeRole revokes a role from user.
func (r *UserRepo) RevokeRole(ctx context.Context, userID, roleID id.ID) error {
	query := `DELETE FROM ` + userRolesTable + ` WHERE user_id = $1 AND role_id = $2`

	if _, err := r.querier(ctx).Exec(ctx, query, userID, roleID); err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}

	return nil
}

// Exists checks if email exists.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ` + usersTable + ` WHERE email = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := pgxscan.Get(ctx, r.querier(ctx), &exists, query, email); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}

	return exists, nil
}
