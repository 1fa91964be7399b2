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

const (
	rolesTable           = "sys_roles"
	rolePermissionsTable = "sys_role_permissions"
	permissionsTable     = "sys_permissions"
)

// RoleRepo implements auth.RoleRepository.
type RoleRepo struct {
	txManager *postgres.TxManager
}

// NewRoleRepo creates a new role repository.
func NewRoleRepo(txManager *postgres.TxManager) *RoleRepo {
	return &RoleRepo{txManager: txManager}
}

var _ auth.RoleRepository = (*RoleRepo)(nil)

func (r *RoleRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create creates a new role.
func (r *RoleRepo) Create(ctx context.Context, role *auth.Role) error {
	query := `
		INSERT INTO ` + rolesTable + ` (id, code, name, description, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier(ctx).Exec(ctx, query,
		role.ID, role.Code, role.Name, role.Description, role.IsSystem,
		role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// GetByCode retrieves role by code.
func (r *RoleRepo) GetByCode(ctx context.Context, code string) (*auth.Role, error) {
	query := `
		SELECT id, code, name, description, is_system, created_at, updated_at
		FROM ` + rolesTable + `
		WHERE code = $1
	`

	var role auth.Role
	if err := pgxscan.Get(ctx, r.querier(ctx), &role, query, code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("role", code)
		}
		return nil, fmt.Errorf("query role: %w", err)
	}

	return &role, nil
}

// List retrieves all roles.
func (r *RoleRepo) List(ctx context.Context) ([]auth.Role, error) {
	query := `
		SELECT id, code, name, description, is_system, created_at, updated_at
		FROM ` + rolesTable + `
		ORDER BY code
	`

	var roles []auth.Role
	if err := pgxscan.Select(ctx, r.querier(ctx), &roles, query); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

// LoadPermissions loads role's permissions.
func (r *RoleRepo) LoadPermissions(ctx context.Context, roleID id.ID) ([]auth.Permission, error) {
	query := `
		SELECT p.id, p.code, p.name, p.resource, p.action, p.created_at
		FROM ` + permissionsTable + ` p
		JOIN ` + rolePermissionsTable + ` rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.code
	`

	var permissions []auth.Permission
	if err := pgxscan.Select(ctx, r.querier(ctx), &permissions, query, roleID); err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	return permissions, nil
}
