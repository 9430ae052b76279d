package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/gestormatic/loginapi/internal/db/bunx"
	"github.com/gestormatic/loginapi/internal/db/models"
)

// ========================================
// Role Repository
// ========================================

// BunRoleRepository implements RoleRepository using Bun ORM
type BunRoleRepository struct {
	db bun.IDB
}

// NewBunRoleRepository creates a new Bun-based role repository
func NewBunRoleRepository(db bun.IDB) RoleRepository {
	return &BunRoleRepository{db: db}
}

// Create inserts a new role
func (r *BunRoleRepository) Create(ctx context.Context, role *models.Role) error {
	if role.ID == "" {
		role.ID = bunx.NewUUIDv7()
	}
	if role.CreatedAt.IsZero() {
		role.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(role).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// GetByTenantAndName retrieves a role by tenant and name, active or not
func (r *BunRoleRepository) GetByTenantAndName(ctx context.Context, tenantID, name string) (*models.Role, error) {
	role := new(models.Role)
	err := r.db.NewSelect().
		Model(role).
		Where("tenant_id = ?", tenantID).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("get role by name: %w", err)
	}
	return role, nil
}

// GetActiveByTenantAndName retrieves an active role by tenant and name.
// Deactivated roles are invisible here so grants cannot reference them.
func (r *BunRoleRepository) GetActiveByTenantAndName(ctx context.Context, tenantID, name string) (*models.Role, error) {
	role := new(models.Role)
	err := r.db.NewSelect().
		Model(role).
		Where("tenant_id = ?", tenantID).
		Where("name = ?", name).
		Where("active = ?", true).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("get active role by name: %w", err)
	}
	return role, nil
}

// ListActiveByTenant retrieves all active roles for a tenant ordered by name
func (r *BunRoleRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.NewSelect().
		Model(&roles).
		Where("tenant_id = ?", tenantID).
		Where("active = ?", true).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// Update updates an existing role
func (r *BunRoleRepository) Update(ctx context.Context, role *models.Role) error {
	result, err := r.db.NewUpdate().
		Model(role).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("role %s: %w", role.ID, ErrNotFound)
	}

	return nil
}

// ========================================
// UserRole Repository
// ========================================

// BunUserRoleRepository implements UserRoleRepository using Bun ORM
type BunUserRoleRepository struct {
	db bun.IDB
}

// NewBunUserRoleRepository creates a new Bun-based user role repository
func NewBunUserRoleRepository(db bun.IDB) UserRoleRepository {
	return &BunUserRoleRepository{db: db}
}

// Create inserts a new role grant
func (r *BunUserRoleRepository) Create(ctx context.Context, grant *models.UserRole) error {
	if grant.ID == "" {
		grant.ID = bunx.NewUUIDv7()
	}
	if grant.AssignedAt.IsZero() {
		grant.AssignedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(grant).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create user role: %w", err)
	}
	return nil
}

// DeleteByUserID removes every grant for a user. Deleting zero rows is not
// an error; a fresh user simply has no grants yet.
func (r *BunUserRoleRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.NewDelete().
		Model((*models.UserRole)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete user roles: %w", err)
	}
	return nil
}

// ListRoleNamesByUserID returns the names of a user's granted active roles
// ordered by name, for deterministic display and test reproducibility.
// Grants that point at a deactivated role are kept in the table but do not
// appear here.
func (r *BunUserRoleRepository) ListRoleNamesByUserID(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := r.db.NewSelect().
		Model((*models.UserRole)(nil)).
		Column("r.name").
		Join("JOIN roles AS r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Where("r.active = ?", true).
		Order("r.name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("list user role names: %w", err)
	}
	return names, nil
}
