package repository

import (
	"context"

	"github.com/gestormatic/loginapi/internal/db/models"
)

// UserRepository manages local user rows for externally authenticated
// subjects. All lookups are tenant-scoped.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByTenantAndSubject(ctx context.Context, tenantID, subject string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// RoleRepository manages tenant-scoped role definitions. Roles are
// soft-deleted via the active flag, never removed.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByTenantAndName(ctx context.Context, tenantID, name string) (*models.Role, error)
	GetActiveByTenantAndName(ctx context.Context, tenantID, name string) (*models.Role, error)
	ListActiveByTenant(ctx context.Context, tenantID string) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
}

// UserRoleRepository manages role grants. The grant set for a user is
// always replaced wholesale, so the only delete is by user.
type UserRoleRepository interface {
	Create(ctx context.Context, grant *models.UserRole) error
	DeleteByUserID(ctx context.Context, userID string) error
	ListRoleNamesByUserID(ctx context.Context, userID string) ([]string, error)
}
