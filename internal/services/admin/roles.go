package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/gestormatic/loginapi/internal/db/models"
	"github.com/gestormatic/loginapi/internal/repository"
)

// RoleService manages tenant-scoped role definitions.
type RoleService struct {
	roles repository.RoleRepository
}

// NewRoleService constructs the service over the shared DB handle.
func NewRoleService(db *bun.DB) *RoleService {
	return &RoleService{roles: repository.NewBunRoleRepository(db)}
}

// List returns the tenant's active role names ordered by name.
func (s *RoleService) List(ctx context.Context, tenantID string) ([]string, error) {
	if err := requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	roles, err := s.roles.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

// Create ensures an active role named name exists in the tenant. A
// deactivated role with the same name is reactivated rather than
// duplicated, preserving the history of grants that referenced it.
func (s *RoleService) Create(ctx context.Context, tenantID, name string) (string, error) {
	if err := requireTenant(ctx, tenantID); err != nil {
		return "", err
	}

	role, err := s.roles.GetByTenantAndName(ctx, tenantID, name)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		role = &models.Role{TenantID: tenantID, Name: name, Active: true}
		if err := s.roles.Create(ctx, role); err != nil {
			return "", err
		}
		return role.Name, nil
	}

	if !role.Active {
		role.Active = true
		if err := s.roles.Update(ctx, role); err != nil {
			return "", err
		}
	}
	return role.Name, nil
}

// Rename changes a role's name. The role may be active or not; grants keep
// pointing at the same row.
func (s *RoleService) Rename(ctx context.Context, tenantID, name, newName string) (string, error) {
	if err := requireTenant(ctx, tenantID); err != nil {
		return "", err
	}

	role, err := s.roles.GetByTenantAndName(ctx, tenantID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrRoleNotFound, name)
		}
		return "", err
	}

	if newName != "" && newName != role.Name {
		role.Name = newName
		if err := s.roles.Update(ctx, role); err != nil {
			return "", err
		}
	}
	return role.Name, nil
}

// Deactivate soft-deletes a role. Existing grants keep their reference but
// the role stops resolving for new grants and disappears from listings.
func (s *RoleService) Deactivate(ctx context.Context, tenantID, name string) error {
	if err := requireTenant(ctx, tenantID); err != nil {
		return err
	}

	role, err := s.roles.GetByTenantAndName(ctx, tenantID, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrRoleNotFound, name)
		}
		return err
	}

	role.Active = false
	return s.roles.Update(ctx, role)
}
