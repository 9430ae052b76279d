// Package admin implements the role-gated administrative operations:
// claims synchronisation, role management, and the startup bootstrap that
// seeds the first administrator.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/gestormatic/loginapi/internal/auth"
	"github.com/gestormatic/loginapi/internal/db/models"
	"github.com/gestormatic/loginapi/internal/repository"
)

// requireTenant checks that a tenant is bound to the context and that it is
// the tenant being operated on. Every service method calls this before its
// first persistence operation, so a caller that skipped the binding (or
// smuggled in another tenant's id) fails closed instead of touching rows.
func requireTenant(ctx context.Context, tenantID string) error {
	bound, err := auth.RequireTenant(ctx)
	if err != nil {
		return err
	}
	if bound != tenantID {
		return auth.ErrCrossTenant
	}
	return nil
}

// ErrRoleNotFound aborts a claims sync that references a role which does
// not exist (or is deactivated) in the tenant. The whole sync rolls back;
// partial grant sets are never persisted.
var ErrRoleNotFound = errors.New("role not found")

// MetadataPusher updates the identity provider's per-subject application
// metadata after a successful local sync.
type MetadataPusher interface {
	UpdateAppMetadata(ctx context.Context, subject, tenantID string, roles []string) error
}

// ClaimsResult is the authoritative outcome of a claims sync.
type ClaimsResult struct {
	Subject  string   `json:"uid"`
	TenantID string   `json:"tenantId"`
	Roles    []string `json:"roles"`
}

// ClaimsService reconciles requested role lists into the local store and
// pushes the result to the identity provider.
type ClaimsService struct {
	db  *bun.DB
	idp MetadataPusher
}

// NewClaimsService constructs the service over the shared DB handle and the
// provider client.
func NewClaimsService(db *bun.DB, idp MetadataPusher) *ClaimsService {
	return &ClaimsService{db: db, idp: idp}
}

// SetClaims replaces a user's grant set with the requested roles and pushes
// the stored list to the identity provider.
//
// The local replace runs in one transaction: ensure the (tenant, subject)
// user row exists, delete all current grants, then insert one grant per
// non-blank requested role resolved against the tenant's active roles. Any
// unresolvable role aborts the transaction with ErrRoleNotFound and leaves
// the prior grant set intact.
//
// The provider push happens after commit. Local state is authoritative for
// queries, so a failed push does not roll the commit back; the error
// surfaces to the caller for retry while local and provider state stay
// diverged until a later sync.
func (s *ClaimsService) SetClaims(ctx context.Context, subject, tenantID string, requestedRoles []string) (*ClaimsResult, error) {
	if err := requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	var storedRoles []string

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		users := repository.NewBunUserRepository(tx)
		roles := repository.NewBunRoleRepository(tx)
		grants := repository.NewBunUserRoleRepository(tx)

		user, err := ensureUser(ctx, users, subject, tenantID)
		if err != nil {
			return err
		}

		storedRoles, err = replaceGrants(ctx, roles, grants, user.ID, tenantID, requestedRoles)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.idp.UpdateAppMetadata(ctx, subject, tenantID, storedRoles); err != nil {
		// Local commit already happened; the caller sees the push failure
		// and can re-run the sync to reconcile the provider.
		log.Printf("claims push failed for subject %s (local state committed): %v", subject, err)
		return nil, err
	}

	return &ClaimsResult{Subject: subject, TenantID: tenantID, Roles: storedRoles}, nil
}

// ensureUser returns the (tenant, subject) user row, creating it with
// current timestamps when the subject has not been seen before.
func ensureUser(ctx context.Context, users repository.UserRepository, subject, tenantID string) (*models.User, error) {
	user, err := users.GetByTenantAndSubject(ctx, tenantID, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &models.User{
		TenantID:    tenantID,
		AuthSubject: subject,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// replaceGrants swaps the user's whole grant set for the requested roles.
// Runs inside the caller's transaction.
func replaceGrants(ctx context.Context, roles repository.RoleRepository, grants repository.UserRoleRepository, userID, tenantID string, requestedRoles []string) ([]string, error) {
	if err := grants.DeleteByUserID(ctx, userID); err != nil {
		return nil, err
	}

	stored := []string{}
	for _, name := range requestedRoles {
		if strings.TrimSpace(name) == "" {
			continue
		}

		role, err := roles.GetActiveByTenantAndName(ctx, tenantID, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
			}
			return nil, err
		}

		if err := grants.Create(ctx, &models.UserRole{UserID: userID, RoleID: role.ID}); err != nil {
			return nil, err
		}
		stored = append(stored, role.Name)
	}
	return stored, nil
}
