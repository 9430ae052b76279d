// Package profile assembles the caller-facing identity view: the local
// user row joined with the effective role set reconciled from token claims
// and stored grants.
package profile

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/gestormatic/loginapi/internal/auth"
	"github.com/gestormatic/loginapi/internal/repository"
)

// Profile is the identity view returned to the authenticated caller.
type Profile struct {
	UserID      string   `json:"userId"`
	TenantID    string   `json:"tenantId"`
	AuthSubject string   `json:"authUid"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
	Roles       []string `json:"roles"`
}

// Service resolves profiles against the local store.
type Service struct {
	users  repository.UserRepository
	grants repository.UserRoleRepository
}

// NewService constructs the service over the shared DB handle.
func NewService(db *bun.DB) *Service {
	return &Service{
		users:  repository.NewBunUserRepository(db),
		grants: repository.NewBunUserRoleRepository(db),
	}
}

// GetProfile resolves the principal's local profile. A subject that has
// never been synced locally yields (nil, nil); callers decide how to
// present the absence.
//
// The effective role set merges the token's claim roles with the stored
// grants: claim roles first in claim order, then stored roles in name
// order, duplicates removed.
func (s *Service) GetProfile(ctx context.Context, principal *auth.Principal) (*Profile, error) {
	tenantID, err := auth.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if tenantID != principal.TenantID {
		return nil, auth.ErrCrossTenant
	}

	user, err := s.users.GetByTenantAndSubject(ctx, tenantID, principal.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	stored, err := s.grants.ListRoleNamesByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserID:      user.ID,
		TenantID:    user.TenantID,
		AuthSubject: user.AuthSubject,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Roles:       MergeRoles(principal.Roles, stored),
	}, nil
}

// MergeRoles returns the ordered union of claim roles and stored roles.
// Claim roles keep their original order and win position on duplicates.
func MergeRoles(claimRoles, storedRoles []string) []string {
	merged := make([]string, 0, len(claimRoles)+len(storedRoles))
	seen := make(map[string]struct{}, len(claimRoles)+len(storedRoles))

	for _, set := range [][]string{claimRoles, storedRoles} {
		for _, name := range set {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}
	return merged
}
