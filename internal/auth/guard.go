package auth

import "errors"

// AdminRole is the role name gating administrative operations.
const AdminRole = "admin"

var (
	// ErrRoleRequired means the principal's role set lacks the required
	// role. Responses carry no more detail than the role name requirement.
	ErrRoleRequired = errors.New("required role missing")

	// ErrCrossTenant means a request payload targets a different tenant
	// than the authenticated principal's. Kept distinct from
	// ErrRoleRequired so audits can tell the two denials apart.
	ErrCrossTenant = errors.New("cross-tenant access denied")
)

// RequireRole allows the operation only when the principal holds the named
// role. A nil principal (anonymous request) or empty role set is denied.
func RequireRole(principal *Principal, role string) error {
	if !principal.HasRole(role) {
		return ErrRoleRequired
	}
	return nil
}

// RequireSameTenant rejects payloads that name a tenant other than the
// principal's own. Evaluate this before any mutation so that an admin of
// one tenant can never act on another.
func RequireSameTenant(principal *Principal, tenantID string) error {
	if principal == nil || principal.TenantID != tenantID {
		return ErrCrossTenant
	}
	return nil
}
