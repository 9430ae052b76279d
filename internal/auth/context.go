package auth

import "context"

// Principal captures the verified identity propagated through the request
// context. It is constructed once per request from token claims and never
// mutated or persisted.
type Principal struct {
	// Subject is the identity provider's stable subject id (JWT "sub").
	Subject string
	// Email from the token claims, when present.
	Email string
	// Name is the display name; falls back to the email claim.
	Name string
	// TenantID scopes every persistence call made on behalf of the request.
	TenantID string
	// Roles as asserted by the token's app_metadata claim.
	Roles []string
}

// HasRole reports whether the principal's claim roles include name.
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, role := range p.Roles {
		if role == name {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// WithPrincipal stores the authenticated principal on the context for
// downstream consumers.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext retrieves the authenticated principal from the
// context. ok is false for anonymous requests.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*Principal)
	return principal, ok && principal != nil
}
