package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrTenantRequired is returned when a tenant-scoped call runs without a
// tenant on the context.
var ErrTenantRequired = errors.New("tenant id is required")

type tenantContextKey struct{}

// WithTenant binds the current tenant id to the request context. Because
// the value lives on the per-request context rather than any shared cell,
// it ends with the request on every exit path and cannot leak into another
// request that reuses the same goroutine or connection.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenantID)
}

// TenantFromContext returns the tenant id bound to the context, if any.
func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantContextKey{}).(string)
	return tenantID, ok && tenantID != ""
}

// RequireTenant returns the tenant id or ErrTenantRequired when absent or
// blank. Call this before any tenant-scoped persistence operation.
func RequireTenant(ctx context.Context) (string, error) {
	tenantID, ok := ctx.Value(tenantContextKey{}).(string)
	if !ok || strings.TrimSpace(tenantID) == "" {
		return "", ErrTenantRequired
	}
	return tenantID, nil
}
