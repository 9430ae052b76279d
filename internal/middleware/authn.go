// Package middleware carries the HTTP middleware that bridges token
// verification and the request-scoped identity used by handlers.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gestormatic/loginapi/internal/auth"
)

// Principal converts verified JWT claims into a request-scoped principal
// and tenant. Requests without claims (anonymous or skipped routes) pass
// through untouched; handlers that require identity reject them.
//
// A verified token whose claims carry no tenant id is rejected here with
// 403: the caller authenticated but cannot be scoped, and no tenant-less
// request may reach a handler.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := auth.PrincipalFromClaims(claims)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "missing_tenant",
				"message": "token has no tenant_id claim",
			})
			return
		}

		ctx := auth.WithPrincipal(r.Context(), principal)
		ctx = auth.WithTenant(ctx, principal.TenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
