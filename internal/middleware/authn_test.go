package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestormatic/loginapi/internal/auth"
)

// identityProbe records what the downstream handler observed.
type identityProbe struct {
	called    bool
	principal *auth.Principal
	authed    bool
	tenantID  string
	hasTenant bool
}

func (p *identityProbe) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.principal, p.authed = auth.PrincipalFromContext(r.Context())
		p.tenantID, p.hasTenant = auth.TenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestPrincipal(t *testing.T) {
	t.Run("claims with tenant become principal and tenant", func(t *testing.T) {
		probe := &identityProbe{}

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		ctx := auth.WithClaims(req.Context(), map[string]any{
			"sub":   "sub-1",
			"email": "alice@acme.test",
			"app_metadata": map[string]any{
				"tenant_id": "acme",
				"roles":     []any{"admin"},
			},
		})
		rec := httptest.NewRecorder()
		Principal(probe.handler()).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.True(t, probe.authed)
		assert.Equal(t, "sub-1", probe.principal.Subject)
		assert.Equal(t, "acme", probe.principal.TenantID)
		assert.Equal(t, []string{"admin"}, probe.principal.Roles)
		require.True(t, probe.hasTenant)
		assert.Equal(t, "acme", probe.tenantID)
	})

	t.Run("claims without tenant rejected before the handler", func(t *testing.T) {
		probe := &identityProbe{}

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		ctx := auth.WithClaims(req.Context(), map[string]any{"sub": "sub-1"})
		rec := httptest.NewRecorder()
		Principal(probe.handler()).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.False(t, probe.called)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "missing_tenant", payload["error"])
	})

	t.Run("anonymous request passes through", func(t *testing.T) {
		probe := &identityProbe{}

		req := httptest.NewRequest(http.MethodGet, "/auth/health", nil)
		rec := httptest.NewRecorder()
		Principal(probe.handler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, probe.called)
		assert.False(t, probe.authed)
		assert.False(t, probe.hasTenant)
	})
}
