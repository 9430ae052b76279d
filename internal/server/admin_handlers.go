package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gestormatic/loginapi/internal/auth"
	"github.com/gestormatic/loginapi/internal/services/admin"
)

// claimsService is the claims-sync contract the admin handlers depend on.
type claimsService interface {
	SetClaims(ctx context.Context, subject, tenantID string, roles []string) (*admin.ClaimsResult, error)
}

// roleService is the role-administration contract.
type roleService interface {
	List(ctx context.Context, tenantID string) ([]string, error)
	Create(ctx context.Context, tenantID, name string) (string, error)
	Rename(ctx context.Context, tenantID, name, newName string) (string, error)
	Deactivate(ctx context.Context, tenantID, name string) error
}

// requireAdmin resolves the request principal and enforces the admin role.
// Every /admin handler calls this before touching a service; a denial here
// guarantees zero side effects.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, "authentication required")
		return nil, false
	}
	if err := auth.RequireRole(principal, auth.AdminRole); err != nil {
		writeError(w, http.StatusForbidden, kindForbidden, "Admin role required")
		return nil, false
	}
	return principal, true
}

// HandleSetClaims handles POST /admin/users/claims.
//
// Checks run in a fixed order before any mutation: admin role, then the
// payload tenant (blank is a bad request, a foreign tenant is a
// cross-tenant denial), then the subject. Only a payload naming the
// caller's own tenant reaches the sync.
func HandleSetClaims(claims claimsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		var req struct {
			UID      string   `json:"uid"`
			TenantID string   `json:"tenantId"`
			Roles    []string `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "malformed request body")
			return
		}

		if strings.TrimSpace(req.TenantID) == "" {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "tenantId is required")
			return
		}
		if err := auth.RequireSameTenant(principal, req.TenantID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		if strings.TrimSpace(req.UID) == "" {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "uid is required")
			return
		}

		result, err := claims.SetClaims(r.Context(), req.UID, req.TenantID, req.Roles)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// HandleSetUserRoles handles PUT /admin/users/{uid}/roles. The tenant is
// always the caller's own, so a cross-tenant write is impossible here by
// construction.
func HandleSetUserRoles(claims claimsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		uid := chi.URLParam(r, "uid")
		if strings.TrimSpace(uid) == "" {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "uid is required")
			return
		}

		var req struct {
			Roles []string `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "malformed request body")
			return
		}

		result, err := claims.SetClaims(r.Context(), uid, principal.TenantID, req.Roles)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// HandleListRoles handles GET /admin/roles.
func HandleListRoles(roles roleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		names, err := roles.List(r.Context(), principal.TenantID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"roles": names})
	}
}

// HandleCreateRole handles POST /admin/roles.
func HandleCreateRole(roles roleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "malformed request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "name is required")
			return
		}

		name, err := roles.Create(r.Context(), principal.TenantID, req.Name)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"name": name})
	}
}

// HandleRenameRole handles PUT /admin/roles/{name}.
func HandleRenameRole(roles roleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		name := chi.URLParam(r, "name")

		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "malformed request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "name is required")
			return
		}

		newName, err := roles.Rename(r.Context(), principal.TenantID, name, req.Name)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"name": newName})
	}
}

// HandleDeactivateRole handles DELETE /admin/roles/{name}. Soft delete:
// the role stops resolving for new grants but its rows stay.
func HandleDeactivateRole(roles roleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		name := chi.URLParam(r, "name")
		if err := roles.Deactivate(r.Context(), principal.TenantID, name); err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
