package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gestormatic/loginapi/internal/auth"
	"github.com/gestormatic/loginapi/internal/services/admin"
	"github.com/gestormatic/loginapi/internal/supabase"
)

// Wire error kinds. Clients switch on these rather than parsing messages.
const (
	kindInvalidToken    = "invalid_token"
	kindMissingTenant   = "missing_tenant"
	kindForbidden       = "forbidden"
	kindCrossTenant     = "cross_tenant"
	kindInvalidRequest  = "invalid_request"
	kindRoleNotFound    = "role_not_found"
	kindUpstream        = "upstream_unavailable"
	kindUnauthenticated = "unauthenticated"
	kindNotFound        = "not_found"
	kindInternal        = "internal"
)

// InvalidTokenResponder renders rejected bearer tokens in the shared error
// payload shape. Installed on the verifier by the serve command.
func InvalidTokenResponder(w http.ResponseWriter, _ *http.Request, _ error) {
	writeError(w, http.StatusUnauthorized, kindInvalidToken, "invalid or expired token")
}

// errorPayload is the shape of every error response body.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError renders one error payload with the given status.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorPayload{Error: kind, Message: message})
}

// writeServiceError maps known service-layer errors onto the wire taxonomy.
// Anything unrecognised becomes a logged 500 with a generic payload so
// internal details never reach the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrRoleRequired):
		writeError(w, http.StatusForbidden, kindForbidden, "Admin role required")
	case errors.Is(err, auth.ErrCrossTenant):
		writeError(w, http.StatusForbidden, kindCrossTenant, "cannot act on another tenant")
	case errors.Is(err, auth.ErrTenantRequired):
		writeError(w, http.StatusForbidden, kindMissingTenant, "no tenant in request context")
	case errors.Is(err, admin.ErrRoleNotFound):
		writeError(w, http.StatusBadRequest, kindRoleNotFound, err.Error())
	case errors.Is(err, supabase.ErrUpstream):
		writeError(w, http.StatusBadGateway, kindUpstream, "identity provider unavailable")
	default:
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
	}
}
