package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gestormatic/loginapi/internal/auth"
	"github.com/gestormatic/loginapi/internal/services/profile"
	"github.com/gestormatic/loginapi/internal/supabase"
)

// signInClient is the slice of the provider client the sign-in proxy needs.
type signInClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (map[string]any, error)
}

// profileService resolves the authenticated caller's profile.
type profileService interface {
	GetProfile(ctx context.Context, principal *auth.Principal) (*profile.Profile, error)
}

// HandleHealth handles GET /auth/health. Reachable without credentials.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleSignIn handles POST /auth/signin.
//
// This is a pure proxy to the identity provider's password grant: a 2xx
// provider response (tokens and all) is relayed verbatim, and a provider
// rejection is relayed with the provider's own status and body so clients
// see the same error they would get talking to the provider directly.
func HandleSignIn(client signInClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "malformed request body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "email and password are required")
			return
		}

		result, err := client.SignInWithPassword(r.Context(), req.Email, req.Password)
		if err != nil {
			var statusErr *supabase.StatusError
			if errors.As(err, &statusErr) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(statusErr.StatusCode)
				_, _ = w.Write(statusErr.Body)
				return
			}
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// HandleMe handles GET /auth/me, returning the caller's profile with the
// effective role set. Anonymous requests get 401; an authenticated subject
// that has never been synced locally gets 404.
func HandleMe(profiles profileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, kindUnauthenticated, "authentication required")
			return
		}

		p, err := profiles.GetProfile(r.Context(), principal)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, kindNotFound, "no profile for subject")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p)
	}
}
