// Package server assembles the HTTP surface: the chi router, the auth and
// admin handlers, and the JSON error payloads they share.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	loginmiddleware "github.com/gestormatic/loginapi/internal/middleware"
)

// RouterOptions controls the construction of the HTTP router. The zero
// value is valid; routes are only mounted when their dependency is set.
type RouterOptions struct {
	Verifier      func(http.Handler) http.Handler
	SignInClient  signInClient
	Profiles      profileService
	Claims        claimsService
	Roles         roleService
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
	ExtraRoutes   func(chi.Router)
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the handlers mounted. The router can be tailored via RouterOptions for
// CLI usage, tests, or other entrypoints.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	// Token verification first, then principal/tenant resolution. Routes
	// mounted below see either a tenant-scoped principal or an anonymous
	// request; a tenant-less token never gets past the middleware.
	if opts.Verifier != nil {
		r.Use(opts.Verifier)
	}
	r.Use(loginmiddleware.Principal)

	// Apply custom middleware passed from the caller.
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = HandleHealth
	}
	r.Get("/health", healthHandler)
	r.Get("/auth/health", healthHandler)

	if opts.SignInClient != nil {
		r.Post("/auth/signin", HandleSignIn(opts.SignInClient))
	}
	if opts.Profiles != nil {
		r.Get("/auth/me", HandleMe(opts.Profiles))
	}

	if opts.Claims != nil {
		r.Post("/admin/users/claims", HandleSetClaims(opts.Claims))
		r.Put("/admin/users/{uid}/roles", HandleSetUserRoles(opts.Claims))
	}
	if opts.Roles != nil {
		r.Get("/admin/roles", HandleListRoles(opts.Roles))
		r.Post("/admin/roles", HandleCreateRole(opts.Roles))
		r.Put("/admin/roles/{name}", HandleRenameRole(opts.Roles))
		r.Delete("/admin/roles/{name}", HandleDeactivateRole(opts.Roles))
	}

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r
}

// NewH2CHandler wraps the shared router with an h2c server to provide
// HTTP/2 over cleartext for local development and reverse-proxy setups.
func NewH2CHandler(opts RouterOptions) http.Handler {
	return h2c.NewHandler(NewRouter(opts), &http2.Server{})
}
