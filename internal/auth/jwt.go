package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/gestormatic/loginapi/internal/config"
)

const bearerPrefix = "Bearer "

type claimsContextKey struct{}

// Skipper defines a function to skip authentication for matching requests.
type Skipper func(*http.Request) bool

// ErrorResponder writes token verification failures to the response writer.
type ErrorResponder func(http.ResponseWriter, *http.Request, error)

type verifierOptions struct {
	skipper        Skipper
	errorResponder ErrorResponder
}

// VerifierOption customises the behaviour of the verifier middleware.
type VerifierOption func(*verifierOptions)

// WithSkipper overrides the default skipper used by the verifier.
func WithSkipper(skipper Skipper) VerifierOption {
	return func(o *verifierOptions) {
		if skipper != nil {
			o.skipper = skipper
		}
	}
}

// WithErrorResponder overrides the default error responder used by the verifier.
func WithErrorResponder(responder ErrorResponder) VerifierOption {
	return func(o *verifierOptions) {
		if responder != nil {
			o.errorResponder = responder
		}
	}
}

// NewVerifier constructs a chi-compatible middleware that validates bearer
// JWTs against the configured JWKS.
//
// Key material is resolved once at construction: the configured key-set URL
// or the well-known path derived from the identity provider's base URL.
// Construction fails when neither is available, which is fatal at startup.
//
// Requests without a bearer Authorization header pass through anonymously;
// routes that need authentication must reject anonymous principals
// themselves. A rejected token is terminal for the request, never retried.
func NewVerifier(ctx context.Context, cfg *config.Config, opts ...VerifierOption) (func(http.Handler) http.Handler, error) {
	jwksURL, err := cfg.Supabase.ResolveJWKSURL()
	if err != nil {
		return nil, err
	}

	// jwk.Cache refreshes the key set in the background and handles
	// cache-control headers from the provider.
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL); err != nil {
		return nil, fmt.Errorf("register JWKS URL: %w", err)
	}

	keyfunc := func(token *jwt.Token) (any, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodECDSA, *jwt.SigningMethodRSA:
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("token header missing kid")
		}

		keySet, err := cache.Get(ctx, jwksURL)
		if err != nil {
			return nil, fmt.Errorf("fetch JWKS: %w", err)
		}

		key, found := keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("key id %s not found in JWKS", kid)
		}

		var rawKey any
		if err := key.Raw(&rawKey); err != nil {
			return nil, fmt.Errorf("materialise verification key: %w", err)
		}
		return rawKey, nil
	}

	vOpts := verifierOptions{
		skipper:        defaultSkipper,
		errorResponder: defaultErrorResponder,
	}
	for _, opt := range opts {
		opt(&vOpts)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if vOpts.skipper != nil && vOpts.skipper(r) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				// Anonymous request: no claims attached.
				next.ServeHTTP(w, r)
				return
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, keyfunc, jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				if err == nil {
					err = jwt.ErrTokenUnverifiable
				}
				vOpts.errorResponder(w, r, fmt.Errorf("invalid token: %w", err))
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, map[string]any(claims))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

// ClaimsFromContext returns the verified JWT claims stored on the request
// context, if the request carried a valid bearer token.
func ClaimsFromContext(ctx context.Context) (map[string]any, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(map[string]any)
	return claims, ok
}

// WithClaims attaches a verified claim set to the context. Exposed for the
// authentication middleware's tests.
func WithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

func defaultSkipper(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.Method == http.MethodOptions {
		return true
	}

	path := r.URL.Path

	// Health endpoints stay reachable without credentials.
	publicPrefixes := []string{
		"/auth/health",
		"/health",
	}

	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

func defaultErrorResponder(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, "unauthenticated", http.StatusUnauthorized)
}
