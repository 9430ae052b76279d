// Package supabase is a thin client for the parts of the Supabase auth API
// this service consumes: the admin user-metadata endpoint and the
// password-grant sign-in endpoint. Token issuance itself stays with the
// provider.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstream is returned when the identity provider cannot be reached or
// returns an unusable response. Callers surface it as a gateway failure;
// retrying is left to them.
var ErrUpstream = errors.New("identity provider unavailable")

// StatusError carries a non-2xx provider response so the sign-in proxy can
// relay the provider's own status and body verbatim.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("identity provider returned status %d", e.StatusCode)
}

// Client calls the Supabase auth API with the service role credential.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient validates the provider settings and builds a client. Both the
// base URL and the service role key are required; a missing one is a
// configuration error that should stop startup.
func NewClient(baseURL, serviceRoleKey string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if strings.TrimSpace(serviceRoleKey) == "" {
		return nil, fmt.Errorf("supabase service role key is required")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceRoleKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// UpdateAppMetadata pushes the authoritative tenant and role list for a
// subject to the provider's admin API, so freshly issued tokens carry the
// new claims.
func (c *Client) UpdateAppMetadata(ctx context.Context, subject, tenantID string, roles []string) error {
	if roles == nil {
		roles = []string{}
	}
	payload := map[string]any{
		"app_metadata": map[string]any{
			"tenant_id": tenantID,
			"roles":     roles,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal app_metadata payload: %w", err)
	}

	endpoint := c.baseURL + "/auth/v1/admin/users/" + url.PathEscape(subject)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build admin request: %w", err)
	}
	c.setAdminHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update app_metadata for %s: %w", subject, ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("update app_metadata for %s: status %d: %w", subject, resp.StatusCode, ErrUpstream)
	}
	return nil
}

// SignInWithPassword proxies the provider's password-grant token endpoint.
//
// A 2xx provider response is returned verbatim as a decoded JSON object. A
// non-2xx response comes back as a StatusError holding the provider's
// status and body, so the caller can relay both. Transport failures and
// empty bodies map to ErrUpstream.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (map[string]any, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal sign-in payload: %w", err)
	}

	endpoint := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	c.setPublicHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", ErrUpstream)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sign-in response: %w", ErrUpstream)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if len(respBody) == 0 {
		return nil, fmt.Errorf("sign in returned empty response: %w", ErrUpstream)
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", ErrUpstream)
	}
	return result, nil
}

func (c *Client) setAdminHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	// The service key travels as both a bearer token and an API key header,
	// matching what the provider's admin endpoints expect.
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}

func (c *Client) setPublicHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	// Sign-in runs with the project API key alone. The admin bearer
	// credential must never ride a user-facing request.
	req.Header.Set("apikey", c.serviceKey)
}
