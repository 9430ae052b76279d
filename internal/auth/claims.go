package auth

import (
	"errors"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrMissingTenant is returned when verified claims carry no usable
// tenant_id. Tenant isolation is the hard boundary here, so this is a
// failure even though an absent roles claim is not.
var ErrMissingTenant = errors.New("missing tenant_id claim")

// appMetadata is the nested claim object Supabase attaches to its tokens.
// Claims are untrusted input: decoding is tolerant and every field is
// re-checked after the decode.
type appMetadata struct {
	TenantID string `mapstructure:"tenant_id"`
	Roles    []any  `mapstructure:"roles"`
}

// PrincipalFromClaims builds a Principal from a verified claim set.
//
// The tenant id must be a non-blank string inside app_metadata; anything
// else fails with ErrMissingTenant. The roles entry is permissive: a
// missing or non-list value yields an empty role list, and list entries
// that are not non-blank strings are dropped.
func PrincipalFromClaims(claims map[string]any) (*Principal, error) {
	var meta appMetadata
	if raw, ok := claims["app_metadata"]; ok {
		// A wrong-shaped app_metadata decodes to the zero value, which the
		// tenant check below rejects.
		_ = mapstructure.Decode(raw, &meta)
	}

	if strings.TrimSpace(meta.TenantID) == "" {
		return nil, ErrMissingTenant
	}

	subject, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		name = email
	}

	return &Principal{
		Subject:  subject,
		Email:    email,
		Name:     name,
		TenantID: meta.TenantID,
		Roles:    extractRoles(meta.Roles),
	}, nil
}

// extractRoles keeps the non-blank string entries of an untrusted list.
func extractRoles(raw []any) []string {
	roles := make([]string, 0, len(raw))
	for _, item := range raw {
		if role, ok := item.(string); ok && strings.TrimSpace(role) != "" {
			roles = append(roles, role)
		}
	}
	return roles
}
