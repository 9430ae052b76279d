package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with supabase URL", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://proj.supabase.co")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost:8080", cfg.ServerAddr)
		assert.Equal(t, 25, cfg.MaxDBConnections)
		assert.False(t, cfg.Debug)
		assert.False(t, cfg.Bootstrap.Enabled)
	})

	t.Run("fails without any JWKS source", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "")
		t.Setenv("SUPABASE_JWKS_URL", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUPABASE_JWKS_URL")
	})

	t.Run("explicit values", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
		t.Setenv("SERVER_ADDR", "0.0.0.0:9000")
		t.Setenv("MAX_DB_CONNECTIONS", "5")
		t.Setenv("DEBUG", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:9000", cfg.ServerAddr)
		assert.Equal(t, 5, cfg.MaxDBConnections)
		assert.True(t, cfg.Debug)
	})

	t.Run("incomplete bootstrap is fatal", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
		t.Setenv("BOOTSTRAP_ENABLED", "true")
		t.Setenv("BOOTSTRAP_SUBJECT", "sub-1")
		t.Setenv("BOOTSTRAP_TENANT_ID", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BOOTSTRAP_TENANT_ID")
	})

	t.Run("bootstrap role list parsing", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
		t.Setenv("BOOTSTRAP_ENABLED", "true")
		t.Setenv("BOOTSTRAP_SUBJECT", "sub-1")
		t.Setenv("BOOTSTRAP_TENANT_ID", "acme")
		t.Setenv("BOOTSTRAP_ROLES", "admin, auditor, ,viewer")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"admin", "auditor", "viewer"}, cfg.Bootstrap.Roles)
	})
}

func TestResolveJWKSURL(t *testing.T) {
	t.Run("explicit JWKS URL wins", func(t *testing.T) {
		cfg := SupabaseConfig{
			URL:     "https://proj.supabase.co",
			JWKSURL: "https://other.example/keys",
		}
		url, err := cfg.ResolveJWKSURL()
		require.NoError(t, err)
		assert.Equal(t, "https://other.example/keys", url)
	})

	t.Run("derived from base URL", func(t *testing.T) {
		cfg := SupabaseConfig{URL: "https://proj.supabase.co/"}
		url, err := cfg.ResolveJWKSURL()
		require.NoError(t, err)
		assert.Equal(t, "https://proj.supabase.co/auth/v1/.well-known/jwks.json", url)
	})

	t.Run("neither configured", func(t *testing.T) {
		cfg := SupabaseConfig{}
		_, err := cfg.ResolveJWKSURL()
		assert.Error(t, err)
	})
}
