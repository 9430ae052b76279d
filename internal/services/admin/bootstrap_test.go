package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestormatic/loginapi/internal/config"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds roles and the administrator", func(t *testing.T) {
		db := setupTestDB(t)
		pusher := &mockPusher{}
		claims := NewClaimsService(db, pusher)

		cfg := config.BootstrapConfig{
			Enabled:  true,
			Subject:  "sub-admin",
			TenantID: "acme",
		}
		require.NoError(t, Bootstrap(ctx, cfg, db, claims))

		assert.Equal(t, []string{"admin"}, grantedRoles(t, db, "acme", "sub-admin"))

		names, err := NewRoleService(db).List(tenantCtx("acme"), "acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, names)

		require.Len(t, pusher.pushes, 1)
		assert.Equal(t, []string{"admin"}, pusher.pushes[0].Roles)
	})

	t.Run("custom role list", func(t *testing.T) {
		db := setupTestDB(t)
		claims := NewClaimsService(db, &mockPusher{})

		cfg := config.BootstrapConfig{
			Enabled:  true,
			Subject:  "sub-admin",
			TenantID: "acme",
			Roles:    []string{"admin", "auditor"},
		}
		require.NoError(t, Bootstrap(ctx, cfg, db, claims))

		assert.Equal(t, []string{"admin", "auditor"}, grantedRoles(t, db, "acme", "sub-admin"))
	})

	t.Run("idempotent across repeated runs", func(t *testing.T) {
		db := setupTestDB(t)
		claims := NewClaimsService(db, &mockPusher{})

		cfg := config.BootstrapConfig{
			Enabled:  true,
			Subject:  "sub-admin",
			TenantID: "acme",
		}
		for i := 0; i < 3; i++ {
			require.NoError(t, Bootstrap(ctx, cfg, db, claims))
		}

		assert.Equal(t, []string{"admin"}, grantedRoles(t, db, "acme", "sub-admin"))

		names, err := NewRoleService(db).List(tenantCtx("acme"), "acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, names)
	})

	t.Run("disabled is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		pusher := &mockPusher{}
		claims := NewClaimsService(db, pusher)

		require.NoError(t, Bootstrap(ctx, config.BootstrapConfig{}, db, claims))

		assert.Nil(t, grantedRoles(t, db, "acme", "sub-admin"))
		assert.Empty(t, pusher.pushes)
	})

	t.Run("incomplete settings fail", func(t *testing.T) {
		db := setupTestDB(t)
		claims := NewClaimsService(db, &mockPusher{})

		cfg := config.BootstrapConfig{Enabled: true, Subject: "sub-admin"}
		assert.Error(t, Bootstrap(ctx, cfg, db, claims))
	})
}
