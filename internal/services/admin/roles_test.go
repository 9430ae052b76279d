package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestormatic/loginapi/internal/auth"
)

func TestRoleService(t *testing.T) {
	ctx := tenantCtx("acme")

	t.Run("create and list", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		_, err := svc.Create(ctx, "acme", "viewer")
		require.NoError(t, err)
		_, err = svc.Create(ctx, "acme", "admin")
		require.NoError(t, err)
		_, err = svc.Create(tenantCtx("globex"), "globex", "admin")
		require.NoError(t, err)

		names, err := svc.List(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin", "viewer"}, names)
	})

	t.Run("create is idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		_, err := svc.Create(ctx, "acme", "admin")
		require.NoError(t, err)
		_, err = svc.Create(ctx, "acme", "admin")
		require.NoError(t, err)

		names, err := svc.List(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, names)
	})

	t.Run("create reactivates a deactivated role", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		_, err := svc.Create(ctx, "acme", "admin")
		require.NoError(t, err)
		require.NoError(t, svc.Deactivate(ctx, "acme", "admin"))

		names, err := svc.List(ctx, "acme")
		require.NoError(t, err)
		assert.Empty(t, names)

		_, err = svc.Create(ctx, "acme", "admin")
		require.NoError(t, err)

		names, err = svc.List(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, names)
	})

	t.Run("rename", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		_, err := svc.Create(ctx, "acme", "operator")
		require.NoError(t, err)

		name, err := svc.Rename(ctx, "acme", "operator", "maintainer")
		require.NoError(t, err)
		assert.Equal(t, "maintainer", name)

		names, err := svc.List(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"maintainer"}, names)
	})

	t.Run("rename of missing role", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		_, err := svc.Rename(ctx, "acme", "ghost", "other")
		assert.ErrorIs(t, err, ErrRoleNotFound)
	})

	t.Run("deactivate of missing role", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		err := svc.Deactivate(ctx, "acme", "ghost")
		assert.ErrorIs(t, err, ErrRoleNotFound)
	})

	t.Run("unbound tenant context is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		_, err := svc.Create(context.Background(), "acme", "admin")
		assert.ErrorIs(t, err, auth.ErrTenantRequired)
		_, err = svc.List(context.Background(), "acme")
		assert.ErrorIs(t, err, auth.ErrTenantRequired)
	})

	t.Run("context bound to another tenant is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewRoleService(db)

		_, err := svc.Create(tenantCtx("globex"), "acme", "admin")
		assert.ErrorIs(t, err, auth.ErrCrossTenant)
		_, err = svc.Rename(ctx, "globex", "admin", "root")
		assert.ErrorIs(t, err, auth.ErrCrossTenant)
		err = svc.Deactivate(tenantCtx("globex"), "acme", "admin")
		assert.ErrorIs(t, err, auth.ErrCrossTenant)
	})
}
