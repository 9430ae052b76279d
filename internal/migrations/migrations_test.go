package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/migrate"

	"github.com/gestormatic/loginapi/internal/db/bunx"
)

func TestAuthTablesMigration(t *testing.T) {
	ctx := context.Background()

	db, err := bunx.NewDB(":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	migrator := migrate.NewMigrator(db, Migrations)
	require.NoError(t, migrator.Init(ctx))

	t.Run("up creates the auth tables", func(t *testing.T) {
		group, err := migrator.Migrate(ctx)
		require.NoError(t, err)
		require.NotZero(t, group.ID)

		for _, table := range []string{"users", "roles", "user_roles"} {
			_, err := db.NewSelect().Table(table).Limit(1).Exec(ctx)
			assert.NoError(t, err, table)
		}
	})

	t.Run("migrate again is a no-op", func(t *testing.T) {
		group, err := migrator.Migrate(ctx)
		require.NoError(t, err)
		assert.Zero(t, group.ID)
	})

	t.Run("down drops the auth tables", func(t *testing.T) {
		group, err := migrator.Rollback(ctx)
		require.NoError(t, err)
		require.NotZero(t, group.ID)

		for _, table := range []string{"users", "roles", "user_roles"} {
			_, err := db.NewSelect().Table(table).Limit(1).Exec(ctx)
			assert.Error(t, err, table)
		}
	})
}
