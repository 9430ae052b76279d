package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/gestormatic/loginapi/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260115000001, down_20260115000001)
}

// up_20260115000001 creates the tenant-scoped auth tables: users, roles, and
// user_roles grants.
func up_20260115000001(ctx context.Context, db *bun.DB) error {
	// 1. Create users table
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	// Each provider subject maps to at most one row per tenant
	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_tenant_subject ON users(tenant_id, auth_subject)`)
	if err != nil {
		return fmt.Errorf("failed to create users tenant/subject index: %w", err)
	}
	fmt.Println(" OK")

	// 2. Create roles table
	fmt.Print(" [up] creating roles table...")
	_, err = db.NewCreateTable().
		Model((*models.Role)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create roles table: %w", err)
	}

	// Role names are unique per tenant; deactivated rows keep the name
	// reserved so re-creation reactivates instead of duplicating
	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_roles_tenant_name ON roles(tenant_id, name)`)
	if err != nil {
		return fmt.Errorf("failed to create roles tenant/name index: %w", err)
	}
	fmt.Println(" OK")

	// 3. Create user_roles table
	fmt.Print(" [up] creating user_roles table...")
	_, err = db.NewCreateTable().
		Model((*models.UserRole)(nil)).
		IfNotExists().
		ForeignKey(`(user_id) REFERENCES users (id)`).
		ForeignKey(`(role_id) REFERENCES roles (id)`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user_roles table: %w", err)
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_roles_user_role ON user_roles(user_id, role_id)`)
	if err != nil {
		return fmt.Errorf("failed to create user_roles unique index: %w", err)
	}

	// Grant replacement deletes by user, so index the FK
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_roles_user ON user_roles(user_id)`)
	if err != nil {
		return fmt.Errorf("failed to create user_roles user index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20260115000001 drops the auth tables in dependency order
func down_20260115000001(ctx context.Context, db *bun.DB) error {
	for _, table := range []string{"user_roles", "roles", "users"} {
		fmt.Printf(" [down] dropping %s table...", table)
		_, err := db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table))
		if err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table, err)
		}
		fmt.Println(" OK")
	}
	return nil
}
