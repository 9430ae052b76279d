package iam

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gestormatic/loginapi/internal/config"
	"github.com/gestormatic/loginapi/internal/db/bunx"
	"github.com/gestormatic/loginapi/internal/services/admin"
	"github.com/gestormatic/loginapi/internal/supabase"
)

var (
	subject  string
	tenantID string
)

// bootstrapCmd seeds an administrator without going through the
// admin-gated HTTP API.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Seed an administrator for a tenant",
	Long: `Create the named roles in a tenant and grant them to a subject.

The subject is the identity provider's user id. The run is idempotent:
roles upsert by name, the user upserts by subject, and the grant set is
replaced wholesale, so re-running repairs a broken admin rather than
duplicating rows.

Example:
  loginapi iam bootstrap \
    --subject 7f9c2ba4-e88f-11ed-a05b-0242ac120003 \
    --tenant acme \
    --role admin
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if subject == "" {
			return fmt.Errorf("--subject is required (identity provider user id)")
		}
		if tenantID == "" {
			return fmt.Errorf("--tenant is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		idp, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey)
		if err != nil {
			return fmt.Errorf("configure identity-provider client: %w", err)
		}

		bootstrapCfg := config.BootstrapConfig{
			Enabled:  true,
			Subject:  subject,
			TenantID: tenantID,
			Roles:    rolesInput,
		}

		fmt.Printf("Bootstrapping subject '%s' in tenant '%s'\n", subject, tenantID)

		claims := admin.NewClaimsService(db, idp)
		if err := admin.Bootstrap(ctx, bootstrapCfg, db, claims); err != nil {
			return err
		}

		fmt.Println("✓ Bootstrap complete")
		fmt.Println("\nFreshly issued tokens for this subject now carry the granted roles.")
		return nil
	},
}

func init() {
	bootstrapCmd.Flags().StringVar(&subject, "subject", "", "Identity provider user id of the administrator")
	bootstrapCmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant the administrator belongs to")
	_ = bootstrapCmd.MarkFlagRequired("subject")
	_ = bootstrapCmd.MarkFlagRequired("tenant")
}
