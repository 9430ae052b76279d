package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gestormatic/loginapi/cmd/iam"
	"github.com/gestormatic/loginapi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "loginapi",
	Short: "Multi-tenant login and admin API",
	Long: `loginapi authenticates requests with identity-provider JWTs, scopes
every call to the caller's tenant, and manages role grants for tenant users.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().String("server-addr", "", "Server bind address (env: SERVER_ADDR)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (env: DEBUG)")

	// Add subcommands
	rootCmd.AddCommand(iam.IamCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
