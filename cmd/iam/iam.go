// Package iam holds the operator-facing identity management commands.
package iam

import (
	"github.com/spf13/cobra"
)

var (
	rolesInput []string
)

// IamCmd is the parent command for iam operations
var IamCmd = &cobra.Command{
	Use:   "iam",
	Short: "Manage tenant administrators and role grants",
	Long:  `Commands for seeding and repairing tenant administrator accounts.`,
}

func init() {
	IamCmd.AddCommand(bootstrapCmd)
	bootstrapCmd.Flags().StringSliceVar(&rolesInput, "role", []string{}, "Role(s) to grant the administrator (default: admin)")
}
