// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-inventory-admin",
	Short: "GoInventory-Admin is the accounts and authorization service for the inventory system",
	Long: `GoInventory-Admin is the accounts and authorization service for the
inventory system. It manages users, groups, per-group rule sets, owner
assignment and API tokens through a REST API.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
