// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/splitledger/splitledger/internal/config"
)

var (
	configPath string // directory holding main.toml

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "splitledger",
		Short: "splitledger tracks shared expenses and debts inside groups",
		Long: `splitledger is a JSON API for groups of users sharing expenses.
It keeps group memberships, records who owes whom and reports every
member's balance inside a group.`,
		Args: cobra.OnlyValidArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error

			cfg, err = config.ReadConfig(configPath)

			return err
		},
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory containing main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
