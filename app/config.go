package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/splitledger/splitledger/internal/config"
)

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&configAsJSON, "json", false, "print the configuration as JSON")

	rootCmd.AddCommand(configCmd)
}

var (
	configAsJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration (file merged with the environment override)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dump := config.DumpConfig
			if configAsJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}
)
