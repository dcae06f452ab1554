package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/auth"
)

func init() { //nolint: gochecknoinits
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address of the user (required)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "initial password of the user (required)")
	_ = userAddCmd.MarkFlagRequired("email")    //nolint:errcheck
	_ = userAddCmd.MarkFlagRequired("password") //nolint:errcheck

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	userEmail    string
	userPassword string

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage local user accounts",
	}

	userAddCmd = &cobra.Command{
		Use:   "add <username>",
		Short: "Create an active local user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(gormDB *gorm.DB) error {
				user, err := auth.NewLocalProvider(gormDB).CreateUser(args[0], userEmail, userPassword)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %s with id %d\n", user.Username, user.ID)

				return err
			})
		},
	}
)
