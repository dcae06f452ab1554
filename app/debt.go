package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db/controller/identity"
	"github.com/splitledger/splitledger/internal/db/controller/ledger"
)

func init() { //nolint: gochecknoinits
	debtCmd.AddCommand(debtRecordCmd, debtListCmd)
	rootCmd.AddCommand(debtCmd)
}

var (
	debtCmd = &cobra.Command{
		Use:   "debt",
		Short: "Feed the debt ledger",
	}

	debtRecordCmd = &cobra.Command{
		Use:   "record <debtor> <creditor> <amount>",
		Short: "Record that debtor owes creditor amount (in cents)",
		Long: `Record a debt edge. Debtor and creditor are usernames or email addresses,
amount is a positive integer in the smallest currency unit.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			return withDB(func(gormDB *gorm.DB) error {
				debtorID, err := identity.ResolveID(gormDB, identity.ByHandle(args[0]))
				if err != nil {
					return fmt.Errorf("debtor %s: %w", args[0], err)
				}

				creditorID, err := identity.ResolveID(gormDB, identity.ByHandle(args[1]))
				if err != nil {
					return fmt.Errorf("creditor %s: %w", args[1], err)
				}

				debt, err := ledger.RecordDebt(gormDB, debtorID, creditorID, amount)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "recorded debt %d: %s owes %s %d\n",
					debt.ID, args[0], args[1], debt.Amount)

				return err
			})
		},
	}
)

var debtListCmd = &cobra.Command{
	Use:   "list <group-id>",
	Short: "List the debts between the current members of a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid group id %q: %w", args[0], err)
		}

		return withDB(func(gormDB *gorm.DB) error {
			debts, err := ledger.EdgesWithinGroup(gormDB, groupID)
			if err != nil {
				return err
			}

			for _, d := range debts {
				if _, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d -> %d\t%d\n",
					d.ID, d.DebtorID, d.CreditorID, d.Amount); err != nil {
					return err
				}
			}

			return nil
		})
	},
}
