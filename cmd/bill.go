// =============================================================================
// Billing Ledger - Bill Commands
// =============================================================================
//
// COMMAND USAGE:
//   billing bill add <client> [--at "YYYY-MM-DD HH:MM:SS"]
//   billing bill list <client>
//
// A bill is keyed by its timestamp truncated to whole seconds. Adding a bill
// at a second that already has one replaces it with an empty bill. A csv
// ledger cannot store an empty bill, so there bills are added in 'session'.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
)

// billAt is the --at flag of 'bill add'. Empty means now.
var billAt string

var billCmd = &cobra.Command{
	Use:   "bill",
	Short: "Manage a client's bills",
}

var billAddCmd = &cobra.Command{
	Use:   "add <client>",
	Short: "Add a bill to an existing client",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillAdd,
}

var billListCmd = &cobra.Command{
	Use:   "list <client>",
	Short: "List a client's bills",
	Args:  cobra.ExactArgs(1),
	RunE:  runBillList,
}

func runBillAdd(cmd *cobra.Command, args []string) error {
	// A new bill has no products yet, and would replace any bill at the same
	// second with an empty one.
	if csvLedger() {
		return unstoredError(fmt.Sprintf("bill for client %q", args[0]))
	}

	var bill *ledger.Bill
	err := withLedger(cmd, true, func(store *ledger.Store) error {
		var err error
		bill, err = addBill(store, args[0], billAt)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), bill.String())
	return nil
}

func runBillList(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, false, func(store *ledger.Store) error {
		client, err := store.Client(args[0])
		if err != nil {
			return err
		}
		for _, b := range client.Bills() {
			fmt.Fprintln(cmd.OutOrStdout(), b.String())
		}
		return nil
	})
}

func init() {
	billAddCmd.Flags().StringVar(&billAt, "at", "", `Bill timestamp "YYYY-MM-DD HH:MM:SS" (default now)`)

	billCmd.AddCommand(billAddCmd, billListCmd)
	rootCmd.AddCommand(billCmd)
}
