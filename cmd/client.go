// =============================================================================
// Billing Ledger - Client Commands
// =============================================================================
//
// COMMAND USAGE:
//   billing client add <name>    Create a client (no-op if it already exists)
//                                On a csv ledger only existing clients are
//                                accepted; new ones go through 'session'.
//   billing client list          List client names in insertion order
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/config"
	"github.com/ginjaninja78/billing-ledger/internal/ledger"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
}

var clientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a client",
	Args:  cobra.ExactArgs(1),
	RunE:  runClientAdd,
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	Args:  cobra.NoArgs,
	RunE:  runClientList,
}

func runClientAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	csvOnly := csvLedger()

	var client *ledger.Client
	err := withLedger(cmd, !csvOnly, func(store *ledger.Store) error {
		if err := ledger.ValidateName("client", name); err != nil {
			return err
		}
		// A client read from a csv ledger already has products; a new one
		// would not be written.
		if csvOnly {
			if _, err := store.Client(name); err != nil {
				return unstoredError(fmt.Sprintf("client %q", name))
			}
		}
		var err error
		client, err = addClient(store, name)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), client.Name())
	return nil
}

func runClientList(cmd *cobra.Command, args []string) error {
	return withLedger(cmd, false, func(store *ledger.Store) error {
		for _, c := range store.Clients() {
			fmt.Fprintln(cmd.OutOrStdout(), c.Name())
		}
		return nil
	})
}

// ErrNeedsSession is returned by one-shot commands whose result a csv ledger
// cannot store on its own.
var ErrNeedsSession = errors.New("the csv ledger only stores products")

func csvLedger() bool {
	return cfg.Ledger.Backend == config.BackendCSV
}

func unstoredError(what string) error {
	return fmt.Errorf("%w: %s would not be saved; create it together with its products in 'billing session' or use the sqlite backend",
		ErrNeedsSession, what)
}

func init() {
	clientCmd.AddCommand(clientAddCmd, clientListCmd)
	rootCmd.AddCommand(clientCmd)
}
