// =============================================================================
// Billing Ledger - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes one bill into a copy
// of the configured XLSX template.
//
// COMMAND USAGE:
//   billing export <client> <bill-timestamp> [--output <file>]
//
// The output defaults to <output_dir>/<YYYY-MM-DD_HH-MM-SS>.xlsx, named after
// the bill's timestamp. The ledger itself is never modified.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
)

// exportOutput is the --output flag. Empty means the default file name.
var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <client> <bill-timestamp>",
	Short: "Export a bill to a spreadsheet",
	Args:  cobra.ExactArgs(2),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	var written string
	err := withLedger(cmd, false, func(store *ledger.Store) error {
		var err error
		written, err = exportBill(store, args[0], args[1], exportOutput)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), written)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default <output_dir>/<bill timestamp>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
