// =============================================================================
// Billing Ledger - Show Command
// =============================================================================
//
// This file defines the 'show' command, a read-only view of the whole ledger.
//
// COMMAND USAGE:
//   billing show [--format text|yaml]
//
// TEXT OUTPUT:
//   Clients
//     Acme
//       2024-01-01 10:00:00
//         Widget ($9.99)
//         Gadget ($19.50)
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
)

// Output formats for 'show'.
const (
	formatText = "text"
	formatYAML = "yaml"
)

// showFormat is the --format flag.
var showFormat string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show clients, bills and products as a tree",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

// =============================================================================
// YAML VIEW
// =============================================================================

type productView struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type billView struct {
	At       string        `yaml:"at"`
	Products []productView `yaml:"products"`
}

type clientView struct {
	Name  string     `yaml:"name"`
	Bills []billView `yaml:"bills"`
}

type ledgerView struct {
	Clients []clientView `yaml:"clients"`
}

func newLedgerView(store *ledger.Store) ledgerView {
	var view ledgerView
	for _, c := range store.Clients() {
		cv := clientView{Name: c.Name()}
		for _, b := range c.Bills() {
			bv := billView{At: b.String()}
			for _, p := range b.Products() {
				bv.Products = append(bv.Products, productView{Name: p.Name, Price: ledger.FormatPrice(p.Price)})
			}
			cv.Bills = append(cv.Bills, bv)
		}
		view.Clients = append(view.Clients, cv)
	}
	return view
}

// =============================================================================
// RENDERING
// =============================================================================

func runShow(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(showFormat)
	if format != formatText && format != formatYAML {
		return fmt.Errorf("unknown format %q (want %q or %q)", showFormat, formatText, formatYAML)
	}

	return withLedger(cmd, false, func(store *ledger.Store) error {
		if format == formatYAML {
			return writeYAML(cmd.OutOrStdout(), store)
		}
		writeTree(cmd.OutOrStdout(), store)
		return nil
	})
}

func writeTree(w io.Writer, store *ledger.Store) {
	fmt.Fprintln(w, "Clients")
	for _, c := range store.Clients() {
		fmt.Fprintf(w, "  %s\n", c.Name())
		for _, b := range c.Bills() {
			fmt.Fprintf(w, "    %s\n", b)
			for _, p := range b.Products() {
				fmt.Fprintf(w, "      %s\n", p)
			}
		}
	}
}

func writeYAML(w io.Writer, store *ledger.Store) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newLedgerView(store)); err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	return enc.Close()
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", formatText, "Output format: text or yaml")
	rootCmd.AddCommand(showCmd)
}
