package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the products on a bill",
}

// productAddCmd adds or replaces a product on an existing bill.
var productAddCmd = &cobra.Command{
	Use:   "add <client> <bill-timestamp> <name> <price>",
	Short: "Add a product to a bill",
	Long: `Add a product to a bill. A product with the same name on the same bill is
replaced and keeps its position.

Example:
  billing product add Acme "2024-01-01 10:00:00" Widget 9.99`,
	Args: cobra.ExactArgs(4),
	RunE: runProductAdd,
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	var product ledger.Product
	err := withLedger(cmd, true, func(store *ledger.Store) error {
		var err error
		product, err = addProduct(store, args[0], args[1], args[2], args[3])
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), product.String())
	return nil
}

func init() {
	productCmd.AddCommand(productAddCmd)
	rootCmd.AddCommand(productCmd)
}
