package cmd

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
	"github.com/ginjaninja78/billing-ledger/internal/xlsxexport"
)

// The functions below are the ledger actions shared by the one-shot commands
// and 'billing session'. None of them touch the store on failure.

func addClient(store *ledger.Store, name string) (*ledger.Client, error) {
	if err := ledger.ValidateName("client", name); err != nil {
		return nil, err
	}
	return store.GetOrCreateClient(name), nil
}

// addBill adds a bill to an existing client. An empty stamp means now.
func addBill(store *ledger.Store, clientName, stamp string) (*ledger.Bill, error) {
	at := time.Now()
	if stamp != "" {
		parsed, err := ledger.ParseTimestamp(stamp)
		if err != nil {
			return nil, err
		}
		at = parsed
	}

	client, err := store.Client(clientName)
	if err != nil {
		return nil, err
	}
	return client.AddBill(at), nil
}

func addProduct(store *ledger.Store, clientName, stamp, name, rawPrice string) (ledger.Product, error) {
	if err := ledger.ValidateName("product", name); err != nil {
		return ledger.Product{}, err
	}
	at, err := ledger.ParseTimestamp(stamp)
	if err != nil {
		return ledger.Product{}, err
	}
	price, err := ledger.ParsePrice(rawPrice)
	if err != nil {
		return ledger.Product{}, err
	}

	bill, err := store.Bill(clientName, at)
	if err != nil {
		return ledger.Product{}, err
	}
	return bill.AddProduct(name, price)
}

// exportBill writes a bill with the configured template and returns the path
// written. An empty output means <output_dir>/<bill timestamp>.xlsx.
func exportBill(store *ledger.Store, clientName, stamp, output string) (string, error) {
	at, err := ledger.ParseTimestamp(stamp)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = filepath.Join(cfg.Export.OutputDir, xlsxexport.OutputFileName(at))
	}

	opts := xlsxexport.Options{
		DetailsLabel: cfg.Export.DetailsLabel,
		BillToLabel:  cfg.Export.BillToLabel,
		Logger:       slog.Default(),
	}
	if err := xlsxexport.Export(cfg.Export.TemplatePath, output, clientName, at, store, opts); err != nil {
		return "", err
	}

	slog.Info("Exported bill", "client", clientName, "bill", ledger.FormatTimestamp(at), "output", output)
	return output, nil
}
