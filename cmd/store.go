package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
	"github.com/ginjaninja78/billing-ledger/internal/storage"
)

// withLedger opens the configured backend, loads the ledger and hands it to
// fn. When mutate is set and fn succeeds the ledger is saved; a failed action
// leaves the stored ledger untouched.
func withLedger(cmd *cobra.Command, mutate bool, fn func(store *ledger.Store) error) error {
	ctx := cmd.Context()
	logger := slog.Default()

	backend, err := storage.Open(cfg.Ledger, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	store, err := backend.Load(ctx)
	if err != nil {
		logger.Error("Failed to load ledger", "path", cfg.Ledger.Path, "error", err)
		return err
	}

	if err := fn(store); err != nil {
		return err
	}
	if !mutate {
		return nil
	}

	if err := backend.Save(ctx, store); err != nil {
		logger.Error("Failed to save ledger", "path", cfg.Ledger.Path, "error", err)
		return err
	}
	return nil
}
