// Package storage selects and wraps the ledger persistence backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ginjaninja78/billing-ledger/internal/config"
	"github.com/ginjaninja78/billing-ledger/internal/csvstore"
	"github.com/ginjaninja78/billing-ledger/internal/ledger"
	"github.com/ginjaninja78/billing-ledger/internal/sqlitestore"
)

// Backend loads and saves the whole ledger.
type Backend interface {
	Load(ctx context.Context) (*ledger.Store, error)
	Save(ctx context.Context, store *ledger.Store) error
	Close() error
}

// Open returns the backend named by cfg.Backend.
func Open(cfg config.LedgerConfig, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.BackendCSV, "":
		return &csvBackend{path: cfg.Path, logger: logger}, nil
	case config.BackendSQLite:
		db, err := sqlitestore.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite ledger: %w", err)
		}
		return &sqliteBackend{db: db, path: cfg.Path, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported ledger backend: %s", cfg.Backend)
	}
}

// csvBackend persists the ledger as delimited text.
type csvBackend struct {
	path   string
	logger *slog.Logger
}

func (b *csvBackend) Load(ctx context.Context) (*ledger.Store, error) {
	store, err := csvstore.Load(b.path)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("Loaded ledger", "backend", config.BackendCSV, "path", b.path, "clients", store.Len())
	return store, nil
}

func (b *csvBackend) Save(ctx context.Context, store *ledger.Store) error {
	if err := csvstore.Save(b.path, store); err != nil {
		return err
	}
	b.logger.Debug("Saved ledger", "backend", config.BackendCSV, "path", b.path, "clients", store.Len())
	return nil
}

func (b *csvBackend) Close() error { return nil }

// sqliteBackend persists the ledger in SQLite tables.
type sqliteBackend struct {
	db     *sqlitestore.SQLiteStore
	path   string
	logger *slog.Logger
}

func (b *sqliteBackend) Load(ctx context.Context) (*ledger.Store, error) {
	store, err := b.db.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", b.path, err)
	}
	b.logger.Debug("Loaded ledger", "backend", config.BackendSQLite, "path", b.path, "clients", store.Len())
	return store, nil
}

func (b *sqliteBackend) Save(ctx context.Context, store *ledger.Store) error {
	if err := b.db.Save(ctx, store); err != nil {
		return fmt.Errorf("failed to save %s: %w", b.path, err)
	}
	b.logger.Debug("Saved ledger", "backend", config.BackendSQLite, "path", b.path, "clients", store.Len())
	return nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
