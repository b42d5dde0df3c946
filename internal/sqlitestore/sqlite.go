// Package sqlitestore persists the ledger in a SQLite database.
//
// Unlike the CSV format, the tables keep clients and bills that have no
// products yet. Each save rewrites every table inside one transaction.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/ginjaninja78/billing-ledger/internal/ledger"
	"github.com/ginjaninja78/billing-ledger/pkg/utils"
)

// SQLiteStore loads and saves a ledger.Store in a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// New opens the database at dbPath, creating its directory and tables when
// needed.
func New(dbPath string) (*SQLiteStore, error) {
	if err := utils.EnsureParentDir(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection, so the pragma below applies to every statement.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type billKey struct {
	client, bill int64
}

// Load reads the whole ledger. An empty database yields an empty Store.
func (s *SQLiteStore) Load(ctx context.Context) (*ledger.Store, error) {
	store := ledger.New()

	clients := make(map[int64]*ledger.Client)
	rows, err := s.db.QueryContext(ctx, "SELECT position, name FROM clients ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	for rows.Next() {
		var pos int64
		var name string
		if err := rows.Scan(&pos, &name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients[pos] = store.GetOrCreateClient(name)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	bills := make(map[billKey]*ledger.Bill)
	rows, err = s.db.QueryContext(ctx,
		"SELECT client_position, position, billed_at FROM bills ORDER BY client_position, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	for rows.Next() {
		var key billKey
		var billedAt string
		if err := rows.Scan(&key.client, &key.bill, &billedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		at, err := ledger.ParseTimestamp(billedAt)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bills[key] = clients[key.client].AddBill(at)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT client_position, bill_position, name, price FROM products ORDER BY client_position, bill_position, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	for rows.Next() {
		var key billKey
		var name, priceText string
		if err := rows.Scan(&key.client, &key.bill, &name, &priceText); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		price, err := ledger.ParsePrice(priceText)
		if err != nil {
			rows.Close()
			return nil, err
		}
		if _, err := bills[key].AddProduct(name, price); err != nil {
			rows.Close()
			return nil, err
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return store, nil
}

// Save replaces the database contents with store.
func (s *SQLiteStore) Save(ctx context.Context, store *ledger.Store) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"products", "bills", "clients"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for ci, client := range store.Clients() {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO clients (position, name) VALUES (?, ?)",
			ci, client.Name(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert client: %w", err)
		}

		for bi, bill := range client.Bills() {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO bills (client_position, position, billed_at) VALUES (?, ?, ?)",
				ci, bi, ledger.FormatTimestamp(bill.At()),
			)
			if err != nil {
				return fmt.Errorf("failed to insert bill: %w", err)
			}

			for pi, product := range bill.Products() {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO products (client_position, bill_position, position, name, price) VALUES (?, ?, ?, ?, ?)",
					ci, bi, pi, product.Name, product.Price.String(),
				)
				if err != nil {
					return fmt.Errorf("failed to insert product: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate rows: %w", err)
	}
	return rows.Close()
}
