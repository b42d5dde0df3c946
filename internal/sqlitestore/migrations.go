package sqlitestore

import "database/sql"

// schema holds the ledger tables. Positions record insertion order at each
// level of the tree and double as keys.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
    position INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS bills (
    client_position INTEGER NOT NULL,
    position INTEGER NOT NULL,
    billed_at TEXT NOT NULL,
    PRIMARY KEY (client_position, position),
    FOREIGN KEY (client_position) REFERENCES clients(position) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS products (
    client_position INTEGER NOT NULL,
    bill_position INTEGER NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    price TEXT NOT NULL,
    PRIMARY KEY (client_position, bill_position, position),
    FOREIGN KEY (client_position, bill_position) REFERENCES bills(client_position, position) ON DELETE CASCADE
);
`

// runMigrations creates the tables if they do not exist yet.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
