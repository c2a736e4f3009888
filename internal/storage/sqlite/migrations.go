package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Note: payments.person_id carries no foreign key; reconciliation tolerates
// orphaned payments as stale data rather than rejecting a snapshot.
const schema = `
CREATE TABLE IF NOT EXISTS persons (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    user_id TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    person_id TEXT NOT NULL,
    amount REAL NOT NULL,
    shamsi_year INTEGER NOT NULL,
    shamsi_month INTEGER NOT NULL,
    timestamp INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payments_person_id ON payments(person_id);
CREATE INDEX IF NOT EXISTS idx_payments_period ON payments(shamsi_year, shamsi_month);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
