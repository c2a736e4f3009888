// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/oqba26/monthlypay/internal/models"
	"github.com/oqba26/monthlypay/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// Mutations are serialized by mu for the full delete+insert span of a
// replace, so two reconciliations can never interleave their phases.
// Readers go straight to the database and rely on SQLite snapshot
// isolation.
type SQLiteStore struct {
	db *sql.DB

	mu  sync.Mutex
	hub *hub
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, hub: newHub()}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Subscribe registers a change listener. The returned channel gets a
// coalesced signal after every committed persons/payments replace; settings
// writes do not signal.
func (s *SQLiteStore) Subscribe() (<-chan struct{}, func()) {
	return s.hub.subscribe()
}

// ReplaceAll wipes the persons and payments tables and inserts the given
// rows, all inside one transaction. Subscribers are notified only after
// the commit, so no observer ever sees the intermediate empty state.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, persons []models.Person, payments []models.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM payments"); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM persons"); err != nil {
		return fmt.Errorf("failed to delete persons: %w", err)
	}

	for i := range persons {
		if err := insertPerson(ctx, tx, &persons[i]); err != nil {
			return err
		}
	}
	for i := range payments {
		if err := insertPayment(ctx, tx, &payments[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.hub.notify()
	return nil
}
