package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/oqba26/monthlypay/internal/models"
	"github.com/oqba26/monthlypay/internal/storage"
)

// Engine performs the atomic full-replace of the local store. It holds no
// state between calls; each operation is a pure transformation plus one
// transactional write.
type Engine struct {
	store  storage.Store
	logger *slog.Logger
}

// NewEngine creates a reconciliation engine over the given store handle.
func NewEngine(store storage.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

// ReconcileAll replaces the entire local state with the incoming snapshot.
//
// Incoming person ids are resolved against the current local set by
// normalized name (see ResolveID), so a person present both before and after
// keeps a stable id and payment references keep resolving. This is a full
// replace, not a diff: anything the remote did not echo back is gone
// afterwards. The remote is the sole source of truth; do not "improve" this
// into an incremental merge.
func (e *Engine) ReconcileAll(ctx context.Context, persons []models.Person, payments []models.PaymentRecord) error {
	current, err := e.store.ListPersons(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current persons: %w", err)
	}
	currentByName := indexByName(current)

	sanitized := make([]models.Person, 0, len(persons))
	for _, p := range persons {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			// Kept, not rejected: an empty name cannot be matched against
			// anything, but discarding the row would drop its payments' anchor.
			e.logger.Warn("reconciling person with empty name", "id", p.ID)
		}
		sanitized = append(sanitized, models.Person{
			ID:        ResolveID(p, currentByName),
			Name:      name,
			UserID:    p.UserID,
			CreatedAt: p.CreatedAt,
		})
	}

	if err := e.store.ReplaceAll(ctx, collapseByID(sanitized), collapsePaymentsByID(payments)); err != nil {
		return fmt.Errorf("failed to replace store contents: %w", err)
	}

	e.logger.Info("reconciled local store", "persons", len(sanitized), "payments", len(payments))
	return nil
}

// Restore replaces the entire local state with a backup snapshot.
//
// Unlike ReconcileAll there is no name matching against current state: a
// backup is an authoritative full snapshot of a single store, so its own ids
// win. Only blank ids get a fresh UUID.
func (e *Engine) Restore(ctx context.Context, snap models.Snapshot) error {
	sanitized := make([]models.Person, 0, len(snap.Persons))
	for _, p := range snap.Persons {
		id := p.ID
		if strings.TrimSpace(id) == "" {
			id = uuid.New().String()
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			e.logger.Warn("restoring person with empty name", "id", id)
		}
		sanitized = append(sanitized, models.Person{
			ID:        id,
			Name:      name,
			UserID:    p.UserID,
			CreatedAt: p.CreatedAt,
		})
	}

	if err := e.store.ReplaceAll(ctx, collapseByID(sanitized), collapsePaymentsByID(snap.Payments)); err != nil {
		return fmt.Errorf("failed to restore store contents: %w", err)
	}

	e.logger.Info("restored local store from backup", "persons", len(sanitized), "payments", len(snap.Payments))
	return nil
}

// collapseByID merges records that resolved to the same id into one row, the
// later record winning. A snapshot can legitimately carry such duplicates: an
// id-bearing person plus a legacy id-less copy whose name matches the same
// local row. Without the collapse the insert would hit the primary key and
// fail the whole replace, wedging every later refresh of the same snapshot.
func collapseByID(persons []models.Person) []models.Person {
	byID := make(map[string]int, len(persons))
	out := persons[:0]
	for _, p := range persons {
		if i, ok := byID[p.ID]; ok {
			out[i] = p
			continue
		}
		byID[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

// collapsePaymentsByID applies the same last-wins merge to payment records.
func collapsePaymentsByID(payments []models.PaymentRecord) []models.PaymentRecord {
	byID := make(map[string]int, len(payments))
	out := payments[:0]
	for _, rec := range payments {
		if i, ok := byID[rec.ID]; ok {
			out[i] = rec
			continue
		}
		byID[rec.ID] = len(out)
		out = append(out, rec)
	}
	return out
}

// SnapshotAll reads the full current state for backup purposes.
func (e *Engine) SnapshotAll(ctx context.Context) (models.Snapshot, error) {
	persons, err := e.store.ListPersons(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read persons: %w", err)
	}
	payments, err := e.store.ListPayments(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read payments: %w", err)
	}
	return models.Snapshot{Persons: persons, Payments: payments}, nil
}
