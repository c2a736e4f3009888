// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/oqba26/monthlypay/internal/models"
)

// Store defines the interface for the local persons/payments store.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the reconciliation engine or the service layer.
type Store interface {
	// ListPersons returns all persons ordered by name (case-insensitive).
	ListPersons(ctx context.Context) ([]models.Person, error)

	// ListPayments returns all payments ordered by timestamp descending.
	ListPayments(ctx context.Context) ([]models.PaymentRecord, error)

	// ListPaymentsForPerson returns one person's payments, newest first.
	ListPaymentsForPerson(ctx context.Context, personID string) ([]models.PaymentRecord, error)

	// ReplaceAll atomically deletes every person and payment and inserts the
	// given rows in their place, all in one transaction. Readers never
	// observe a state between the delete and the insert. On error the store
	// is left exactly as it was.
	ReplaceAll(ctx context.Context, persons []models.Person, payments []models.PaymentRecord) error

	// Subscribe returns a channel that receives a signal after every
	// committed persons/payments replace, plus a cancel function releasing
	// the subscription. Settings writes do not signal. Signals are coalesced;
	// subscribers re-read the queries they care about.
	Subscribe() (<-chan struct{}, func())

	// GetSetting reads a settings value. The second return reports presence.
	GetSetting(ctx context.Context, key string) (string, bool, error)

	// SetSetting writes a settings value, overwriting any previous one.
	SetSetting(ctx context.Context, key, value string) error

	// DeleteSetting removes a settings value. Deleting a missing key is not
	// an error.
	DeleteSetting(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
