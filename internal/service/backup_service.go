package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oqba26/monthlypay/internal/backup"
	"github.com/oqba26/monthlypay/internal/metrics"
	"github.com/oqba26/monthlypay/internal/reconcile"
)

// ErrPassphraseRequired is returned when restoring an encrypted backup
// without a passphrase.
var ErrPassphraseRequired = errors.New("backup is encrypted, passphrase required")

// BackupService creates and restores backup files.
type BackupService struct {
	engine  *reconcile.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBackupService creates the backup service. metrics may be nil.
func NewBackupService(engine *reconcile.Engine, m *metrics.Metrics, logger *slog.Logger) *BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupService{engine: engine, metrics: m, logger: logger}
}

// Create encodes the full current snapshot. A non-empty passphrase produces
// an encrypted file; an empty one a plain JSON document.
func (b *BackupService) Create(ctx context.Context, passphrase string) ([]byte, error) {
	snap, err := b.engine.SnapshotAll(ctx)
	if err != nil {
		return nil, err
	}
	data, err := backup.Encode(snap)
	if err != nil {
		return nil, err
	}
	if passphrase != "" {
		return backup.Encrypt(data, passphrase)
	}
	return data, nil
}

// Restore decodes a backup file and atomically replaces the local store with
// it. A decode failure leaves the store untouched.
func (b *BackupService) Restore(ctx context.Context, data []byte, passphrase string) error {
	if backup.IsEncrypted(data) {
		if passphrase == "" {
			return ErrPassphraseRequired
		}
		plain, err := backup.Decrypt(data, passphrase)
		if err != nil {
			b.countRestore("decode_error")
			return err
		}
		data = plain
	}

	snap, err := backup.Decode(data)
	if err != nil {
		b.countRestore("decode_error")
		return err
	}

	if err := b.engine.Restore(ctx, snap); err != nil {
		b.countRestore("store_error")
		return err
	}
	b.countRestore("ok")
	return nil
}

func (b *BackupService) countRestore(result string) {
	if b.metrics != nil {
		b.metrics.RestoreTotal.WithLabelValues(result).Inc()
	}
}
