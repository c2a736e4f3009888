package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oqba26/monthlypay/internal/metrics"
	"github.com/oqba26/monthlypay/internal/models"
	"github.com/oqba26/monthlypay/internal/reconcile"
	"github.com/oqba26/monthlypay/internal/settings"
)

// SyncerConfig holds configuration for the background refresh loop.
type SyncerConfig struct {
	// Interval is how often to pull the remote snapshot (default: 5m).
	Interval time.Duration
}

// DefaultSyncerConfig returns sensible defaults.
func DefaultSyncerConfig() SyncerConfig {
	return SyncerConfig{Interval: 5 * time.Minute}
}

// Syncer periodically pulls the full remote snapshot and reconciles the
// local store against it. A failed cycle is logged and skipped; the local
// state stays as the previous successful reconcile left it.
type Syncer struct {
	api      API
	engine   *reconcile.Engine
	session  *settings.Repository
	metrics  *metrics.Metrics
	logger   *slog.Logger
	interval time.Duration

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSyncer creates a syncer. metrics may be nil to disable instrumentation.
func NewSyncer(api API, engine *reconcile.Engine, session *settings.Repository, m *metrics.Metrics, logger *slog.Logger, cfg SyncerConfig) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSyncerConfig().Interval
	}
	return &Syncer{
		api:      api,
		engine:   engine,
		session:  session,
		metrics:  m,
		logger:   logger,
		interval: cfg.Interval,
	}
}

// Start begins the refresh loop. Returns an error if already running.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("syncer is already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.runLoop(ctx)

	s.logger.Info("syncer started", "interval", s.interval)
	return nil
}

// Stop gracefully stops the loop and waits for the in-flight cycle. An
// in-flight reconcile either commits or rolls back; it is never left half
// applied.
func (s *Syncer) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	// Flip before closing so a concurrent Stop cannot close stopCh twice.
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)

	select {
	case <-s.doneCh:
		s.logger.Info("syncer stopped")
	case <-ctx.Done():
		s.logger.Warn("syncer stop timed out")
		return ctx.Err()
	}
	return nil
}

func (s *Syncer) runLoop(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Refresh immediately on startup
	s.refreshCycle(ctx)

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshCycle(ctx)
		}
	}
}

func (s *Syncer) refreshCycle(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		// Best effort: retried on the next tick, never escalated.
		s.logger.Warn("refresh cycle failed", "error", err)
	}
}

// Refresh performs one fetch+reconcile cycle. Without a valid session the
// cycle is skipped silently. Persons and payments are fetched concurrently;
// reconciliation only runs when both fetches succeed, so a half-fetched
// snapshot never reaches the store.
func (s *Syncer) Refresh(ctx context.Context) error {
	ok, err := s.session.Authenticated(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		s.countRefresh("skipped_unauthenticated")
		s.logger.Debug("refresh skipped, not logged in")
		return nil
	}
	if _, err := s.session.Token(ctx); errors.Is(err, settings.ErrSessionExpired) {
		s.countRefresh("skipped_unauthenticated")
		s.logger.Info("refresh skipped, session expired")
		return nil
	}

	var (
		persons  []models.Person
		payments []models.PaymentRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		persons, err = s.api.ListPersons(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.api.ListPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.countRefresh("remote_error")
		return fmt.Errorf("remote fetch failed: %w", err)
	}

	start := time.Now()
	if err := s.engine.ReconcileAll(ctx, persons, payments); err != nil {
		s.countRefresh("store_error")
		return err
	}
	if s.metrics != nil {
		s.metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}
	s.countRefresh("ok")
	return nil
}

func (s *Syncer) countRefresh(result string) {
	if s.metrics != nil {
		s.metrics.RefreshTotal.WithLabelValues(result).Inc()
	}
}
