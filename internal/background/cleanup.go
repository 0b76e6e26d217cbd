package background

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RecoveryPurger deletes password recovery requests created before cutoff
type RecoveryPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupManager periodically removes password recovery requests whose
// window has passed. Expired requests are already rejected on use; this
// only keeps the table small.
type CleanupManager struct {
	recoveries RecoveryPurger
	logger     *slog.Logger
	interval   time.Duration
	maxAge     time.Duration
	now        func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewCleanupManager creates a new cleanup manager. maxAge is the password
// recovery window.
func NewCleanupManager(recoveries RecoveryPurger, logger *slog.Logger, interval, maxAge time.Duration) *CleanupManager {
	return &CleanupManager{
		recoveries: recoveries,
		logger:     logger,
		interval:   interval,
		maxAge:     maxAge,
		now:        time.Now,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the cleanup loop until Stop is called or ctx is cancelled.
// It blocks; run it in its own goroutine.
func (cm *CleanupManager) Start(ctx context.Context) {
	defer close(cm.done)

	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := cm.now().Add(-cm.maxAge)
	rowsDeleted, err := cm.recoveries.DeleteOlderThan(cleanupCtx, cutoff)
	if err != nil {
		cm.logger.Error("failed to delete expired recovery requests", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("expired recovery requests deleted", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the loop to exit and waits for it. Safe to call more than
// once; must only be called after Start has been launched.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stopCh) })
	<-cm.done
}
