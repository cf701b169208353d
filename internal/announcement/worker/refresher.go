// Package worker runs the background announcement jobs: the nearly sold
// out refresher and the featured speaker trigger consumer.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// Refreshable re-derives the nearly sold out announcement.
type Refreshable interface {
	RefreshNearlySoldOut(ctx context.Context) (string, error)
}

// Refresher re-derives on a fixed interval and whenever Signal is called.
// Signals arriving while a refresh is pending coalesce into one run.
type Refresher struct {
	target   Refreshable
	interval time.Duration
	signals  chan struct{}
	logger   *slog.Logger
}

func NewRefresher(target Refreshable, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Refresher{
		target:   target,
		interval: interval,
		signals:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// Signal requests a refresh without blocking.
func (r *Refresher) Signal() {
	select {
	case r.signals <- struct{}{}:
	default:
	}
}

// Run refreshes once at start, then until ctx is done. Refresh failures are
// logged and retried on the next tick or signal.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.signals:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if _, err := r.target.RefreshNearlySoldOut(ctx); err != nil && ctx.Err() == nil {
		r.logger.ErrorContext(ctx, "nearly sold out refresh failed", "error", err)
	}
}
