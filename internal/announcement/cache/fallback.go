package cache

import (
	"context"
	"log/slog"

	"confcentral/pkg/platform/circuit"
)

// Fallback serves from primary while it is healthy and from fallback once
// the breaker opens. Writes always reach fallback so it is warm when needed.
type Fallback struct {
	primary  Cache
	fallback Cache
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallback(primary, fallback Cache, breaker *circuit.Breaker, logger *slog.Logger) *Fallback {
	return &Fallback{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (f *Fallback) Get(ctx context.Context, key string) (string, bool, error) {
	if f.breaker.Allow() {
		v, ok, err := f.primary.Get(ctx, key)
		if f.record(ctx, err) {
			return v, ok, nil
		}
	}
	return f.fallback.Get(ctx, key)
}

func (f *Fallback) Set(ctx context.Context, key, value string) error {
	if err := f.fallback.Set(ctx, key, value); err != nil {
		return err
	}
	if f.breaker.Allow() {
		f.record(ctx, f.primary.Set(ctx, key, value))
	}
	return nil
}

func (f *Fallback) Delete(ctx context.Context, key string) error {
	if err := f.fallback.Delete(ctx, key); err != nil {
		return err
	}
	if f.breaker.Allow() {
		f.record(ctx, f.primary.Delete(ctx, key))
	}
	return nil
}

// record feeds the breaker and reports whether the primary call succeeded.
func (f *Fallback) record(ctx context.Context, err error) bool {
	if err == nil {
		if _, change := f.breaker.RecordSuccess(); change.Closed {
			f.logger.InfoContext(ctx, "announcement cache recovered", "breaker", f.breaker.Name())
		}
		return true
	}
	_, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "announcement cache degraded to in-process fallback",
			"breaker", f.breaker.Name(),
			"error", err,
		)
	}
	return false
}
