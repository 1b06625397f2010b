package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
)

const maxBackoff = 30 * time.Second

// fetcher is the part of state.Store the refresher drives.
type fetcher interface {
	FetchAll(ctx context.Context) ([]api.Item, error)
}

// StartRefresher launches a background goroutine that reloads the item list
// every interval, backing off while the API keeps failing. It returns
// immediately; the goroutine exits with ctx.
func StartRefresher(ctx context.Context, store fetcher, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if _, err := store.FetchAll(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				logger.Debug("periodic refresh failed", zap.Int("failures", failures), zap.Error(err))
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
