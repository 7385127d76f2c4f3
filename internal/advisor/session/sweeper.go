// internal/advisor/session/sweeper.go
package session

import (
	"context"
	"time"

	"pump-advisor/internal/common/metrics"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Sweep runs one eviction pass and updates the session gauges.
func Sweep(ctx context.Context, store Store, now time.Time, log Logger) int {
	n, err := store.EvictExpired(ctx, now)
	if err != nil {
		log.Error("Session sweep failed", map[string]interface{}{"error": err.Error()})
		return 0
	}
	if n > 0 {
		metrics.SessionsEvicted.Add(float64(n))
		log.Info("Expired sessions evicted", map[string]interface{}{"count": n})
	}
	if active, err := store.Count(ctx); err == nil {
		metrics.SessionsActive.Set(float64(active))
	}
	return n
}

// StartSweeper evicts idle sessions every interval until ctx is done.
func StartSweeper(ctx context.Context, store Store, interval time.Duration, clock Clock, log Logger) {
	if clock == nil {
		clock = SystemClock
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info("Session sweeper started", map[string]interface{}{"interval": interval.String()})
		for {
			select {
			case <-ctx.Done():
				log.Info("Session sweeper stopped", nil)
				return
			case <-ticker.C:
				Sweep(ctx, store, clock(), log)
			}
		}
	}()
}
