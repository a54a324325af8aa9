// Package sweep removes expired KV entries in the background.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is how often Start sweeps when given a non-positive interval.
const DefaultInterval = 5 * time.Minute

// Sweeper deletes expired entries.
type Sweeper interface {
	SweepExpired(ctx context.Context) error
}

// Start sweeps once immediately and then on every tick. It blocks until the
// context is cancelled.
func Start(ctx context.Context, s Sweeper, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.SweepExpired(ctx); err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Msg("kv sweep failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
