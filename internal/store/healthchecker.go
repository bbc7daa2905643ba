package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/KIDDASS/memories-instagram-app/internal/health"
)

// HealthChecker wraps a store that implements health.HealthPinger and caches
// the result of periodic pings.
type HealthChecker struct {
	name    string
	pinger  health.HealthPinger
	healthy atomic.Bool
	log     zerolog.Logger
}

func NewHealthChecker(name string, p health.HealthPinger, log zerolog.Logger) *HealthChecker {
	return &HealthChecker{name: name, pinger: p, log: log}
}

func (c *HealthChecker) Name() string    { return c.name }
func (c *HealthChecker) IsHealthy() bool { return c.healthy.Load() }

// Start pings the store on the given interval until ctx is cancelled.
func (c *HealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.pinger.HealthPing(pingCtx)
		cancel()
		prev := c.healthy.Swap(err == nil)
		if prev != (err == nil) {
			if err == nil {
				c.log.Info().Str("component", c.name).Msg("store health: UP")
			} else {
				c.log.Error().Err(err).Str("component", c.name).Msg("store health: DOWN")
			}
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
