package cache

import (
	"context"
	"time"

	"github.com/ehz-labs/ocr-api/internal/logger"
)

// Sweeper periodically removes expired entries from a cache. Lazy expiry on
// Get keeps results correct without it; the sweep exists to reclaim memory
// for entries that are never looked up again.
type Sweeper struct {
	cache    Cache
	interval time.Duration
}

// NewSweeper creates a sweeper that invokes CleanupExpired every interval.
func NewSweeper(c Cache, interval time.Duration) *Sweeper {
	return &Sweeper{
		cache:    c,
		interval: interval,
	}
}

// Start runs the sweep loop until ctx is cancelled. It blocks; callers run
// it in a goroutine. Cancellation interrupts an in-progress wait immediately.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := logger.WithComponent("cache_sweeper")
	log.Info("Cache sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			log.Info("Cache sweeper stopped")
			return
		case <-ticker.C:
			removed := s.cache.CleanupExpired()
			if removed > 0 {
				log.Info("Cache cleanup removed expired entries", "removed", removed)
			}
		}
	}
}
