package metrics

import (
	"context"
	"time"

	"github.com/ehz-labs/ocr-api/internal/cache"
)

// Collector periodically mirrors result-cache statistics into Prometheus
// gauges so dashboards see cache health without polling the admin API.
type Collector struct {
	cache    cache.Cache
	interval time.Duration
	stop     chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(c cache.Cache, interval time.Duration) *Collector {
	return &Collector{
		cache:    c,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the metrics collection loop.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Collect initial metrics
	c.collect()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the metrics collector.
func (c *Collector) Stop() {
	close(c.stop)
}

func (c *Collector) collect() {
	stats := c.cache.Stats()
	CacheItems.Set(float64(stats.Items))
	CacheHitRate.Set(stats.HitRate)
	CacheEvictions.Set(float64(stats.Evictions))
	CacheEstimatedBytes.Set(float64(stats.EstimatedMemoryB))
}
