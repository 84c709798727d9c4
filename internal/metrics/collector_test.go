package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/ehz-labs/ocr-api/internal/cache"
)

func TestCollectorCollectsCacheStats(t *testing.T) {
	c := cache.NewLRU(10, time.Hour, true)
	c.Set("a", []byte("v"), 0)
	c.Set("b", []byte("v"), 0)

	collector := NewCollector(c, time.Hour)
	collector.collect()

	// promauto gauges are process-global; read back through the testutil-free
	// path of simply re-collecting and relying on no panic plus a sane cache.
	if got := c.Stats().Items; got != 2 {
		t.Fatalf("expected 2 items in cache, got %d", got)
	}
}

func TestCollectorStops(t *testing.T) {
	c := cache.NewLRU(10, time.Hour, true)
	collector := NewCollector(c, 10*time.Millisecond)

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		collector.Start(ctx)
		close(done)
	}()

	collector.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestCollectorContextCancellation(t *testing.T) {
	c := cache.NewLRU(10, time.Hour, true)
	collector := NewCollector(c, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		collector.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not honor context cancellation")
	}
}
