package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ehz-labs/ocr-api/internal/api"
	"github.com/ehz-labs/ocr-api/internal/api/handlers"
	"github.com/ehz-labs/ocr-api/internal/cache"
	"github.com/ehz-labs/ocr-api/internal/config"
	"github.com/ehz-labs/ocr-api/internal/logger"
	"github.com/ehz-labs/ocr-api/internal/metrics"
	"github.com/ehz-labs/ocr-api/internal/ocr"
)

// metricsPollInterval is how often cache statistics are copied into the
// Prometheus gauges.
const metricsPollInterval = 15 * time.Second

// Server owns the result cache, its background jobs, and the HTTP listener.
type Server struct {
	Cache      cache.Cache
	recognizer ocr.Recognizer

	sweeper   *cache.Sweeper
	collector *metrics.Collector
	hub       *handlers.Hub
	httpSrv   *http.Server
}

// NewServer builds a server around the given recognition backend. The cache
// is sized and configured from the environment.
func NewServer(rec ocr.Recognizer) *Server {
	cfg := config.Load()

	c := cache.NewLRU(cfg.MaxCacheSize, cfg.CacheTTL, cfg.CacheEnabled)
	hub := handlers.NewHub(c)

	s := &Server{
		Cache:      c,
		recognizer: rec,
		sweeper:    cache.NewSweeper(c, cfg.CacheCleanupInterval),
		collector:  metrics.NewCollector(c, metricsPollInterval),
		hub:        hub,
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      api.NewRouter(c, rec, hub),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start launches the background jobs and serves HTTP until the listener
// fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	go s.sweeper.Start(ctx)
	go s.collector.Start(ctx)
	go s.hub.Run(ctx)

	logger.Info("Server listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
