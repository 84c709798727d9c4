package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ehz-labs/ocr-api/internal/api/handlers"
	"github.com/ehz-labs/ocr-api/internal/cache"
	"github.com/ehz-labs/ocr-api/internal/config"
	"github.com/ehz-labs/ocr-api/internal/middleware"
	"github.com/ehz-labs/ocr-api/internal/ocr"
)

// NewRouter wires up all routes and middleware. The hub must already be
// running; the router only attaches the upgrade endpoint to it.
func NewRouter(c cache.Cache, rec ocr.Recognizer, hub *handlers.Hub) *mux.Router {
	cfg := config.Load()

	r := mux.NewRouter()

	// Outermost first: request IDs feed logging and error envelopes,
	// recovery catches everything below it.
	r.Use(middleware.RequestID)
	r.Use(middleware.RecoverWithSentry)
	r.Use(middleware.SecurityHeaders)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	}
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Compress)

	if cfg.EnableRateLimit {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimitGlobal, cfg.RateLimitGlobalBurst,
			cfg.RateLimitPerIP, cfg.RateLimitPerIPBurst,
		)
		r.Use(limiter.Limit)
	}

	extract := handlers.NewExtractHandler(c, rec)
	batch := handlers.NewBatchHandler(extract)
	cacheAdmin := handlers.NewCacheAdminHandler(c)
	ws := handlers.NewWebSocketHandler(hub)

	// Extraction
	r.Handle("/extract-text", middleware.LimitUploadSize(http.HandlerFunc(extract.ExtractText))).Methods("POST")
	r.Handle("/batch-extract", middleware.LimitUploadSize(http.HandlerFunc(batch.BatchExtract))).Methods("POST")

	// Operational
	r.HandleFunc("/health", handlers.Health(c)).Methods("GET")
	r.HandleFunc("/version", handlers.GetVersion).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Cache administration
	r.HandleFunc("/admin/cache/stats", cacheAdmin.GetCacheStats).Methods("GET")
	r.HandleFunc("/admin/cache/stats/reset", cacheAdmin.ResetCacheStats).Methods("POST")
	r.HandleFunc("/admin/cache/invalidate", cacheAdmin.InvalidateCache).Methods("POST")
	r.HandleFunc("/admin/cache/cleanup", cacheAdmin.CleanupExpired).Methods("POST")
	r.HandleFunc("/admin/cache/entries/{key}", cacheAdmin.DeleteCacheEntry).Methods("DELETE")

	// Live stats stream
	r.HandleFunc("/ws/stats", ws.HandleWebSocket).Methods("GET")

	return r
}
