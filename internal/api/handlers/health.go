package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ehz-labs/ocr-api/internal/cache"
	"github.com/ehz-labs/ocr-api/internal/config"
)

// Health returns a simple JSON payload to indicate the API is alive.
// GET /health
func Health(c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.Load()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":        "ok",
			"cache_enabled": cfg.CacheEnabled,
			"cache_items":   c.Size(),
		})
	}
}
