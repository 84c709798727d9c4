package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ehz-labs/ocr-api/internal/apierr"
	"github.com/ehz-labs/ocr-api/internal/cache"
	"github.com/ehz-labs/ocr-api/internal/logger"
)

// CacheAdminHandler handles cache administration endpoints.
type CacheAdminHandler struct {
	cache cache.Cache
}

// NewCacheAdminHandler creates a new cache admin handler.
func NewCacheAdminHandler(c cache.Cache) *CacheAdminHandler {
	return &CacheAdminHandler{cache: c}
}

// GetCacheStats returns current cache statistics.
// GET /admin/cache/stats
func (h *CacheAdminHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.Stats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(stats)
}

// InvalidateCache clears all entries from the cache.
// POST /admin/cache/invalidate
func (h *CacheAdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	logger.InfoContext(r.Context(), "Result cache invalidated")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "Cache invalidated successfully",
	})
}

// ResetCacheStats zeroes the hit/miss/eviction counters without touching entries.
// POST /admin/cache/stats/reset
func (h *CacheAdminHandler) ResetCacheStats(w http.ResponseWriter, r *http.Request) {
	h.cache.ResetStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "Cache statistics reset",
	})
}

// CleanupExpired removes expired entries and reports how many were dropped.
// POST /admin/cache/cleanup
func (h *CacheAdminHandler) CleanupExpired(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.CleanupExpired()
	logger.InfoContext(r.Context(), "Manual cache cleanup", "removed", removed)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"removed": removed,
	})
}

// DeleteCacheEntry removes a single entry by its content hash key.
// DELETE /admin/cache/entries/{key}
func (h *CacheAdminHandler) DeleteCacheEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		apierr.WriteErrorWithContext(w, r, apierr.ValidationMissingField("key"))
		return
	}

	h.cache.Delete(key)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"key":    key,
	})
}
