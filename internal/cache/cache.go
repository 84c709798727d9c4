package cache

import "time"

// Cache defines the interface for caching serialized OCR results with TTL.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the value and true if found and not expired, otherwise nil and false.
	Get(key string) ([]byte, bool)

	// Set stores a value in the cache with the given key and TTL.
	// TTL of 0 means use the default cache TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all values from the cache.
	Clear()

	// Size returns the number of live (non-expired) entries, purging
	// any expired entries found during the scan.
	Size() int

	// CleanupExpired removes all expired entries and returns the number removed.
	CleanupExpired() int

	// Stats returns cache statistics.
	Stats() Stats

	// ResetStats zeroes the statistics counters without touching entries.
	ResetStats()
}

// Stats represents cache statistics.
type Stats struct {
	Items            int           `json:"items"`                    // current number of items
	MaxItems         int           `json:"max_items"`                // configured capacity
	Hits             uint64        `json:"hits"`                     // total cache hits
	Misses           uint64        `json:"misses"`                   // total cache misses
	HitRate          float64       `json:"hit_rate"`                 // hits / (hits + misses) as a percentage, 0 when idle
	Evictions        uint64        `json:"evictions"`                // total LRU evictions
	Sets             uint64        `json:"total_sets"`               // total sets, inserts and overwrites
	OldestEntryAge   float64       `json:"oldest_entry_age_seconds"` // age of the oldest live entry, 0 when empty
	EstimatedMemoryB int64         `json:"estimated_memory_bytes"`   // rough footprint estimate
	DefaultTTL       time.Duration `json:"-"`
}
