package cache

import (
	"container/list"
	"sync"
	"time"
)

// perEntryOverheadBytes is a fixed per-entry size assumption used for the
// estimated memory footprint: a 64-byte hex key, roughly 1KB of serialized
// result, and bookkeeping. Diagnostic only.
const perEntryOverheadBytes = 1200

// LRUCache is a capacity-bounded LRU cache with per-entry TTL.
//
// A single mutex guards a map of key to list element plus a recency list
// (front = least recently used, back = most recently used). Get and Set are
// O(1); Size and CleanupExpired scan the whole store and are meant for the
// maintenance path, not the request path.
type LRUCache struct {
	mu sync.Mutex

	enabled    bool
	capacity   int
	defaultTTL time.Duration

	items map[string]*list.Element
	order *list.List

	hits      uint64
	misses    uint64
	evictions uint64
	sets      uint64
}

// entry is the payload stored in recency list elements. The key is kept here
// so eviction, which starts from a list element, can find the map slot.
type entry struct {
	key       string
	value     []byte
	createdAt time.Time
	expiresAt time.Time
}

// NewLRU creates a new LRU cache.
// capacity is the maximum number of live entries before eviction triggers.
// defaultTTL is applied when a caller passes a TTL of 0.
// When enabled is false, Get always misses and Set is a no-op.
func NewLRU(capacity int, defaultTTL time.Duration, enabled bool) *LRUCache {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUCache{
		enabled:    enabled,
		capacity:   capacity,
		defaultTTL: defaultTTL,
		items:      make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *LRUCache) expired(e *entry, now time.Time) bool {
	return now.After(e.expiresAt)
}

// Get retrieves a value from the cache by key. A hit moves the entry to the
// most-recently-used position; a read that finds an expired entry removes it
// and reports a miss.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if c.expired(e, time.Now()) {
		c.removeLocked(el)
		c.misses++
		return nil, false
	}

	c.order.MoveToBack(el)
	c.hits++
	return e.value, true
}

// Set stores a value under key. Inserting a new key into a full store evicts
// the least recently used entry first; overwriting an existing key never
// evicts, even at capacity. Both paths reset the TTL and mark the key as
// most recently used.
func (c *LRUCache) Set(key string, value []byte, ttl time.Duration) {
	if !c.enabled {
		return
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.createdAt = now
		e.expiresAt = now.Add(ttl)
		c.order.MoveToBack(el)
		c.sets++
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictLRULocked()
	}

	e := &entry{
		key:       key,
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	c.items[key] = c.order.PushBack(e)
	c.sets++
}

// evictLRULocked drops the entry at the front of the recency list.
func (c *LRUCache) evictLRULocked() {
	el := c.order.Front()
	if el == nil {
		return
	}
	c.removeLocked(el)
	c.evictions++
}

// removeLocked unlinks a list element and its map slot. Caller holds the lock.
func (c *LRUCache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, e.key)
}

// Delete removes the entry for key if present. Missing keys are a no-op.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
}

// Clear removes all entries. Counters are left untouched.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Size returns the number of live entries. Expired entries found during the
// scan are purged first, so Size doubles as a maintenance operation; it only
// removes entries that a Get would have removed anyway.
func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked(time.Now())
	return c.order.Len()
}

// CleanupExpired removes every expired entry and returns the number removed.
// Intended for the periodic sweep, not the request path; cost is linear in
// store size.
func (c *LRUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.purgeExpiredLocked(time.Now())
}

func (c *LRUCache) purgeExpiredLocked(now time.Time) int {
	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if c.expired(el.Value.(*entry), now) {
			c.removeLocked(el)
			removed++
		}
		el = next
	}
	return removed
}

// Stats returns a snapshot of cache statistics.
func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Items:            c.order.Len(),
		MaxItems:         c.capacity,
		Hits:             c.hits,
		Misses:           c.misses,
		Evictions:        c.evictions,
		Sets:             c.sets,
		EstimatedMemoryB: int64(c.order.Len()) * perEntryOverheadBytes,
		DefaultTTL:       c.defaultTTL,
	}

	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}

	// The front of the recency list is the least recently touched entry,
	// which is also the one with the oldest createdAt in the common case.
	// Scan to be exact since overwrites reset createdAt out of order.
	now := time.Now()
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if age := now.Sub(e.createdAt).Seconds(); age > s.OldestEntryAge {
			s.OldestEntryAge = age
		}
	}

	return s
}

// ResetStats zeroes the hit/miss/eviction/set counters without touching entries.
func (c *LRUCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits = 0
	c.misses = 0
	c.evictions = 0
	c.sets = 0
}
