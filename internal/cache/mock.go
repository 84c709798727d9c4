package cache

import (
	"sync"
	"time"
)

// MockCache is a simple in-memory cache for testing that implements the Cache interface.
type MockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMockCache creates a new mock cache for testing.
func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, found := m.data[key]
	return val, found
}

func (m *MockCache) Set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MockCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
}

func (m *MockCache) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *MockCache) CleanupExpired() int {
	return 0
}

func (m *MockCache) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Items: len(m.data),
	}
}

func (m *MockCache) ResetStats() {}
