package repository

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often Set scans for expired entries.
const sweepInterval = 10 * time.Minute

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is an in-process CacheRepository. A zero ttl never expires.
// Expired entries are dropped on read and swept on write, since keys of
// earlier days are never read again.
type MemoryCache struct {
	mu        sync.Mutex
	data      map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweep(now)
	}

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

// sweep must be called with mu held.
func (m *MemoryCache) sweep(now time.Time) {
	for key, e := range m.data {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.data, key)
		}
	}
	m.lastSweep = now
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
