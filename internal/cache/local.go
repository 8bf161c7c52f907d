package cache

import (
	"sync"
	"time"
)

const defaultLocalMaxEntries = 2048

type localEntry struct {
	value     []byte
	expiresAt time.Time
}

// Local is the fast, process-private cache tier. Expiry is evaluated lazily
// at read time; PurgeExpired reclaims space and should run on a timer.
type Local struct {
	mu         sync.RWMutex
	entries    map[string]localEntry
	maxEntries int
	now        func() time.Time
}

// NewLocal creates a Local tier holding at most maxEntries values.
// maxEntries <= 0 selects the default.
func NewLocal(maxEntries int) *Local {
	if maxEntries <= 0 {
		maxEntries = defaultLocalMaxEntries
	}
	return &Local{
		entries:    make(map[string]localEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (l *Local) Get(key string) ([]byte, bool) {
	l.mu.RLock()
	e, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok || l.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. When the tier is full, expired entries
// are purged first; if still full the write is skipped rather than evicting
// live entries.
func (l *Local) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.entries[key]; !exists && len(l.entries) >= l.maxEntries {
		l.purgeLocked()
		if len(l.entries) >= l.maxEntries {
			return
		}
	}
	l.entries[key] = localEntry{value: value, expiresAt: l.now().Add(ttl)}
}

// Delete removes key from the tier.
func (l *Local) Delete(key string) {
	l.mu.Lock()
	delete(l.entries, key)
	l.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (l *Local) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// PurgeExpired removes all expired entries and returns how many were dropped.
func (l *Local) PurgeExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.purgeLocked()
}

func (l *Local) purgeLocked() int {
	now := l.now()
	purged := 0
	for k, e := range l.entries {
		if now.After(e.expiresAt) {
			delete(l.entries, k)
			purged++
		}
	}
	return purged
}
