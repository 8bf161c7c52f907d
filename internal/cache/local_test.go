package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLocal(maxEntries int) (*Local, *time.Time) {
	l := NewLocal(maxEntries)
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLocal_SetGet(t *testing.T) {
	l, _ := newTestLocal(0)

	l.Set("k", []byte("v"), time.Minute)
	got, ok := l.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	_, ok = l.Get("missing")
	assert.False(t, ok)
}

func TestLocal_Expiry(t *testing.T) {
	l, now := newTestLocal(0)

	l.Set("k", []byte("v"), time.Minute)
	*now = now.Add(59 * time.Second)
	_, ok := l.Get("k")
	assert.True(t, ok)

	*now = now.Add(2 * time.Second)
	_, ok = l.Get("k")
	assert.False(t, ok)
}

func TestLocal_ZeroTTLNotStored(t *testing.T) {
	l, _ := newTestLocal(0)
	l.Set("k", []byte("v"), 0)
	_, ok := l.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, l.Len())
}

func TestLocal_FullSkipsNewWrites(t *testing.T) {
	l, _ := newTestLocal(2)

	l.Set("a", []byte("1"), time.Minute)
	l.Set("b", []byte("2"), time.Minute)
	l.Set("c", []byte("3"), time.Minute)

	_, ok := l.Get("c")
	assert.False(t, ok, "write beyond capacity should be skipped")
	assert.Equal(t, 2, l.Len())

	// Overwriting an existing key still works at capacity.
	l.Set("a", []byte("updated"), time.Minute)
	got, ok := l.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("updated"), got)
}

func TestLocal_FullPurgesExpiredFirst(t *testing.T) {
	l, now := newTestLocal(2)

	l.Set("a", []byte("1"), time.Second)
	l.Set("b", []byte("2"), time.Minute)
	*now = now.Add(2 * time.Second)

	l.Set("c", []byte("3"), time.Minute)
	_, ok := l.Get("c")
	assert.True(t, ok, "expired entry should have been purged to make room")
}

func TestLocal_PurgeExpired(t *testing.T) {
	l, now := newTestLocal(0)

	l.Set("a", []byte("1"), time.Second)
	l.Set("b", []byte("2"), time.Hour)
	*now = now.Add(time.Minute)

	assert.Equal(t, 1, l.PurgeExpired())
	assert.Equal(t, 1, l.Len())
}
