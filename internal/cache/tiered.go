package cache

import (
	"context"
	"log/slog"
	"time"
)

const defaultLocalTTLCap = 5 * time.Minute

// Tiered combines the local and shared tiers. Lookups hit the local tier
// first; stores write both tiers synchronously with the same TTL. When the
// shared tier is unreachable the cache degrades to local-only operation:
// errors are logged, never surfaced, and a miss simply means the caller
// recomputes.
type Tiered struct {
	local       *Local
	shared      SharedCache
	localTTLCap time.Duration
}

// NewTiered creates a Tiered cache. localTTLCap bounds how long values live
// in the local tier regardless of the shared TTL; <= 0 selects the default.
func NewTiered(local *Local, shared SharedCache, localTTLCap time.Duration) *Tiered {
	if localTTLCap <= 0 {
		localTTLCap = defaultLocalTTLCap
	}
	return &Tiered{local: local, shared: shared, localTTLCap: localTTLCap}
}

// Lookup returns the cached value for key, checking the local tier first.
// A shared-tier hit is written through into the local tier.
func (t *Tiered) Lookup(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := t.local.Get(key); ok {
		return v, true
	}
	v, ok, err := t.shared.Get(ctx, key)
	if err != nil {
		slog.Warn("shared cache read skipped", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	t.local.Set(key, v, t.localTTLCap)
	return v, true
}

// Store writes value to both tiers with the same TTL. The cache is
// TTL-policy-agnostic: callers pick the TTL, normally via TTLFor. The local
// copy expires no later than the local TTL cap.
func (t *Tiered) Store(ctx context.Context, key string, value []byte, ttl time.Duration) {
	localTTL := ttl
	if localTTL > t.localTTLCap {
		localTTL = t.localTTLCap
	}
	t.local.Set(key, value, localTTL)
	if err := t.shared.Set(ctx, key, value, ttl); err != nil {
		slog.Warn("shared cache write skipped", "key", key, "error", err)
	}
}

// Invalidate removes key from both tiers.
func (t *Tiered) Invalidate(ctx context.Context, key string) {
	t.local.Delete(key)
	if err := t.shared.Delete(ctx, key); err != nil {
		slog.Warn("shared cache invalidate skipped", "key", key, "error", err)
	}
}

// Ping reports shared-tier connectivity.
func (t *Tiered) Ping(ctx context.Context) error {
	return t.shared.Ping(ctx)
}
