// Package cache provides a TTL-aware key/value cache over a durable store.
//
// Durability is best-effort: write failures are logged and swallowed so the
// running session keeps its in-memory state authoritative. Reads treat
// malformed or expired payloads as absent and evict them lazily.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	apperrors "github.com/louisbranch/gametable/internal/platform/errors"
)

// ErrNotFound indicates the requested key has no stored entry.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "cache entry not found")

// Store is the durable backend the cache wraps.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// entry is the persisted envelope around a cached value.
// ExpiresAt is unix milliseconds; zero means no expiry.
type entry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expires_at"`
}

// Cache is a TTL-aware JSON key/value cache.
type Cache struct {
	store Store
	clock func() time.Time
}

// New creates a cache over the given store.
func New(store Store) *Cache {
	return &Cache{store: store, clock: time.Now}
}

// NewWithClock creates a cache with an injected clock for tests.
func NewWithClock(store Store, clock func() time.Time) *Cache {
	if clock == nil {
		clock = time.Now
	}
	return &Cache{store: store, clock: clock}
}

// Set stores value under key. A positive ttl bounds the entry lifetime;
// zero means the entry never expires. Set always succeeds from the caller's
// point of view: store failures are logged and swallowed.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache: marshal %q: %v", key, err)
		return
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.clock().UTC().Add(ttl).UnixMilli()
	}

	payload, err := json.Marshal(entry{Value: raw, ExpiresAt: expiresAt})
	if err != nil {
		log.Printf("cache: marshal entry %q: %v", key, err)
		return
	}
	if err := c.store.Put(ctx, key, payload); err != nil {
		log.Printf("cache: persist %q: %v", key, err)
	}
}

// Get loads the entry under key into out and reports whether a live value
// was found. Absent, malformed, and expired entries all report false;
// expired and malformed entries are evicted as a side effect.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	payload, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("cache: read %q: %v", key, err)
		}
		return false
	}

	var stored entry
	if err := json.Unmarshal(payload, &stored); err != nil {
		log.Printf("cache: malformed entry %q, evicting: %v", key, err)
		c.Remove(ctx, key)
		return false
	}

	if stored.ExpiresAt > 0 && c.clock().UTC().UnixMilli() >= stored.ExpiresAt {
		c.Remove(ctx, key)
		return false
	}

	if err := json.Unmarshal(stored.Value, out); err != nil {
		log.Printf("cache: malformed value %q, evicting: %v", key, err)
		c.Remove(ctx, key)
		return false
	}
	return true
}

// Remove deletes the entry under key, best-effort.
func (c *Cache) Remove(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		log.Printf("cache: remove %q: %v", key, err)
	}
}

// Clear deletes every entry, best-effort.
func (c *Cache) Clear(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		log.Printf("cache: clear: %v", err)
	}
}
