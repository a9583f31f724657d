package cache

import (
	"context"
	"fmt"
	"fxconv/internal/adapters"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// CachedKVStore is a write-through read cache in front of a KVStore. Entries
// may be evicted at any time; a miss always falls back to the backend.
// Every write bumps a per-key version, and a read-through fill is dropped
// when a write landed while the backend read was in flight.
type CachedKVStore struct {
	backend adapters.KVStore
	cache   *ristretto.Cache
	ttl     time.Duration

	mu       sync.Mutex
	versions map[string]uint64
}

func NewCachedKVStore(backend adapters.KVStore, maxItems int64, ttl time.Duration) (*CachedKVStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create kv cache failed: %w", err)
	}
	return &CachedKVStore{backend: backend, cache: c, ttl: ttl, versions: make(map[string]uint64)}, nil
}

func (c *CachedKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.cache.Get(key); ok {
		if b, ok := v.([]byte); ok {
			return slices.Clone(b), nil
		}
	}
	version := c.version(key)
	value, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.versions[key] == version {
		c.put(key, value)
	}
	c.mu.Unlock()
	return value, nil
}

func (c *CachedKVStore) Set(ctx context.Context, key string, value []byte) error {
	err := c.backend.Set(ctx, key, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key]++
	if err != nil {
		c.cache.Del(key)
		return err
	}
	c.put(key, value)
	return nil
}

func (c *CachedKVStore) Delete(ctx context.Context, key string) error {
	err := c.backend.Delete(ctx, key)

	c.mu.Lock()
	c.versions[key]++
	c.cache.Del(key)
	c.mu.Unlock()
	return err
}

func (c *CachedKVStore) Close() { c.cache.Close() }

func (c *CachedKVStore) version(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[key]
}

func (c *CachedKVStore) put(key string, value []byte) {
	c.cache.SetWithTTL(key, slices.Clone(value), 1, c.ttl)
}
