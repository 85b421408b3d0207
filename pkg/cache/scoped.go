package cache

import (
	"context"
	"time"
)

// Scoped wraps a backend with a key prefix so independent consumers can share
// it without key collisions, e.g. one namespace per layout profile on a
// shared Redis instance.
type Scoped struct {
	inner  Cache
	prefix string
}

// NewScoped wraps inner with a prefix. A nil inner degrades to a null cache.
func NewScoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Scoped{inner: inner, prefix: prefix}
}

// Get retrieves a value under the prefixed key.
func (c *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a value under the prefixed key.
func (c *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the prefixed key.
func (c *Scoped) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the wrapped backend.
func (c *Scoped) Close() error { return c.inner.Close() }

var _ Cache = (*Scoped)(nil)
