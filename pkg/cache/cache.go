// Package cache provides pluggable byte caches for the layout pipeline.
//
// # Overview
//
// Layout runs are pure functions of (diagram, options), so their results cache
// perfectly: the pipeline hashes its inputs into a key and stores the encoded
// geometry. Three backends implement the same interface:
//
//   - [FileCache] for CLI usage, entries as files under a directory
//   - [RedisCache] for the serve mode, shared across processes
//   - [NullCache] to disable caching entirely
//
// Keys are derived with the helpers in keys.go so every caller agrees on the
// key schema. Use [NewScoped] to namespace a backend, e.g. per profile.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A zero TTL on Set stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
