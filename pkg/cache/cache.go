// Package cache provides the key/value store abstraction the permission
// resolution engine caches into. The store is injected so tests can swap the
// redis implementation for miniredis or control time explicitly.
package cache

import (
	"context"
	"time"
)

// Store is a TTL'd string cache.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes a value with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// DeleteByPrefix removes every key beginning with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
