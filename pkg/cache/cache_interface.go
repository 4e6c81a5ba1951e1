package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read cache in front of the repositories.
// Implementation: infrastructure/cache.RedisCache
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found = false on a cache miss, dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys, missing keys are ignored
	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
