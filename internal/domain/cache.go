package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key/value store used for analytics snapshots and revoked tokens.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. An expiration of 0 keeps it until deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	Exists(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error
}
