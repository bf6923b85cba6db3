// Package cache defines the cache client interface used for the
// conversation turn log.
package cache

import (
	"context"
	"time"
)

// Type represents the type of cache backend.
type Type string

const (
	// TypeRedis represents a Redis cache.
	TypeRedis Type = "redis"
	// TypeNone disables the turn log cache entirely.
	TypeNone Type = "none"
)

// Client is the minimal byte-oriented cache contract.
type Client interface {
	// Get retrieves a value. Returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL. A zero TTL uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Ping checks if the cache connection is alive.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
