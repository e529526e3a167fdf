package driven

import (
	"context"
	"time"
)

// Cache is a persistent key/value tier for AI responses.
// Misses are not errors.
type Cache interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases resources.
	Close() error
}
