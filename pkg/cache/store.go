package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented cache with per-entry expiry.
type Store interface {
	// Get returns the cached value and true, or false on a miss or expiry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every entry owned by the store.
	Clear(ctx context.Context) error
}
