package cache

import (
	"context"
	"time"
)

// NullCache stores nothing; every Get misses. It backs --no-cache and the
// "none" backend.
type NullCache struct{}

// NewNullCache returns a cache with caching disabled.
func NewNullCache() Cache { return &NullCache{} }

// Get reports a miss for every key.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data, so the next Get still misses.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete succeeds without effect.
func (*NullCache) Delete(context.Context, string) error {
	return nil
}

// Clear succeeds without effect. Callers that must tell a disabled cache
// from an emptied one check the configured backend instead.
func (*NullCache) Clear(context.Context) error {
	return nil
}

// Close releases nothing.
func (*NullCache) Close() error {
	return nil
}

var _ Clearer = (*NullCache)(nil)
