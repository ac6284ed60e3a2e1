// Package kv provides an expiring key-value store abstraction backed by
// Redis in production and an in-memory map in tests.
package kv

import (
	"context"
	"time"
)

// Store is an expiring key-value store. Get reports a miss (found=false)
// for both unknown and expired keys; callers must not distinguish the two.
// Reads never mutate state: expiry is absolute from Set, not sliding.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
