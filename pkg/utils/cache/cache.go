// Package cache defines a small read-through cache abstraction.
//
// The league data file store uses it to keep decoded files between two
// recomputations of the watch command.
package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned when a key is not cached and cannot be loaded.
var ErrCacheMiss = errors.New("cache miss")

type Cache[K comparable, V any] interface {
	// Get returns the cached value. Missing or invalid entries are (re)loaded.
	Get(ctx context.Context, key K) (*V, error)
	// Invalidate drops the entry for key, the next Get loads it again.
	Invalidate(ctx context.Context, key K)
	InvalidateAll(ctx context.Context)
}
