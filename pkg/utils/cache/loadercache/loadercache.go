// Package loadercache implements cache.Cache with a loader function.
package loadercache

import (
	"context"
	"sync"
	"time"

	"github.com/mpapenbr/league-results/log"
	"github.com/mpapenbr/league-results/pkg/utils/cache"
)

type (
	Option[K comparable, V any] func(*config[K, V])
	// LoaderFunc fetches the value of a key on a cache miss
	LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)
	// ValidatorFunc reports whether a cached value is still up to date
	ValidatorFunc[K comparable, V any] func(key K, v *V) bool

	entry[V any] struct {
		data    *V
		expires time.Time // zero: never
	}
	config[K comparable, V any] struct {
		expiration time.Duration
		loader     LoaderFunc[K, V]
		validator  ValidatorFunc[K, V]
		now        func() time.Time
		l          *log.Logger
	}
	loaderCache[K comparable, V any] struct {
		mu     sync.Mutex
		items  map[K]entry[V]
		config *config[K, V]
	}
)

// WithExpiration sets the time to live of an entry. 0 disables expiration.
func WithExpiration[K comparable, V any](expiration time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.expiration = expiration
	}
}

func WithLoader[K comparable, V any](lf LoaderFunc[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.loader = lf
	}
}

// WithValidator is consulted on every hit, a false result reloads the entry.
func WithValidator[K comparable, V any](vf ValidatorFunc[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.validator = vf
	}
}

func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *config[K, V]) {
		c.now = now
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.l = arg
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &config[K, V]{
		expiration: 5 * time.Minute,
		now:        time.Now,
		l:          log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return &loaderCache[K, V]{
		items:  make(map[K]entry[V]),
		config: c,
	}
}

func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		switch {
		case !e.expires.IsZero() && e.expires.Before(c.config.now()):
			c.config.l.Debug("entry expired", log.Any("key", key))
		case c.config.validator != nil && !c.config.validator(key, e.data):
			c.config.l.Debug("entry outdated", log.Any("key", key))
		default:
			return e.data, nil
		}
		delete(c.items, key)
	}
	return c.load(ctx, key)
}

// must be called with lock held
func (c *loaderCache[K, V]) load(ctx context.Context, key K) (*V, error) {
	if c.config.loader == nil {
		return nil, cache.ErrCacheMiss
	}
	v, err := c.config.loader(ctx, key)
	if err != nil {
		c.config.l.Error("error loading entry", log.Any("key", key), log.ErrorField(err))
		return nil, err
	}
	c.config.l.Debug("loaded entry", log.Any("key", key))
	e := entry[V]{data: v}
	if c.config.expiration > 0 {
		e.expires = c.config.now().Add(c.config.expiration)
	}
	c.items[key] = e
	return v, nil
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.config.l.Debug("invalidated", log.Any("key", key), log.Int("remaining", len(c.items)))
}

func (c *loaderCache[K, V]) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
}
