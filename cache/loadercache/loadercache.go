// Package loadercache is a read-through cache with expiring entries.
// Concurrent misses for the same key share a single load.
package loadercache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pitwall/cache"
	"pitwall/log"
)

type (
	Option[K comparable, V any] func(*config[K, V])
	item[T any]                 struct {
		data    T
		expires time.Time
	}
	LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (*V, error)
	config[K comparable, V any]     struct {
		expiration time.Duration
		loader     LoaderFunc[K, V]
		now        func() time.Time
		l          *log.Logger
	}
	loaderCache[K comparable, V any] struct {
		mutex  sync.Mutex
		items  map[K]item[*V]
		group  singleflight.Group
		config *config[K, V]
	}
)

// WithExpiration sets the lifetime of loaded entries. Zero keeps entries
// until they are invalidated.
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
		items:  make(map[K]item[*V]),
		config: c,
	}
}

func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	c.mutex.Lock()
	cacheItem, ok := c.items[key]
	if ok && c.expired(cacheItem) {
		delete(c.items, key)
		ok = false
	}
	c.mutex.Unlock()
	if ok {
		return cacheItem.data, nil
	}
	return c.load(ctx, key)
}

func (c *loaderCache[K, V]) expired(i item[*V]) bool {
	return !i.expires.IsZero() && i.expires.Before(c.config.now())
}

func (c *loaderCache[K, V]) load(ctx context.Context, key K) (*V, error) {
	if c.config.loader == nil {
		return nil, cache.ErrCacheMiss
	}
	v, err, _ := c.group.Do(fmt.Sprint(key), func() (any, error) {
		c.config.l.Debug("loaderCache.load", log.Any("key", key))
		v, err := c.config.loader(ctx, key)
		if err != nil {
			c.config.l.Warn("error loading entry", log.Any("key", key), log.ErrorField(err))
			return nil, err
		}
		c.Set(ctx, key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*V), nil
}

func (c *loaderCache[K, V]) Set(ctx context.Context, key K, value *V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	var expires time.Time
	if c.config.expiration > 0 {
		expires = c.config.now().Add(c.config.expiration)
	}
	c.items[key] = item[*V]{data: value, expires: expires}
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
	c.config.l.Debug("Invalidate", log.Any("key", key), log.Int("remain items", len(c.items)))
}
