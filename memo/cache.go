package memo

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/on-the-ground/memo_bench/shared/helper"
	"go.uber.org/zap"
)

// Cache memoizes Target results in a Store.
//
// The Cache invokes a target only on a miss and never retries. Target failures
// are returned exactly as produced and leave nothing behind in the store.
type Cache struct {
	store  Store
	logger *zap.Logger
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats counts Fetch outcomes since the Cache was created.
type Stats struct {
	Hits   uint64
	Misses uint64
}

type CacheOption func(*Cache)

func WithLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewCache(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Fetch returns the cached result for target, invoking it once on a miss.
func Fetch[T any](c *Cache, target *Target[T]) (T, error) {
	v, ok, err := load(c, target)
	if err != nil {
		return v, err
	}
	if ok {
		c.hits.Add(1)
		return v, nil
	}

	c.misses.Add(1)
	c.logger.Debug("memo miss, invoking target", zap.String("token", target.token))
	v, err = target.fn()
	if err != nil {
		return v, err
	}
	if err := c.store.Set(target.token, v); err != nil {
		var zero T
		return zero, fmt.Errorf("memo: store %s: %w", target, err)
	}
	return v, nil
}

// Lookup returns the cached result for target without ever invoking it.
// It fails with ErrNotCached when the store holds nothing for target.
func Lookup[T any](c *Cache, target *Target[T]) (T, error) {
	v, ok, err := load(c, target)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, fmt.Errorf("%w: %s", ErrNotCached, target)
	}
	return v, nil
}

// Seed stores value as target's result without invoking target.
func Seed[T any](c *Cache, target *Target[T], value T) error {
	if err := c.store.Set(target.token, value); err != nil {
		return fmt.Errorf("memo: seed %s: %w", target, err)
	}
	return nil
}

// Forget drops target's result. The next Fetch invokes target again.
func Forget[T any](c *Cache, target *Target[T]) error {
	if err := c.store.Delete(target.token); err != nil {
		return fmt.Errorf("memo: forget %s: %w", target, err)
	}
	return nil
}

func load[T any](c *Cache, target *Target[T]) (T, bool, error) {
	v, ok, err := helper.GetTypedValueOf[T](func() (any, bool, error) {
		raw, ok, err := c.store.Get(target.token)
		if err != nil {
			return nil, false, fmt.Errorf("memo: load %s: %w", target, err)
		}
		return raw, ok, nil
	})
	if errors.Is(err, helper.ErrUnexpectedType) {
		return v, false, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, target, err)
	}
	return v, ok, err
}
