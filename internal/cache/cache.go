// Package cache provides the two-level result cache in front of the worker
// pool: an in-process L1 (count + TTL bounded) and an optional distributed
// L2, with single-flight request coalescing so concurrent callers asking
// for the same fingerprint only trigger one compute job.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/eburns009/ephemeris-service/internal/compute"
)

// RemoteCache abstracts the L2 distributed cache (Redis in production;
// an in-memory fake in tests).
type RemoteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Metrics tracks cache hit/miss counters exposed on /healthz.
type Metrics struct {
	L1Hits   atomic.Int64
	L2Hits   atomic.Int64
	Misses   atomic.Int64
	L2Errors atomic.Int64
}

// Config controls L1/L2 sizing and TTLs.
type Config struct {
	L1Size int
	L1TTL  time.Duration
	L2TTL  time.Duration
}

// Cache is the two-level cache sitting in front of a compute fetch
// function. It never caches an error: a failed Fetch is never stored and
// is not coalesced beyond the single in-flight call.
type Cache struct {
	l1        *lru.LRU[string, compute.Result]
	l2        RemoteCache // nil disables L2
	l2TTL     time.Duration
	coalescer singleflight.Group
	metrics   Metrics
}

// New builds a Cache. l2 may be nil to run L1-only.
func New(cfg Config, l2 RemoteCache) *Cache {
	return &Cache{
		l1:    lru.NewLRU[string, compute.Result](cfg.L1Size, nil, cfg.L1TTL),
		l2:    l2,
		l2TTL: cfg.L2TTL,
	}
}

// Fetch returns the cached result for key if present, otherwise calls fn
// exactly once across all concurrent callers sharing key and populates both
// cache levels with the result. fn's error is returned to every waiter but
// is never cached.
func (c *Cache) Fetch(ctx context.Context, key string, fn func(context.Context) (compute.Result, error)) (compute.Result, error) {
	if v, ok := c.l1.Get(key); ok {
		c.metrics.L1Hits.Add(1)
		return v, nil
	}

	if c.l2 != nil {
		if raw, ok, err := c.l2.Get(ctx, key); err == nil && ok {
			var res compute.Result
			if err := json.Unmarshal(raw, &res); err == nil {
				c.metrics.L2Hits.Add(1)
				c.l1.Add(key, res)
				return res, nil
			}
		} else if err != nil {
			c.metrics.L2Errors.Add(1)
		}
	}

	v, err, _ := c.coalescer.Do(key, func() (interface{}, error) {
		res, err := fn(ctx)
		if err != nil {
			return compute.Result{}, err
		}
		c.l1.Add(key, res)
		if c.l2 != nil {
			if raw, mErr := json.Marshal(res); mErr == nil {
				if sErr := c.l2.Set(ctx, key, raw, c.l2TTL); sErr != nil {
					c.metrics.L2Errors.Add(1)
				}
			}
		}
		return res, nil
	})
	if err != nil {
		c.metrics.Misses.Add(1)
		return compute.Result{}, fmt.Errorf("cache: fetch %s: %w", key, err)
	}
	c.metrics.Misses.Add(1)
	return v.(compute.Result), nil
}

// StatsSnapshot is a point-in-time, copyable read of Metrics.
type StatsSnapshot struct {
	L1Hits, L2Hits, Misses, L2Errors int64
}

// Stats returns a snapshot of the cache's hit/miss counters for /healthz.
func (c *Cache) Stats() StatsSnapshot {
	return StatsSnapshot{
		L1Hits:   c.metrics.L1Hits.Load(),
		L2Hits:   c.metrics.L2Hits.Load(),
		Misses:   c.metrics.Misses.Load(),
		L2Errors: c.metrics.L2Errors.Load(),
	}
}
