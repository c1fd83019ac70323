// coordinator.go: the L1 -> L2 -> primary store lookup chain
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Coordinator resolves searches through the cache hierarchy: the user's L1
// bucket, then the shared L2 tier, then the primary store. An L2 hit is
// promoted into the user's L1 bucket; a full miss populates both tiers.
//
// Thread-safety: all methods are safe for concurrent use. Concurrent full
// misses on the same key share a single primary store call.
type Coordinator struct {
	store PrimaryStore
	users UserRegistry

	l1    *Tier1Cache
	l2    *Tier2Cache
	stats Stats
	loads singleflight.Group

	logger    Logger
	collector MetricsCollector

	mu     sync.RWMutex
	config Config
}

// New creates a coordinator over store, admitting users known to users.
// The configuration is normalized with Config.Validate.
func New(store PrimaryStore, users UserRegistry, config Config) (*Coordinator, error) {
	if store == nil {
		return nil, NewErrInvalidConfig("primary store is required")
	}
	if users == nil {
		return nil, NewErrInvalidConfig("user registry is required")
	}
	// Validate only normalizes and never returns an error.
	_ = config.Validate()

	l1, err := NewTier1Cache(config.MaxPerUser, config.TimeProvider)
	if err != nil {
		return nil, err
	}
	l2, err := NewTier2Cache(config.MaxGlobal, config.TimeProvider)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	userOnEvict := config.OnEvict
	onEvict := func(tier Tier, key string) {
		logger.Debug("cache entry evicted", "tier", tier.String(), "key", key)
		if userOnEvict != nil {
			userOnEvict(tier, key)
		}
	}
	l1.collector, l1.onEvict = config.MetricsCollector, onEvict
	l2.collector, l2.onEvict = config.MetricsCollector, onEvict

	return &Coordinator{
		store:     store,
		users:     users,
		l1:        l1,
		l2:        l2,
		logger:    logger,
		collector: config.MetricsCollector,
		config:    config,
	}, nil
}

// Search runs a single-field search. Kinds other than KindTitle, KindGenre
// and KindYear are rejected before any lookup.
func (c *Coordinator) Search(ctx context.Context, userID string, kind QueryKind, value string) ([]Result, error) {
	q, err := NewFieldQuery(kind, value)
	if err != nil {
		return nil, err
	}
	return c.Resolve(ctx, userID, q)
}

// SearchMulti runs a genre + year + minimum rating search.
func (c *Coordinator) SearchMulti(ctx context.Context, userID, genre string, year int, minRating float64) ([]Result, error) {
	return c.Resolve(ctx, userID, Multi(genre, year, minRating))
}

// Resolve answers q for userID and tags every result with the tier that
// produced it. Results keep the order of the resolving source.
//
// Returns:
//   - REELCACHE_INVALID_QUERY if q was not built by a constructor
//   - REELCACHE_UNKNOWN_USER if userID is not registered
//   - REELCACHE_REGISTRY_FAILED or REELCACHE_PRIMARY_FAILED when a
//     collaborator fails
//
// A failed call changes neither the tiers nor the statistics.
func (c *Coordinator) Resolve(ctx context.Context, userID string, q Query) ([]Result, error) {
	if !q.Valid() {
		return nil, NewErrInvalidQuery(q.Kind().String())
	}

	known, err := c.users.UserExists(ctx, userID)
	if err != nil {
		return nil, NewErrRegistryFailed(userID, err)
	}
	if !known {
		return nil, NewErrUnknownUser(userID)
	}

	start := time.Now()
	key := q.Key()
	movies, tier, err := c.lookup(ctx, userID, key, q)
	if err != nil {
		c.logger.Warn("search failed", "user", userID, "key", key, "error", err)
		return nil, err
	}

	c.stats.record(tier)
	c.collector.RecordSearch(tier, time.Since(start).Nanoseconds())
	c.logger.Debug("search resolved", "user", userID, "key", key, "tier", tier.String(), "results", len(movies))

	results := make([]Result, len(movies))
	for i, m := range movies {
		results[i] = Result{Movie: m, FoundIn: tier}
	}
	return results, nil
}

func (c *Coordinator) lookup(ctx context.Context, userID, key string, q Query) ([]Movie, Tier, error) {
	if movies, ok := c.l1.Get(userID, key); ok {
		c.collector.RecordProbe(TierL1, true)
		return movies, TierL1, nil
	}
	c.collector.RecordProbe(TierL1, false)

	if movies, ok := c.l2.Get(key); ok {
		c.collector.RecordProbe(TierL2, true)
		c.l1.Put(userID, key, movies)
		return movies, TierL2, nil
	}
	c.collector.RecordProbe(TierL2, false)

	movies, err := c.loadPrimary(ctx, key, q)
	if err != nil {
		return nil, 0, err
	}
	c.l1.Put(userID, key, movies)
	c.l2.Put(key, movies)
	return movies, TierPrimary, nil
}

// loadPrimary fetches the complete result set before anything is cached.
// The shared call runs detached from any single caller's cancellation;
// each caller stops waiting when its own ctx is done.
func (c *Coordinator) loadPrimary(ctx context.Context, key string, q Query) ([]Movie, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(key, func() (interface{}, error) {
		return c.store.QueryPrimary(detached, q)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, NewErrPrimaryFailed(key, res.Err)
		}
		if res.Shared {
			c.logger.Debug("primary load shared", "key", key)
		}
		movies, _ := res.Val.([]Movie)
		return movies, nil
	case <-ctx.Done():
		return nil, NewErrPrimaryFailed(key, ctx.Err())
	}
}

// ClearCache empties one tier. Only TierL1 and TierL2 can be cleared; the
// other tier and the statistics are left as they are.
func (c *Coordinator) ClearCache(tier Tier) error {
	switch tier {
	case TierL1:
		c.l1.Clear()
	case TierL2:
		c.l2.Clear()
	default:
		return NewErrInvalidCacheLevel(tier.String())
	}
	c.logger.Info("cache cleared", "tier", tier.String())
	return nil
}

// Resize changes both tier bounds. Both values are checked before either
// tier is touched.
func (c *Coordinator) Resize(maxPerUser, maxGlobal int) error {
	if maxPerUser <= 0 {
		return NewErrInvalidCapacity(TierL1, maxPerUser)
	}
	if maxGlobal <= 0 {
		return NewErrInvalidCapacity(TierL2, maxGlobal)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	evictedL1, _ := c.l1.Resize(maxPerUser)
	evictedL2, _ := c.l2.Resize(maxGlobal)
	c.config.MaxPerUser = maxPerUser
	c.config.MaxGlobal = maxGlobal

	c.logger.Info("cache resized",
		"max_per_user", maxPerUser, "max_global", maxGlobal,
		"evicted_l1", evictedL1, "evicted_l2", evictedL2)
	return nil
}

// Stats returns a snapshot of the hit counters.
func (c *Coordinator) Stats() StatsSnapshot {
	return c.stats.Snapshot()
}

// Config returns the active configuration.
func (c *Coordinator) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// L1 exposes the per-user tier for inspection.
func (c *Coordinator) L1() *Tier1Cache { return c.l1 }

// L2 exposes the shared tier for inspection.
func (c *Coordinator) L2() *Tier2Cache { return c.l2 }

// Logger returns the configured logger.
func (c *Coordinator) Logger() Logger { return c.logger }
