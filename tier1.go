// tier1.go: per-user bounded recency tier
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Tier1Cache keeps an independent bounded bucket for every user. A full
// bucket evicts its least recently accessed entry; because access order
// and the TimeProvider advance together, that is the entry with the
// smallest LastAccessed, with ties going to the entry touched first.
//
// Each bucket has its own lock, so users never contend with each other.
type Tier1Cache struct {
	mu         sync.RWMutex
	buckets    map[string]*userBucket
	maxPerUser int

	now       func() int64
	onEvict   func(tier Tier, key string)
	collector MetricsCollector
}

type userBucket struct {
	mu   sync.Mutex
	size int
	lru  *simplelru.LRU[string, *Entry]
}

// NewTier1Cache creates an empty L1 tier holding at most maxPerUser
// entries per user.
func NewTier1Cache(maxPerUser int, timeProvider TimeProvider) (*Tier1Cache, error) {
	if maxPerUser <= 0 {
		return nil, NewErrInvalidCapacity(TierL1, maxPerUser)
	}
	if timeProvider == nil {
		timeProvider = &systemTimeProvider{}
	}
	return &Tier1Cache{
		buckets:    make(map[string]*userBucket),
		maxPerUser: maxPerUser,
		now:        timeProvider.Now,
		collector:  NoOpMetricsCollector{},
	}, nil
}

func (c *Tier1Cache) bucket(userID string, create bool) *userBucket {
	c.mu.RLock()
	b := c.buckets[userID]
	c.mu.RUnlock()
	if b != nil || !create {
		return b
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if b = c.buckets[userID]; b != nil {
		return b
	}
	b = &userBucket{size: c.maxPerUser}
	// Size is validated in the constructor and in Resize, NewLRU cannot fail.
	b.lru, _ = simplelru.NewLRU[string, *Entry](c.maxPerUser, func(key string, _ *Entry) {
		c.collector.RecordEviction(TierL1)
		if c.onEvict != nil {
			c.onEvict(TierL1, key)
		}
	})
	c.buckets[userID] = b
	return b
}

// Get returns a snapshot of the results cached for (userID, key) and
// marks the entry as accessed. A miss leaves all bookkeeping untouched.
func (c *Tier1Cache) Get(userID, key string) ([]Movie, bool) {
	b := c.bucket(userID, false)
	if b == nil {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.lru.Get(key)
	if !ok {
		return nil, false
	}
	e.touch(c.now())
	return e.Snapshot(), true
}

// Put stores results for (userID, key), creating the user's bucket on
// first write. A full bucket always evicts its least recently accessed
// entry first, even when key is already cached; if that victim was key
// itself the fresh entry simply takes its place.
func (c *Tier1Cache) Put(userID, key string, results []Movie) {
	b := c.bucket(userID, true)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lru.Len() >= b.size {
		b.lru.RemoveOldest()
	}
	b.lru.Add(key, newEntry(key, results, c.now()))
}

// Contains reports whether (userID, key) is cached without touching it.
func (c *Tier1Cache) Contains(userID, key string) bool {
	b := c.bucket(userID, false)
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lru.Contains(key)
}

// Peek returns the entry for (userID, key) without touching it.
// The returned entry must be treated as read-only.
func (c *Tier1Cache) Peek(userID, key string) (*Entry, bool) {
	b := c.bucket(userID, false)
	if b == nil {
		return nil, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lru.Peek(key)
}

// Keys returns the keys cached for userID, least recently accessed first.
func (c *Tier1Cache) Keys(userID string) []string {
	b := c.bucket(userID, false)
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lru.Keys()
}

// Len returns the number of entries cached for userID.
func (c *Tier1Cache) Len(userID string) int {
	b := c.bucket(userID, false)
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lru.Len()
}

// Users returns the number of users with a bucket.
func (c *Tier1Cache) Users() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buckets)
}

// Capacity returns the per-user bound.
func (c *Tier1Cache) Capacity() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxPerUser
}

// Clear drops every bucket. Cleared entries are not reported as evictions.
func (c *Tier1Cache) Clear() {
	c.mu.Lock()
	c.buckets = make(map[string]*userBucket)
	c.mu.Unlock()
}

// Resize changes the per-user bound. Buckets larger than the new bound
// evict their least recently accessed entries. Returns the number of
// entries evicted across all users.
func (c *Tier1Cache) Resize(maxPerUser int) (int, error) {
	if maxPerUser <= 0 {
		return 0, NewErrInvalidCapacity(TierL1, maxPerUser)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxPerUser = maxPerUser
	evicted := 0
	for _, b := range c.buckets {
		b.mu.Lock()
		b.size = maxPerUser
		evicted += b.lru.Resize(maxPerUser)
		b.mu.Unlock()
	}
	return evicted, nil
}
