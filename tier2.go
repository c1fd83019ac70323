// tier2.go: shared bounded frequency tier
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"container/list"
	"sync"
)

// Tier2Cache is a single bounded mapping shared by all users. A full tier
// evicts the entry with the smallest access frequency; among equal
// frequencies the entry inserted earliest goes first.
//
// All operations run under one lock since every user shares this state.
type Tier2Cache struct {
	mu        sync.Mutex
	entries   map[string]*list.Element
	order     *list.List // of *Entry, oldest insertion at the front
	maxGlobal int

	now       func() int64
	onEvict   func(tier Tier, key string)
	collector MetricsCollector
}

// NewTier2Cache creates an empty L2 tier holding at most maxGlobal entries.
func NewTier2Cache(maxGlobal int, timeProvider TimeProvider) (*Tier2Cache, error) {
	if maxGlobal <= 0 {
		return nil, NewErrInvalidCapacity(TierL2, maxGlobal)
	}
	if timeProvider == nil {
		timeProvider = &systemTimeProvider{}
	}
	return &Tier2Cache{
		entries:   make(map[string]*list.Element),
		order:     list.New(),
		maxGlobal: maxGlobal,
		now:       timeProvider.Now,
		collector: NoOpMetricsCollector{},
	}, nil
}

// Get returns a snapshot of the results cached under key and increments
// the entry's frequency. A miss changes nothing.
func (c *Tier2Cache) Get(key string) ([]Movie, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*Entry)
	e.touch(c.now())
	return e.Snapshot(), true
}

// Put stores results under key as a fresh entry (frequency 1) at the back
// of the insertion order. A full tier always evicts its least frequently
// accessed entry first, even when key is already cached.
func (c *Tier2Cache) Put(key string, results []Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxGlobal {
		c.evictLocked()
	}
	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
	}
	c.entries[key] = c.order.PushBack(newEntry(key, results, c.now()))
}

// evictLocked removes the first entry, in insertion order, with the
// minimum frequency.
func (c *Tier2Cache) evictLocked() {
	var victim *list.Element
	for el := c.order.Front(); el != nil; el = el.Next() {
		if victim == nil || el.Value.(*Entry).frequency < victim.Value.(*Entry).frequency {
			victim = el
		}
	}
	if victim == nil {
		return
	}
	key := victim.Value.(*Entry).key
	c.order.Remove(victim)
	delete(c.entries, key)

	c.collector.RecordEviction(TierL2)
	if c.onEvict != nil {
		c.onEvict(TierL2, key)
	}
}

// Contains reports whether key is cached without touching it.
func (c *Tier2Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Frequency returns the access count of key, or 0 when it is not cached.
func (c *Tier2Cache) Frequency(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		return el.Value.(*Entry).frequency
	}
	return 0
}

// Keys returns the cached keys in insertion order.
func (c *Tier2Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*Entry).key)
	}
	return keys
}

// Len returns the number of cached entries.
func (c *Tier2Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the bound of the tier.
func (c *Tier2Cache) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxGlobal
}

// Clear removes all entries. Cleared entries are not reported as evictions.
func (c *Tier2Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
}

// Resize changes the bound, evicting least frequently accessed entries
// until the tier fits. Returns the number of entries evicted.
func (c *Tier2Cache) Resize(maxGlobal int) (int, error) {
	if maxGlobal <= 0 {
		return 0, NewErrInvalidCapacity(TierL2, maxGlobal)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxGlobal = maxGlobal
	evicted := 0
	for len(c.entries) > maxGlobal {
		c.evictLocked()
		evicted++
	}
	return evicted, nil
}
