// entry.go: cached result sets with access bookkeeping
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

// Entry holds one cached result set together with its access metadata.
// An entry is created on population, mutated only by touch, and dropped
// by eviction or a tier clear. Callers outside the tiers only ever see
// snapshots of its results.
//
// Entry is not synchronized; the owning tier serializes access.
type Entry struct {
	key          string
	results      []Movie
	frequency    uint64
	lastAccessed int64
}

// newEntry copies results so later mutation of the caller's slice cannot
// reach the cache.
func newEntry(key string, results []Movie, now int64) *Entry {
	return &Entry{
		key:          key,
		results:      cloneMovies(results),
		frequency:    1,
		lastAccessed: now,
	}
}

// touch records one successful read.
func (e *Entry) touch(now int64) {
	e.frequency++
	e.lastAccessed = now
}

// Key returns the cache key the entry was stored under.
func (e *Entry) Key() string { return e.key }

// Frequency returns the number of accesses, starting at 1 on creation.
func (e *Entry) Frequency() uint64 { return e.frequency }

// LastAccessed returns the time of creation or of the latest hit.
func (e *Entry) LastAccessed() int64 { return e.lastAccessed }

// Snapshot returns an independent copy of the cached results.
func (e *Entry) Snapshot() []Movie {
	return cloneMovies(e.results)
}

// cloneMovies never returns nil so that an empty cached result is still
// distinguishable from a miss.
func cloneMovies(src []Movie) []Movie {
	dst := make([]Movie, len(src))
	copy(dst, src)
	return dst
}
