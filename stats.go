// stats.go: hit accounting per resolution tier
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"fmt"
	"sync/atomic"
)

// Stats holds monotonic counters for the coordinator. Counters only grow;
// clearing a tier never resets them.
type Stats struct {
	l1Hits       atomic.Uint64
	l2Hits       atomic.Uint64
	primaryHits  atomic.Uint64
	totalQueries atomic.Uint64
}

// record counts one resolved query against the tier that resolved it.
func (s *Stats) record(tier Tier) {
	switch tier {
	case TierL1:
		s.l1Hits.Add(1)
	case TierL2:
		s.l2Hits.Add(1)
	case TierPrimary:
		s.primaryHits.Add(1)
	}
	s.totalQueries.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		L1Hits:        s.l1Hits.Load(),
		L2Hits:        s.l2Hits.Load(),
		PrimaryHits:   s.primaryHits.Load(),
		TotalSearches: s.totalQueries.Load(),
	}
}

// StatsSnapshot is an immutable view of Stats.
type StatsSnapshot struct {
	// L1Hits is the number of searches answered from a user's L1 bucket
	L1Hits uint64 `json:"l1_hits"`

	// L2Hits is the number of searches answered from the shared L2 tier
	L2Hits uint64 `json:"l2_hits"`

	// PrimaryHits is the number of searches that missed both tiers
	PrimaryHits uint64 `json:"primary_store_hits"`

	// TotalSearches is the number of successful searches
	TotalSearches uint64 `json:"total_searches"`
}

// HitRatio returns the share of searches answered by either cache tier as
// a percentage (0-100). Returns 0.0 before the first search.
func (s StatsSnapshot) HitRatio() float64 {
	if s.TotalSearches == 0 {
		return 0
	}
	return float64(s.L1Hits+s.L2Hits) / float64(s.TotalSearches) * 100
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"L1 Cache Hits: %d\nL2 Cache Hits: %d\nPrimary Store Hits: %d\nTotal Searches: %d",
		s.L1Hits, s.L2Hits, s.PrimaryHits, s.TotalSearches,
	)
}
