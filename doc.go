// Package reelcache provides a two-tier, bounded lookup cache for keyed
// searches over a small movie catalog.
//
// # Overview
//
// Every search carries a user identity and a query descriptor. The
// Coordinator derives a deterministic cache key from the descriptor and
// walks the hierarchy:
//
//   - L1: the user's own bucket, bounded by MaxPerUser, recency evicted
//   - L2: one tier shared by all users, bounded by MaxGlobal, frequency evicted
//   - Primary store: the authoritative catalog, scanned linearly
//
// An L2 hit is promoted into the requesting user's L1 bucket. A full miss
// populates both L1 and L2 with the complete result set. Each search is
// counted exactly once against the tier that resolved it.
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/reelcache"
//	    "github.com/agilira/reelcache/catalog"
//	)
//
//	func main() {
//	    cat := catalog.New()
//	    _ = cat.AddMovie(reelcache.Movie{ID: "1", Title: "Inception", Genre: "Sci-Fi", Year: 2010, Rating: 9.5})
//	    _ = cat.AddUser(reelcache.User{ID: "1", Name: "John", PreferredGenre: "Action"})
//
//	    coord, err := reelcache.New(cat, cat, reelcache.DefaultConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    results, _ := coord.Search(ctx, "1", reelcache.KindGenre, "Sci-Fi")
//	    for _, r := range results {
//	        fmt.Println(r) // Inception (Found in PRIMARY_STORE)
//	    }
//	}
//
// # Cache Keys
//
// Single-field queries key on "<KIND>:<value>", for example "GENRE:Sci-Fi".
// Multi-field queries key on "MULTI:<genre>:<year>:<rating>" with the
// rating truncated to one decimal. Two thresholds that only differ past the
// first decimal, such as 8.04 and 8.06, therefore share one entry, and the
// first one resolved decides what the other is served.
//
// # Eviction
//
// L1 buckets evict the entry with the oldest access. Recency is stamped by
// Config.TimeProvider; LogicalClock gives a strictly increasing tick so
// that eviction order in tests does not depend on clock resolution.
//
// L2 evicts the entry with the lowest access count. Ties go to the entry
// inserted first.
//
// Entries are only touched by a successful Get; Put never counts as an
// access. Cached result lists are copied on the way in and on the way out.
//
// # Concurrency Model
//
// All exported types are safe for concurrent use:
//
//   - L1: one lock per user bucket, so users never contend with each other
//   - L2: a single lock for the shared tier
//   - Stats: atomic counters
//   - Primary loads: concurrent misses on one key share a single store call
//
// # Observability
//
// Built-in counters:
//
//	stats := coord.Stats()
//	fmt.Println(stats) // L1 Cache Hits: 1 ...
//
// Config.MetricsCollector receives probe, search and eviction events. The
// otel and promcollector packages provide OpenTelemetry and Prometheus
// implementations.
//
// # Error Handling
//
// reelcache uses structured errors with error codes:
//
//	_, err := coord.Search(ctx, "ghost", reelcache.KindGenre, "Drama")
//	if reelcache.IsUnknownUser(err) {
//	    // user was never registered; no cache state changed
//	}
//
// Error codes:
//   - REELCACHE_UNKNOWN_USER: search by an unregistered user
//   - REELCACHE_INVALID_CACHE_LEVEL: ClearCache with a tier other than L1 or L2
//   - REELCACHE_INVALID_QUERY: unsupported query kind
//   - REELCACHE_DUPLICATE_ID: movie or user registered twice
//   - REELCACHE_PRIMARY_FAILED, REELCACHE_REGISTRY_FAILED: collaborator failures (retryable)
//   - REELCACHE_INVALID_CONFIG, REELCACHE_INVALID_CAPACITY: configuration problems
//
// # Hot Reload
//
// HotConfig watches a configuration file with Argus and resizes both tiers
// when cache.max_per_user or cache.max_global change.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package reelcache
