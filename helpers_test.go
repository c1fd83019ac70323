// helpers_test.go: shared fixtures for reelcache tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	inception    = Movie{ID: "1", Title: "Inception", Genre: "Sci-Fi", Year: 2010, Rating: 9.5}
	darkKnight   = Movie{ID: "2", Title: "The Dark Knight", Genre: "Action", Year: 2008, Rating: 9.0}
	interstellar = Movie{ID: "3", Title: "Interstellar", Genre: "Sci-Fi", Year: 2014, Rating: 8.6}
	tenet        = Movie{ID: "4", Title: "Tenet", Genre: "Sci-Fi", Year: 2010, Rating: 8.05}
)

// fakeStore is a linear-scan primary store that counts its calls.
type fakeStore struct {
	mu     sync.RWMutex
	movies []Movie
	users  map[string]bool
	calls  atomic.Int64
	err    error
}

func newFakeStore(movies ...Movie) *fakeStore {
	return &fakeStore{movies: movies, users: map[string]bool{"u1": true, "u2": true}}
}

func (s *fakeStore) QueryPrimary(_ context.Context, q Query) ([]Movie, error) {
	s.calls.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []Movie
	for _, m := range s.movies {
		if q.Match(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) UserExists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id], nil
}

// recordingCollector counts MetricsCollector events.
type recordingCollector struct {
	mu        sync.Mutex
	probes    map[Tier][2]int // [miss, hit]
	searches  map[Tier]int
	evictions map[Tier]int
}

func newRecordingCollector() *recordingCollector {
	return &recordingCollector{
		probes:    make(map[Tier][2]int),
		searches:  make(map[Tier]int),
		evictions: make(map[Tier]int),
	}
}

func (r *recordingCollector) RecordProbe(tier Tier, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.probes[tier]
	if hit {
		p[1]++
	} else {
		p[0]++
	}
	r.probes[tier] = p
}

func (r *recordingCollector) RecordSearch(tier Tier, latencyNs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches[tier]++
}

func (r *recordingCollector) RecordEviction(tier Tier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictions[tier]++
}

func newTestCoordinator(t *testing.T, store *fakeStore, cfg Config) *Coordinator {
	t.Helper()
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = &LogicalClock{}
	}
	c, err := New(store, store, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func titles(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Movie.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
