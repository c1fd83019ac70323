// coordinator_test.go: tests for the lookup chain
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"context"
	goerrors "errors"
	"testing"
)

func resolvedIn(t *testing.T, results []Result, want Tier) {
	t.Helper()
	for _, r := range results {
		if r.FoundIn != want {
			t.Errorf("%s resolved in %s, want %s", r.Movie.Title, r.FoundIn, want)
		}
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	store := newFakeStore()
	if _, err := New(nil, store, Config{}); !IsConfigError(err) {
		t.Errorf("expected config error for nil store, got %v", err)
	}
	if _, err := New(store, nil, Config{}); !IsConfigError(err) {
		t.Errorf("expected config error for nil registry, got %v", err)
	}

	c, err := New(store, store, Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.L1().Capacity() != DefaultMaxPerUser || c.L2().Capacity() != DefaultMaxGlobal {
		t.Errorf("expected default capacities, got %d/%d", c.L1().Capacity(), c.L2().Capacity())
	}
}

func TestCoordinator_EndToEnd(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception)
	c := newTestCoordinator(t, store, Config{})

	steps := []struct {
		user string
		want Tier
	}{
		{"u1", TierPrimary},
		{"u1", TierL1},
		{"u2", TierL2},
		{"u2", TierL1},
	}
	for i, step := range steps {
		results, err := c.Search(ctx, step.user, KindGenre, "Sci-Fi")
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if !equalStrings(titles(results), []string{"Inception"}) {
			t.Errorf("step %d: unexpected results %v", i, titles(results))
		}
		resolvedIn(t, results, step.want)
	}

	if store.calls.Load() != 1 {
		t.Errorf("expected one primary call, got %d", store.calls.Load())
	}
	want := StatsSnapshot{L1Hits: 2, L2Hits: 1, PrimaryHits: 1, TotalSearches: 4}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestCoordinator_EmptyResultIsCached(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception)
	c := newTestCoordinator(t, store, Config{})

	for i := 0; i < 2; i++ {
		results, err := c.Search(ctx, "u1", KindTitle, "Nope")
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 0 {
			t.Errorf("call %d: expected no results, got %v", i, titles(results))
		}
	}
	want := StatsSnapshot{L1Hits: 1, PrimaryHits: 1, TotalSearches: 2}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	if store.calls.Load() != 1 {
		t.Errorf("expected one primary call, got %d", store.calls.Load())
	}
}

func TestCoordinator_CachedResultsMatchPrimary(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception, darkKnight, interstellar, tenet)
	c := newTestCoordinator(t, store, Config{})

	queries := []Query{
		ByGenre("Sci-Fi"), ByYear("2010"), ByTitle("Tenet"), Multi("Sci-Fi", 2010, 8.0),
	}
	for _, q := range queries {
		fresh, _ := store.QueryPrimary(ctx, q)
		for _, user := range []string{"u1", "u1", "u2"} {
			results, err := c.Resolve(ctx, user, q)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != len(fresh) {
				t.Fatalf("%s: got %d results, want %d", q, len(results), len(fresh))
			}
			for i := range fresh {
				if results[i].Movie != fresh[i] {
					t.Errorf("%s[%d]: got %+v, want %+v", q, i, results[i].Movie, fresh[i])
				}
			}
		}
	}
}

func TestCoordinator_PrimaryOrderPreserved(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t, newFakeStore(interstellar, inception, tenet), Config{})

	want := []string{"Interstellar", "Inception", "Tenet"}
	for i := 0; i < 2; i++ {
		results, err := c.Search(ctx, "u1", KindGenre, "Sci-Fi")
		if err != nil {
			t.Fatal(err)
		}
		if !equalStrings(titles(results), want) {
			t.Errorf("call %d: got %v, want %v", i, titles(results), want)
		}
	}
}

func TestCoordinator_UnknownUser(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception)
	c := newTestCoordinator(t, store, Config{})

	_, err := c.Search(ctx, "ghost", KindGenre, "Sci-Fi")
	if !IsUnknownUser(err) {
		t.Fatalf("expected unknown user, got %v", err)
	}
	if GetErrorContext(err)["user_id"] != "ghost" {
		t.Errorf("expected user_id in context, got %v", GetErrorContext(err))
	}
	if _, err := c.SearchMulti(ctx, "ghost", "Sci-Fi", 2010, 1); !IsUnknownUser(err) {
		t.Errorf("expected unknown user from SearchMulti, got %v", err)
	}

	if store.calls.Load() != 0 {
		t.Error("unknown user must not reach the primary store")
	}
	if c.L1().Users() != 0 || c.L2().Len() != 0 {
		t.Error("unknown user must not populate any tier")
	}
	if c.Stats() != (StatsSnapshot{}) {
		t.Errorf("unknown user must not change stats: %+v", c.Stats())
	}
}

func TestCoordinator_InvalidQuery(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception)
	c := newTestCoordinator(t, store, Config{})

	if _, err := c.Search(ctx, "u1", KindMulti, "x"); !IsInvalidQuery(err) {
		t.Errorf("expected invalid query, got %v", err)
	}
	if _, err := c.Resolve(ctx, "u1", Query{}); !IsInvalidQuery(err) {
		t.Errorf("expected invalid query for zero descriptor, got %v", err)
	}
	if store.calls.Load() != 0 || c.Stats().TotalSearches != 0 {
		t.Error("invalid query must not touch store or stats")
	}
}

func TestCoordinator_PrimaryFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception)
	store.err = goerrors.New("disk on fire")
	c := newTestCoordinator(t, store, Config{})

	_, err := c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	if GetErrorCode(err) != ErrCodePrimaryFailed {
		t.Fatalf("expected primary failure, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("primary failure should be retryable")
	}
	if c.L1().Len("u1") != 0 || c.L2().Len() != 0 {
		t.Error("failed load must not populate tiers")
	}
	if c.Stats() != (StatsSnapshot{}) {
		t.Errorf("failed load must not change stats: %+v", c.Stats())
	}

	store.err = nil
	results, err := c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	if err != nil {
		t.Fatal(err)
	}
	resolvedIn(t, results, TierPrimary)
}

func TestCoordinator_Promotion(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t, newFakeStore(darkKnight), Config{})

	if _, err := c.Search(ctx, "u1", KindYear, "2008"); err != nil {
		t.Fatal(err)
	}
	if c.L1().Contains("u2", "YEAR:2008") {
		t.Fatal("u2 must not have an L1 entry yet")
	}

	results, _ := c.Search(ctx, "u2", KindYear, "2008")
	resolvedIn(t, results, TierL2)
	if !c.L1().Contains("u2", "YEAR:2008") {
		t.Error("L2 hit must promote into the user's L1 bucket")
	}

	results, _ = c.Search(ctx, "u2", KindYear, "2008")
	resolvedIn(t, results, TierL1)
}

func TestCoordinator_PopulatesBothTiersOnMiss(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t, newFakeStore(darkKnight), Config{})

	if _, err := c.SearchMulti(ctx, "u1", "Action", 2008, 8.0); err != nil {
		t.Fatal(err)
	}
	key := Multi("Action", 2008, 8.0).Key()
	if !c.L1().Contains("u1", key) || !c.L2().Contains(key) {
		t.Error("a full miss must populate L1 and L2")
	}
	if e, _ := c.L1().Peek("u1", key); e.Frequency() != 1 {
		t.Errorf("population must not count as an access, frequency %d", e.Frequency())
	}
	if c.L2().Frequency(key) != 1 {
		t.Errorf("population must not count as an access, frequency %d", c.L2().Frequency(key))
	}
}

func TestCoordinator_IsolationBetweenUsers(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t, newFakeStore(inception, darkKnight), Config{})

	_, _ = c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	_, _ = c.Search(ctx, "u2", KindGenre, "Action")
	freq := c.L2().Frequency("GENRE:Action")
	keysU2 := c.L1().Keys("u2")

	results, _ := c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	resolvedIn(t, results, TierL1)

	if c.L2().Frequency("GENRE:Action") != freq || c.L2().Frequency("GENRE:Sci-Fi") != 1 {
		t.Error("an L1 hit must not touch L2")
	}
	if !equalStrings(c.L1().Keys("u2"), keysU2) {
		t.Error("an L1 hit for u1 must not touch u2's bucket")
	}
}

func TestCoordinator_MultiKeyCollision(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception, tenet)
	c := newTestCoordinator(t, store, Config{})

	// 8.04 admits Tenet (8.05); 8.06 would not, but shares the cache key.
	first, _ := c.SearchMulti(ctx, "u1", "Sci-Fi", 2010, 8.04)
	second, _ := c.SearchMulti(ctx, "u1", "Sci-Fi", 2010, 8.06)

	if !equalStrings(titles(first), []string{"Inception", "Tenet"}) {
		t.Errorf("unexpected first results %v", titles(first))
	}
	resolvedIn(t, second, TierL1)
	if !equalStrings(titles(second), titles(first)) {
		t.Errorf("colliding key should serve the cached set, got %v", titles(second))
	}
	if store.calls.Load() != 1 {
		t.Errorf("expected a single primary call, got %d", store.calls.Load())
	}
}

func TestCoordinator_ClearCache(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(inception)
	c := newTestCoordinator(t, store, Config{})

	_, _ = c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	before := c.Stats()

	if err := c.ClearCache(TierL1); err != nil {
		t.Fatal(err)
	}
	if c.Stats() != before {
		t.Error("ClearCache must not reset stats")
	}
	if !c.L2().Contains("GENRE:Sci-Fi") {
		t.Error("clearing L1 must not touch L2")
	}

	results, _ := c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	resolvedIn(t, results, TierL2)

	if err := c.ClearCache(TierL2); err != nil {
		t.Fatal(err)
	}
	if !c.L1().Contains("u1", "GENRE:Sci-Fi") {
		t.Error("clearing L2 must not touch L1")
	}

	_ = c.ClearCache(TierL1)
	results, _ = c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	resolvedIn(t, results, TierPrimary)
}

func TestCoordinator_ClearCacheInvalidLevel(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t, newFakeStore(inception), Config{})
	_, _ = c.Search(ctx, "u1", KindGenre, "Sci-Fi")

	for _, tier := range []Tier{TierPrimary, 0, 42} {
		if err := c.ClearCache(tier); !IsInvalidCacheLevel(err) {
			t.Errorf("ClearCache(%s): expected invalid cache level, got %v", tier, err)
		}
	}
	if c.L1().Len("u1") != 1 || c.L2().Len() != 1 {
		t.Error("a rejected clear must leave both tiers intact")
	}
}

func TestCoordinator_StatsInvariants(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t, newFakeStore(inception, darkKnight, interstellar), Config{MaxPerUser: 2, MaxGlobal: 3})

	values := []string{"Sci-Fi", "Action", "Drama", "Sci-Fi", "Comedy", "Action"}
	n := 0
	for i := 0; i < 60; i++ {
		user := []string{"u1", "u2"}[i%2]
		if _, err := c.Search(ctx, user, KindGenre, values[i%len(values)]); err != nil {
			t.Fatal(err)
		}
		n++

		s := c.Stats()
		if s.TotalSearches != uint64(n) || s.L1Hits+s.L2Hits+s.PrimaryHits != uint64(n) {
			t.Fatalf("after %d searches: %+v", n, s)
		}
		if c.L1().Len(user) > 2 || c.L2().Len() > 3 {
			t.Fatalf("capacity exceeded: L1=%d L2=%d", c.L1().Len(user), c.L2().Len())
		}
	}
}

func TestCoordinator_MetricsAndEvictions(t *testing.T) {
	ctx := context.Background()
	rec := newRecordingCollector()
	var evicted []string
	c := newTestCoordinator(t, newFakeStore(inception, darkKnight), Config{
		MaxPerUser:       1,
		MaxGlobal:        1,
		MetricsCollector: rec,
		OnEvict:          func(tier Tier, key string) { evicted = append(evicted, tier.String()+"/"+key) },
	})

	_, _ = c.Search(ctx, "u1", KindGenre, "Sci-Fi") // primary
	_, _ = c.Search(ctx, "u1", KindGenre, "Sci-Fi") // L1
	_, _ = c.Search(ctx, "u1", KindGenre, "Action") // primary, evicts both tiers

	if rec.searches[TierPrimary] != 2 || rec.searches[TierL1] != 1 {
		t.Errorf("unexpected searches %v", rec.searches)
	}
	if rec.probes[TierL1] != [2]int{2, 1} || rec.probes[TierL2] != [2]int{2, 0} {
		t.Errorf("unexpected probes %v", rec.probes)
	}
	if rec.evictions[TierL1] != 1 || rec.evictions[TierL2] != 1 {
		t.Errorf("unexpected evictions %v", rec.evictions)
	}
	if !equalStrings(evicted, []string{"L1/GENRE:Sci-Fi", "L2/GENRE:Sci-Fi"}) {
		t.Errorf("unexpected OnEvict calls %v", evicted)
	}
}

func TestCoordinator_Resize(t *testing.T) {
	ctx := context.Background()
	c := newTestCoordinator(t, newFakeStore(inception, darkKnight), Config{})
	_, _ = c.Search(ctx, "u1", KindGenre, "Sci-Fi")
	_, _ = c.Search(ctx, "u1", KindGenre, "Action")

	if err := c.Resize(0, 10); !IsConfigError(err) {
		t.Errorf("expected config error, got %v", err)
	}
	if c.Config().MaxPerUser != DefaultMaxPerUser {
		t.Error("a rejected resize must not change the config")
	}

	if err := c.Resize(1, 1); err != nil {
		t.Fatal(err)
	}
	if c.L1().Len("u1") != 1 || c.L2().Len() != 1 {
		t.Errorf("expected both tiers shrunk to 1, got %d/%d", c.L1().Len("u1"), c.L2().Len())
	}
	cfg := c.Config()
	if cfg.MaxPerUser != 1 || cfg.MaxGlobal != 1 {
		t.Errorf("config not updated: %+v", cfg)
	}
}
