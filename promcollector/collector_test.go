// collector_test.go: tests for the Prometheus metrics collector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package promcollector

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agilira/reelcache"
)

func TestCollector_RecordProbe(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.RecordProbe(reelcache.TierL1, true)
	c.RecordProbe(reelcache.TierL1, true)
	c.RecordProbe(reelcache.TierL1, false)
	c.RecordProbe(reelcache.TierL2, false)

	tests := []struct {
		tier, result string
		want         float64
	}{
		{"L1", "hit", 2},
		{"L1", "miss", 1},
		{"L2", "miss", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(c.probes.WithLabelValues(tt.tier, tt.result))
		if got != tt.want {
			t.Errorf("probes{%s,%s} = %v, want %v", tt.tier, tt.result, got, tt.want)
		}
	}
}

func TestCollector_RecordSearch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordSearch(reelcache.TierPrimary, 2_000_000)
	c.RecordSearch(reelcache.TierL2, 1_000)

	if got := testutil.ToFloat64(c.searches.WithLabelValues("PRIMARY_STORE")); got != 1 {
		t.Errorf("searches{PRIMARY_STORE} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.searchDuration); got != 2 {
		t.Errorf("expected 2 duration series, got %d", got)
	}

	expected := `
# HELP reelcache_searches_total Total number of searches by resolving tier.
# TYPE reelcache_searches_total counter
reelcache_searches_total{tier="L2"} 1
reelcache_searches_total{tier="PRIMARY_STORE"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "reelcache_searches_total"); err != nil {
		t.Error(err)
	}
}

func TestCollector_RecordEviction(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.RecordEviction(reelcache.TierL1)
	c.RecordEviction(reelcache.TierL2)
	c.RecordEviction(reelcache.TierL2)

	if got := testutil.ToFloat64(c.evictions.WithLabelValues("L2")); got != 2 {
		t.Errorf("evictions{L2} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.evictions.WithLabelValues("L1")); got != 1 {
		t.Errorf("evictions{L1} = %v, want 1", got)
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = New(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	_ = New(reg)
}
