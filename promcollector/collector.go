// collector.go: Prometheus metrics for reelcache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package promcollector implements reelcache.MetricsCollector on top of
// the Prometheus client library.
package promcollector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agilira/reelcache"
)

// Collector records reelcache events as Prometheus metrics:
//   - reelcache_probes_total{tier, result}
//   - reelcache_searches_total{tier}
//   - reelcache_search_duration_seconds{tier}
//   - reelcache_evictions_total{tier}
type Collector struct {
	probes         *prometheus.CounterVec
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	evictions      *prometheus.CounterVec
}

// New registers the reelcache metrics with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		probes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelcache_probes_total",
				Help: "Total number of L1 and L2 lookups by result.",
			},
			[]string{"tier", "result"},
		),
		searches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelcache_searches_total",
				Help: "Total number of searches by resolving tier.",
			},
			[]string{"tier"},
		),
		searchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reelcache_search_duration_seconds",
				Help:    "Duration of searches in seconds.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"tier"},
		),
		evictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelcache_evictions_total",
				Help: "Total number of capacity evictions.",
			},
			[]string{"tier"},
		),
	}
}

// RecordProbe implements reelcache.MetricsCollector.
func (c *Collector) RecordProbe(tier reelcache.Tier, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.probes.WithLabelValues(tier.String(), result).Inc()
}

// RecordSearch implements reelcache.MetricsCollector.
func (c *Collector) RecordSearch(tier reelcache.Tier, latencyNs int64) {
	c.searches.WithLabelValues(tier.String()).Inc()
	c.searchDuration.WithLabelValues(tier.String()).Observe(float64(latencyNs) / 1e9)
}

// RecordEviction implements reelcache.MetricsCollector.
func (c *Collector) RecordEviction(tier reelcache.Tier) {
	c.evictions.WithLabelValues(tier.String()).Inc()
}

var _ reelcache.MetricsCollector = (*Collector)(nil)
