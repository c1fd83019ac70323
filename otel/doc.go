// Package otel provides OpenTelemetry integration for reelcache metrics.
//
// # Overview
//
// This package implements the reelcache.MetricsCollector interface using
// OpenTelemetry. Every lookup a Coordinator performs is reported with the
// tier it touched, so the L1 and L2 hit ratios can be graphed separately
// and compared with the share of searches that fell through to the
// primary store.
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/reelcache"
//	    rcotel "github.com/agilira/reelcache/otel"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	reader := metric.NewManualReader()
//	provider := metric.NewMeterProvider(metric.WithReader(reader))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := rcotel.NewCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	coord, _ := reelcache.New(store, users, reelcache.Config{
//	    MetricsCollector: collector,
//	})
//
// Any reader or exporter accepted by the SDK MeterProvider works.
//
// # Metrics Exposed
//
//   - reelcache_probes_total{tier, result}: L1 and L2 lookups, result is
//     "hit" or "miss"
//   - reelcache_searches_total{tier}: successful searches by resolving tier
//     (L1, L2 or PRIMARY_STORE)
//   - reelcache_search_latency_ns{tier}: histogram of search latencies
//   - reelcache_evictions_total{tier}: capacity evictions; clearing a tier
//     is not counted
//
// # Useful Queries
//
// L1 hit ratio (PromQL):
//
//	sum(rate(reelcache_probes_total{tier="L1",result="hit"}[5m]))
//	  / sum(rate(reelcache_probes_total{tier="L1"}[5m]))
//
// Share of searches served by the primary store:
//
//	sum(rate(reelcache_searches_total{tier="PRIMARY_STORE"}[5m]))
//	  / sum(rate(reelcache_searches_total[5m]))
//
// # Thread Safety
//
// Collector is safe for concurrent use. Attribute sets for the known tiers
// are built once in NewCollector.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel
