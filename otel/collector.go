// collector.go: OpenTelemetry implementation of reelcache.MetricsCollector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/agilira/reelcache"
)

// Collector implements reelcache.MetricsCollector using OpenTelemetry.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
type Collector struct {
	probes        metric.Int64Counter
	searches      metric.Int64Counter
	searchLatency metric.Int64Histogram
	evictions     metric.Int64Counter

	// Attribute sets are built once per tier to keep recording allocation-free.
	tierAttrs map[reelcache.Tier]metric.MeasurementOption
	hitAttrs  map[reelcache.Tier]metric.MeasurementOption
	missAttrs map[reelcache.Tier]metric.MeasurementOption
}

// Options for configuring Collector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/reelcache"
	MeterName string
}

// Option is a functional option for configuring Collector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewCollector creates a new OpenTelemetry metrics collector.
// Returns an error if provider is nil or an instrument cannot be created.
func NewCollector(provider metric.MeterProvider, opts ...Option) (*Collector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/agilira/reelcache",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	c := &Collector{
		tierAttrs: make(map[reelcache.Tier]metric.MeasurementOption),
		hitAttrs:  make(map[reelcache.Tier]metric.MeasurementOption),
		missAttrs: make(map[reelcache.Tier]metric.MeasurementOption),
	}

	var err error
	c.probes, err = meter.Int64Counter(
		"reelcache_probes_total",
		metric.WithDescription("Total number of L1 and L2 lookups by result"),
	)
	if err != nil {
		return nil, err
	}

	c.searches, err = meter.Int64Counter(
		"reelcache_searches_total",
		metric.WithDescription("Total number of searches by resolving tier"),
	)
	if err != nil {
		return nil, err
	}

	c.searchLatency, err = meter.Int64Histogram(
		"reelcache_search_latency_ns",
		metric.WithDescription("Latency of searches in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	c.evictions, err = meter.Int64Counter(
		"reelcache_evictions_total",
		metric.WithDescription("Total number of capacity evictions"),
	)
	if err != nil {
		return nil, err
	}

	for _, tier := range []reelcache.Tier{reelcache.TierL1, reelcache.TierL2, reelcache.TierPrimary} {
		name := attribute.String("tier", tier.String())
		c.tierAttrs[tier] = metric.WithAttributes(name)
		c.hitAttrs[tier] = metric.WithAttributes(name, attribute.String("result", "hit"))
		c.missAttrs[tier] = metric.WithAttributes(name, attribute.String("result", "miss"))
	}

	return c, nil
}

// attrs returns the prebuilt option for tier, building one for tiers the
// collector was not created with.
func attrs(set map[reelcache.Tier]metric.MeasurementOption, tier reelcache.Tier, kv ...attribute.KeyValue) metric.MeasurementOption {
	if opt, ok := set[tier]; ok {
		return opt
	}
	return metric.WithAttributes(append(kv, attribute.String("tier", tier.String()))...)
}

// RecordProbe records an L1 or L2 lookup.
func (c *Collector) RecordProbe(tier reelcache.Tier, hit bool) {
	if hit {
		c.probes.Add(context.Background(), 1, attrs(c.hitAttrs, tier, attribute.String("result", "hit")))
		return
	}
	c.probes.Add(context.Background(), 1, attrs(c.missAttrs, tier, attribute.String("result", "miss")))
}

// RecordSearch records a resolved search and its latency.
func (c *Collector) RecordSearch(tier reelcache.Tier, latencyNs int64) {
	ctx := context.Background()
	opt := attrs(c.tierAttrs, tier)
	c.searches.Add(ctx, 1, opt)
	c.searchLatency.Record(ctx, latencyNs, opt)
}

// RecordEviction records a capacity eviction.
func (c *Collector) RecordEviction(tier reelcache.Tier) {
	c.evictions.Add(context.Background(), 1, attrs(c.tierAttrs, tier))
}

// Compile-time interface check
var _ reelcache.MetricsCollector = (*Collector)(nil)
