// config.go: configuration for reelcache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"sync/atomic"

	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for the coordinator and its tiers.
type Config struct {
	// MaxPerUser is the number of L1 entries kept for each user.
	// Must be > 0. Default: DefaultMaxPerUser.
	MaxPerUser int

	// MaxGlobal is the number of entries in the shared L2 tier.
	// Must be > 0. Default: DefaultMaxGlobal.
	MaxGlobal int

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider stamps entry creation and access for L1 recency.
	// If nil, a go-timecache backed clock is used.
	TimeProvider TimeProvider

	// MetricsCollector receives probe, search and eviction events.
	// If nil, NoOpMetricsCollector is used. Default: NoOpMetricsCollector.
	MetricsCollector MetricsCollector

	// OnEvict is called when an entry is evicted for capacity.
	// This callback must be fast and non-blocking; it runs under the tier lock.
	OnEvict func(tier Tier, key string)
}

// Validate applies defaults to unset or out-of-range parameters.
// Returns nil (no actual validation errors, only normalization).
//
// This method is automatically called by New, so you typically don't need
// to call it manually.
//
// Default values applied:
//   - MaxPerUser: DefaultMaxPerUser (5) if <= 0
//   - MaxGlobal: DefaultMaxGlobal (20) if <= 0
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	if c.MaxPerUser <= 0 {
		c.MaxPerUser = DefaultMaxPerUser
	}

	if c.MaxGlobal <= 0 {
		c.MaxGlobal = DefaultMaxGlobal
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxPerUser:       DefaultMaxPerUser,
		MaxGlobal:        DefaultMaxGlobal,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

// LogicalClock is a TimeProvider that returns a strictly increasing tick on
// every call. It makes recency ordering independent of wall-clock
// resolution, which keeps eviction order reproducible in tests.
type LogicalClock struct {
	tick atomic.Int64
}

// Now returns the next tick.
func (c *LogicalClock) Now() int64 {
	return c.tick.Add(1)
}
