// interfaces.go: collaborator and integration interfaces for reelcache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import "context"

// PrimaryStore is the authoritative catalog. It is consulted only when a
// query misses both cache tiers.
type PrimaryStore interface {
	// QueryPrimary returns every movie matching q, in the store's own
	// stable order. It must not have side effects.
	QueryPrimary(ctx context.Context, q Query) ([]Movie, error)
}

// UserRegistry answers whether a user may issue queries.
type UserRegistry interface {
	// UserExists reports whether id belongs to a registered user.
	UserExists(ctx context.Context, id string) (bool, error)
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider supplies the timestamps used for recency bookkeeping.
type TimeProvider interface {
	// Now returns the current time in nanoseconds, or any monotonic
	// tick count. Only ordering matters to the cache.
	Now() int64
}

// MetricsCollector receives per-operation events from the coordinator and
// the tiers. Implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordProbe records a lookup against L1 or L2 and whether it hit.
	RecordProbe(tier Tier, hit bool)

	// RecordSearch records a completed search, the tier that resolved it
	// and its latency in nanoseconds.
	RecordSearch(tier Tier, latencyNs int64)

	// RecordEviction records a capacity-driven eviction from a tier.
	RecordEviction(tier Tier)
}

// NoOpMetricsCollector is a metrics collector that does nothing.
type NoOpMetricsCollector struct{}

// RecordProbe does nothing.
func (NoOpMetricsCollector) RecordProbe(tier Tier, hit bool) {}

// RecordSearch does nothing.
func (NoOpMetricsCollector) RecordSearch(tier Tier, latencyNs int64) {}

// RecordEviction does nothing.
func (NoOpMetricsCollector) RecordEviction(tier Tier) {}
