// Package reelcache provides a two-tier lookup cache in front of a
// linear-scan movie catalog.
//
// Tier L1 is a bounded recency cache kept per user, tier L2 is a bounded
// frequency cache shared by all users. Lookups fall through L1, then L2,
// then the primary store, promoting and populating the upper tiers on the
// way back.
//
// Example usage:
//
//	coord, err := reelcache.New(store, users, reelcache.Config{
//		MaxPerUser: 5,
//		MaxGlobal:  20,
//	})
//
//	results, err := coord.Search(ctx, "u1", reelcache.KindGenre, "Sci-Fi")
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package reelcache

const (
	// Version of the reelcache library
	Version = "v0.1.0-dev"

	// DefaultMaxPerUser is the default number of L1 entries kept for each user
	DefaultMaxPerUser = 5

	// DefaultMaxGlobal is the default number of entries in the shared L2 tier
	DefaultMaxGlobal = 20
)
