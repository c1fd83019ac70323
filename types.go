// types.go: catalog records, users and resolution tiers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"fmt"
	"strings"
)

// Movie is an immutable catalog record.
type Movie struct {
	ID     string
	Title  string
	Genre  string
	Year   int
	Rating float64
}

// User is a registered actor allowed to query the catalog.
// PreferredGenre is carried for collaborators; the cache never reads it.
type User struct {
	ID             string
	Name           string
	PreferredGenre string
}

// Tier identifies which level of the lookup chain satisfied a query.
type Tier uint8

const (
	// TierL1 is the per-user recency tier.
	TierL1 Tier = iota + 1
	// TierL2 is the shared frequency tier.
	TierL2
	// TierPrimary is the authoritative primary store.
	TierPrimary
)

// String returns the tier label used in logs, reports and the HTTP API.
func (t Tier) String() string {
	switch t {
	case TierL1:
		return "L1"
	case TierL2:
		return "L2"
	case TierPrimary:
		return "PRIMARY_STORE"
	default:
		return fmt.Sprintf("Tier(%d)", uint8(t))
	}
}

// ParseTier parses a tier label. Matching is case-insensitive.
// Unknown labels return NewErrInvalidCacheLevel.
func ParseTier(s string) (Tier, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L1", "TIER1":
		return TierL1, nil
	case "L2", "TIER2":
		return TierL2, nil
	case "PRIMARY_STORE", "PRIMARY":
		return TierPrimary, nil
	}
	return 0, NewErrInvalidCacheLevel(s)
}

// Result pairs a matched movie with the tier that produced it.
type Result struct {
	Movie   Movie
	FoundIn Tier
}

func (r Result) String() string {
	return fmt.Sprintf("%s (Found in %s)", r.Movie.Title, r.FoundIn)
}
