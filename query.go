// query.go: query descriptors and deterministic cache keys
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package reelcache

import (
	"fmt"
	"strconv"
	"strings"
)

// QueryKind discriminates the supported query shapes.
type QueryKind uint8

const (
	// KindTitle matches movies whose title equals the value.
	KindTitle QueryKind = iota + 1
	// KindGenre matches movies whose genre equals the value.
	KindGenre
	// KindYear matches movies whose year, formatted in base 10, equals the value.
	KindYear
	// KindMulti matches genre and year exactly and rating at or above a threshold.
	KindMulti
)

// String returns the kind tag used as the cache key prefix.
func (k QueryKind) String() string {
	switch k {
	case KindTitle:
		return "TITLE"
	case KindGenre:
		return "GENRE"
	case KindYear:
		return "YEAR"
	case KindMulti:
		return "MULTI"
	default:
		return fmt.Sprintf("QueryKind(%d)", uint8(k))
	}
}

// ParseQueryKind parses a single-field kind tag (TITLE, GENRE, YEAR).
// Matching is case-insensitive.
func ParseQueryKind(s string) (QueryKind, error) {
	tag := strings.ToUpper(strings.TrimSpace(s))
	for _, k := range []QueryKind{KindTitle, KindGenre, KindYear} {
		if k.String() == tag {
			return k, nil
		}
	}
	return 0, NewErrInvalidQuery(s)
}

// Query is an immutable query descriptor. The zero value is not a valid
// query; build one with ByTitle, ByGenre, ByYear, NewFieldQuery or Multi.
type Query struct {
	kind      QueryKind
	value     string
	genre     string
	year      int
	minRating float64
}

// ByTitle returns a title-equals query.
func ByTitle(title string) Query { return Query{kind: KindTitle, value: title} }

// ByGenre returns a genre-equals query.
func ByGenre(genre string) Query { return Query{kind: KindGenre, value: genre} }

// ByYear returns a year-equals query. The value is compared against the
// decimal rendering of the movie year, so "08" never matches 2008.
func ByYear(year string) Query { return Query{kind: KindYear, value: year} }

// NewFieldQuery builds a single-field query from a kind and a raw value.
// Kinds other than KindTitle, KindGenre and KindYear are rejected here so
// that resolution never sees an unsupported descriptor.
func NewFieldQuery(kind QueryKind, value string) (Query, error) {
	switch kind {
	case KindTitle, KindGenre, KindYear:
		return Query{kind: kind, value: value}, nil
	}
	return Query{}, NewErrInvalidQuery(kind.String())
}

// Multi returns a multi-field query.
//
// Its cache key keeps only the first decimal of minRating, so thresholds
// that differ past it (8.04 and 8.06) share a cache entry and whichever is
// resolved first decides the cached result set. The decimal is truncated,
// not rounded: 8.05 keys as 8.0 and 8.99 as 8.9, where a %.1f rendering
// would give 8.1 and 9.0.
func Multi(genre string, year int, minRating float64) Query {
	return Query{kind: KindMulti, genre: genre, year: year, minRating: minRating}
}

// Kind returns the query kind.
func (q Query) Kind() QueryKind { return q.kind }

// Value returns the match value of a single-field query.
func (q Query) Value() string { return q.value }

// Genre returns the genre of a multi-field query.
func (q Query) Genre() string { return q.genre }

// Year returns the year of a multi-field query.
func (q Query) Year() int { return q.year }

// MinRating returns the rating threshold of a multi-field query.
func (q Query) MinRating() float64 { return q.minRating }

// Valid reports whether q was built by one of the constructors.
func (q Query) Valid() bool {
	return q.kind >= KindTitle && q.kind <= KindMulti
}

// Key returns the cache key for q.
func (q Query) Key() string {
	if q.kind == KindMulti {
		return fmt.Sprintf("MULTI:%s:%d:%s", q.genre, q.year, oneDecimal(q.minRating))
	}
	return q.kind.String() + ":" + q.value
}

// Match reports whether m satisfies q. Primary stores use it for their
// linear filter.
func (q Query) Match(m Movie) bool {
	switch q.kind {
	case KindTitle:
		return m.Title == q.value
	case KindGenre:
		return m.Genre == q.value
	case KindYear:
		return strconv.Itoa(m.Year) == q.value
	case KindMulti:
		return m.Genre == q.genre && m.Year == q.year && m.Rating >= q.minRating
	default:
		return false
	}
}

func (q Query) String() string { return q.Key() }

// oneDecimal truncates r to one decimal place. Formatting at six places
// first absorbs binary representation error, so 8.1 stays "8.1".
func oneDecimal(r float64) string {
	s := strconv.FormatFloat(r, 'f', 6, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i+2]
	}
	return s
}
