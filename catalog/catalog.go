// catalog.go: in-memory movie and user registries
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package catalog provides the in-memory primary store and user registry
// used in front of a reelcache.Coordinator.
package catalog

import (
	"context"
	"sync"

	"github.com/agilira/reelcache"
)

// Catalog registers movies and users. It implements reelcache.PrimaryStore
// with a linear scan in registration order, and reelcache.UserRegistry.
type Catalog struct {
	mu     sync.RWMutex
	movies map[string]reelcache.Movie
	order  []string
	users  map[string]reelcache.User
	logger reelcache.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for registration events.
func WithLogger(logger reelcache.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		movies: make(map[string]reelcache.Movie),
		users:  make(map[string]reelcache.User),
		logger: reelcache.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddMovie registers m. Registering an id twice fails with
// REELCACHE_DUPLICATE_ID and leaves the catalog unchanged.
func (c *Catalog) AddMovie(m reelcache.Movie) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.movies[m.ID]; ok {
		return reelcache.NewErrDuplicateID("movie", m.ID)
	}
	c.movies[m.ID] = m
	c.order = append(c.order, m.ID)
	c.logger.Info("movie added", "id", m.ID, "title", m.Title)
	return nil
}

// AddUser registers u. Registering an id twice fails with
// REELCACHE_DUPLICATE_ID and leaves the catalog unchanged.
func (c *Catalog) AddUser(u reelcache.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.users[u.ID]; ok {
		return reelcache.NewErrDuplicateID("user", u.ID)
	}
	c.users[u.ID] = u
	c.logger.Info("user added", "id", u.ID, "name", u.Name)
	return nil
}

// Movie returns the movie registered under id.
func (c *Catalog) Movie(id string) (reelcache.Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.movies[id]
	return m, ok
}

// User returns the user registered under id.
func (c *Catalog) User(id string) (reelcache.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.users[id]
	return u, ok
}

// Movies returns every movie in registration order.
func (c *Catalog) Movies() []reelcache.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]reelcache.Movie, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.movies[id])
	}
	return out
}

// UserExists implements reelcache.UserRegistry.
func (c *Catalog) UserExists(_ context.Context, id string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.users[id]
	return ok, nil
}

// QueryPrimary implements reelcache.PrimaryStore.
func (c *Catalog) QueryPrimary(ctx context.Context, q reelcache.Query) ([]reelcache.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []reelcache.Movie
	for _, id := range c.order {
		if m := c.movies[id]; q.Match(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

var (
	_ reelcache.PrimaryStore = (*Catalog)(nil)
	_ reelcache.UserRegistry = (*Catalog)(nil)
)
