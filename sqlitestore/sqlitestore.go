// sqlitestore.go: SQLite-backed primary store and user registry
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package sqlitestore keeps the movie catalog and user registry in SQLite
// and serves reelcache full misses from it.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/agilira/reelcache"
)

var (
	_ reelcache.PrimaryStore = (*Store)(nil)
	_ reelcache.UserRegistry = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS movies (
	seq    INTEGER PRIMARY KEY AUTOINCREMENT,
	id     TEXT NOT NULL UNIQUE,
	title  TEXT NOT NULL,
	genre  TEXT NOT NULL,
	year   INTEGER NOT NULL,
	rating REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	preferred_genre TEXT NOT NULL
);`

// Store is the SQLite-backed catalog.
type Store struct {
	db *sql.DB
}

// New opens the SQLite database at path and creates the schema. Use
// ":memory:" for a throwaway database.
func New(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddMovie registers m. A duplicate id fails with REELCACHE_DUPLICATE_ID.
func (s *Store) AddMovie(m reelcache.Movie) error {
	return s.AddMovieContext(context.Background(), m)
}

// AddMovieContext is AddMovie with a caller supplied context.
func (s *Store) AddMovieContext(ctx context.Context, m reelcache.Movie) error {
	return s.insertUnique(ctx, "movie",
		`SELECT COUNT(*) FROM movies WHERE id = ?`,
		`INSERT INTO movies (id, title, genre, year, rating) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ID, m.Title, m.Genre, m.Year, m.Rating)
}

// AddUser registers u. A duplicate id fails with REELCACHE_DUPLICATE_ID.
func (s *Store) AddUser(u reelcache.User) error {
	return s.AddUserContext(context.Background(), u)
}

// AddUserContext is AddUser with a caller supplied context.
func (s *Store) AddUserContext(ctx context.Context, u reelcache.User) error {
	return s.insertUnique(ctx, "user",
		`SELECT COUNT(*) FROM users WHERE id = ?`,
		`INSERT INTO users (id, name, preferred_genre) VALUES (?, ?, ?)`,
		u.ID, u.ID, u.Name, u.PreferredGenre)
}

// insertUnique checks for id and inserts inside one transaction.
func (s *Store) insertUnique(ctx context.Context, entity, countQ, insertQ, id string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var n int
	if err := tx.QueryRowContext(ctx, countQ, id).Scan(&n); err != nil {
		return fmt.Errorf("check %s: %w", entity, err)
	}
	if n > 0 {
		return reelcache.NewErrDuplicateID(entity, id)
	}
	if _, err := tx.ExecContext(ctx, insertQ, args...); err != nil {
		return fmt.Errorf("insert %s: %w", entity, err)
	}
	return tx.Commit()
}

// UserExists implements reelcache.UserRegistry.
func (s *Store) UserExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// QueryPrimary implements reelcache.PrimaryStore. Rows come back in
// registration order.
func (s *Store) QueryPrimary(ctx context.Context, q reelcache.Query) ([]reelcache.Movie, error) {
	where, args, err := buildWhere(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, genre, year, rating FROM movies WHERE `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reelcache.Movie
	for rows.Next() {
		var m reelcache.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Year, &m.Rating); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func buildWhere(q reelcache.Query) (string, []any, error) {
	switch q.Kind() {
	case reelcache.KindTitle:
		return "title = ?", []any{q.Value()}, nil
	case reelcache.KindGenre:
		return "genre = ?", []any{q.Value()}, nil
	case reelcache.KindYear:
		// Only the canonical decimal form can match, as with Query.Match.
		year, err := strconv.Atoi(q.Value())
		if err != nil || strconv.Itoa(year) != q.Value() {
			return "0", nil, nil
		}
		return "year = ?", []any{year}, nil
	case reelcache.KindMulti:
		return "genre = ? AND year = ? AND rating >= ?",
			[]any{q.Genre(), q.Year(), q.MinRating()}, nil
	}
	return "", nil, reelcache.NewErrInvalidQuery(q.Kind().String())
}
