// seed.go: YAML seed files for catalogs
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/agilira/reelcache"
)

// Seed is the on-disk form of a catalog.
//
//	movies:
//	  - id: "1"
//	    title: Inception
//	    genre: Sci-Fi
//	    year: 2010
//	    rating: 9.5
//	users:
//	  - id: "1"
//	    name: John
//	    preferred_genre: Action
type Seed struct {
	Movies []SeedMovie `yaml:"movies"`
	Users  []SeedUser  `yaml:"users"`
}

// SeedMovie is one movie in a Seed. An empty ID is replaced by a random UUID.
type SeedMovie struct {
	ID     string  `yaml:"id"`
	Title  string  `yaml:"title"`
	Genre  string  `yaml:"genre"`
	Year   int     `yaml:"year"`
	Rating float64 `yaml:"rating"`
}

// SeedUser is one user in a Seed. An empty ID is replaced by a random UUID.
type SeedUser struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	PreferredGenre string `yaml:"preferred_genre"`
}

// Registry is the write side of a catalog; both Catalog and
// sqlitestore.Store satisfy it.
type Registry interface {
	AddMovie(m reelcache.Movie) error
	AddUser(u reelcache.User) error
}

// DecodeSeed parses a YAML seed document.
func DecodeSeed(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, reelcache.NewErrInvalidConfig(fmt.Sprintf("decode seed: %v", err))
	}
	return &s, nil
}

// Apply registers every movie and user of s into reg, in file order.
// It stops at the first registration error.
func (s *Seed) Apply(reg Registry) error {
	for _, m := range s.Movies {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		err := reg.AddMovie(reelcache.Movie{
			ID: m.ID, Title: m.Title, Genre: m.Genre, Year: m.Year, Rating: m.Rating,
		})
		if err != nil {
			return err
		}
	}
	for _, u := range s.Users {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		err := reg.AddUser(reelcache.User{ID: u.ID, Name: u.Name, PreferredGenre: u.PreferredGenre})
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadSeed decodes a seed from r and applies it to reg.
func LoadSeed(r io.Reader, reg Registry) error {
	s, err := DecodeSeed(r)
	if err != nil {
		return err
	}
	return s.Apply(reg)
}

// LoadSeedFile is LoadSeed over the file at path.
func LoadSeedFile(path string, reg Registry) error {
	f, err := os.Open(path) // #nosec G304 - path is operator supplied
	if err != nil {
		return reelcache.NewErrInvalidConfig(fmt.Sprintf("open seed: %v", err))
	}
	defer func() { _ = f.Close() }()
	return LoadSeed(f, reg)
}
