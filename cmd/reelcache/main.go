// main.go: reelcache command line
//
// Without -addr the command replays a short demo session against the
// catalog and prints where every result came from. With -addr it serves
// the HTTP API until interrupted.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agilira/reelcache"
	"github.com/agilira/reelcache/catalog"
	"github.com/agilira/reelcache/httpapi"
	"github.com/agilira/reelcache/promcollector"
	"github.com/agilira/reelcache/sqlitestore"
)

// demoSeed is used when no -seed file is given.
const demoSeed = `
movies:
  - id: "1"
    title: Inception
    genre: Sci-Fi
    year: 2010
    rating: 9.5
  - id: "2"
    title: The Dark Knight
    genre: Action
    year: 2008
    rating: 9.0
users:
  - id: "1"
    name: John
    preferred_genre: Action
`

type options struct {
	seed       string
	dbPath     string
	configPath string
	addr       string
	maxPerUser int
	maxGlobal  int
	debug      bool
}

// backend is the primary store and user registry the coordinator runs on.
type backend interface {
	reelcache.PrimaryStore
	reelcache.UserRegistry
	catalog.Registry
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("reelcache", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.seed, "seed", "", "YAML seed file with movies and users (default: built-in demo catalog)")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database path; empty keeps the catalog in memory")
	fs.StringVar(&o.configPath, "config", "", "config file watched for cache.max_per_user / cache.max_global")
	fs.StringVar(&o.addr, "addr", "", "serve the HTTP API on this address instead of running the demo")
	fs.IntVar(&o.maxPerUser, "max-per-user", reelcache.DefaultMaxPerUser, "L1 entries per user")
	fs.IntVar(&o.maxGlobal, "max-global", reelcache.DefaultMaxGlobal, "L2 entries")
	fs.BoolVar(&o.debug, "debug", false, "log every cache resolution")
	err := fs.Parse(args)
	return o, err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	logger := newSlogLogger(stderr, o.debug)

	store, closeStore, err := openBackend(ctx, o, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if o.seed != "" {
		err = catalog.LoadSeedFile(o.seed, store)
	} else {
		err = catalog.LoadSeed(strings.NewReader(demoSeed), store)
	}
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	coord, err := reelcache.New(store, store, reelcache.Config{
		MaxPerUser:       o.maxPerUser,
		MaxGlobal:        o.maxGlobal,
		Logger:           logger,
		MetricsCollector: promcollector.New(registry),
	})
	if err != nil {
		return err
	}

	if o.configPath != "" {
		hc, err := reelcache.NewHotConfig(coord, reelcache.HotConfigOptions{ConfigPath: o.configPath})
		if err != nil {
			return err
		}
		if err := hc.Start(); err != nil {
			return err
		}
		defer func() { _ = hc.Stop() }()
	}

	if o.addr != "" {
		return serve(ctx, o.addr, httpapi.NewRouter(coord, httpapi.Options{Gatherer: registry}), logger)
	}
	return demo(ctx, coord, store, stdout)
}

func openBackend(ctx context.Context, o options, logger reelcache.Logger) (backend, func(), error) {
	if o.dbPath == "" {
		return catalog.New(catalog.WithLogger(logger)), func() {}, nil
	}
	s, err := sqlitestore.New(ctx, o.dbPath)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}

func serve(ctx context.Context, addr string, h http.Handler, logger reelcache.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// demo replays the reference session: repeated searches by one user, the
// same search by a second user, a multi-field search and an L1 clear.
func demo(ctx context.Context, coord *reelcache.Coordinator, reg catalog.Registry, out io.Writer) error {
	step := func(title string, fn func() ([]reelcache.Result, error)) error {
		fmt.Fprintf(out, "\n%s:\n", title)
		results, err := fn()
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintln(out, r)
		}
		return nil
	}
	search := func(user string, kind reelcache.QueryKind, value string) func() ([]reelcache.Result, error) {
		return func() ([]reelcache.Result, error) { return coord.Search(ctx, user, kind, value) }
	}
	multi := func() ([]reelcache.Result, error) {
		return coord.SearchMulti(ctx, "1", "Action", 2008, 8.0)
	}

	if err := step("First search for Sci-Fi movies", search("1", reelcache.KindGenre, "Sci-Fi")); err != nil {
		return err
	}
	if err := step("Second search for Sci-Fi movies", search("1", reelcache.KindGenre, "Sci-Fi")); err != nil {
		return err
	}

	// A second user joins mid-session; ignore the duplicate when a seed
	// file already registered it.
	if err := reg.AddUser(reelcache.User{ID: "2", Name: "Alice", PreferredGenre: "Sci-Fi"}); err != nil && !reelcache.IsDuplicateID(err) {
		return err
	}

	steps := []struct {
		title string
		fn    func() ([]reelcache.Result, error)
	}{
		{"Search for Sci-Fi movies from different user", search("2", reelcache.KindGenre, "Sci-Fi")},
		{"Searching for movies from 2008", search("1", reelcache.KindYear, "2008")},
		{"Second search for 2008 movies", search("1", reelcache.KindYear, "2008")},
		{"Multi-criteria search", multi},
		{"Second multi-criteria search", multi},
	}
	for _, s := range steps {
		if err := step(s.title, s.fn); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\nCache Statistics:\n%s\n", coord.Stats())

	if err := coord.ClearCache(reelcache.TierL1); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s cache cleared successfully\n", reelcache.TierL1)

	if err := step("After clearing L1 cache, searching for Sci-Fi movies", search("1", reelcache.KindGenre, "Sci-Fi")); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFinal Cache Statistics:\n%s\n", coord.Stats())
	return nil
}
