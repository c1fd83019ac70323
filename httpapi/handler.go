// handler.go: HTTP surface for a reelcache coordinator
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package httpapi exposes a reelcache.Coordinator over HTTP.
//
// Routes:
//   - GET    /search?user=&kind=&value=
//   - GET    /search/multi?user=&genre=&year=&min_rating=
//   - DELETE /cache/{tier}
//   - GET    /stats
//   - GET    /metrics (when a Prometheus gatherer is configured)
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agilira/reelcache"
)

// Options configures the router.
type Options struct {
	// Gatherer, when set, is served on /metrics.
	Gatherer prometheus.Gatherer

	// Logger receives one line per failed request. Default: the
	// coordinator's logger.
	Logger reelcache.Logger
}

// Handler serves search, cache administration and stats requests.
type Handler struct {
	coord  *reelcache.Coordinator
	logger reelcache.Logger
}

// ResultJSON is the wire form of a reelcache.Result.
type ResultJSON struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Genre   string  `json:"genre"`
	Year    int     `json:"year"`
	Rating  float64 `json:"rating"`
	FoundIn string  `json:"found_in"`
}

// ErrorJSON is the wire form of a failed request.
type ErrorJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewRouter returns a chi router serving coord.
func NewRouter(coord *reelcache.Coordinator, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = coord.Logger()
	}
	h := &Handler{coord: coord, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/search", h.Search)
	r.Get("/search/multi", h.SearchMulti)
	r.Delete("/cache/{tier}", h.ClearCache)
	r.Get("/stats", h.Stats)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := reelcache.ParseQueryKind(q.Get("kind"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	results, err := h.coord.Search(r.Context(), q.Get("user"), kind, q.Get("value"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(results))
}

// SearchMulti handles GET /search/multi.
func (h *Handler) SearchMulti(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorJSON{Code: "BAD_REQUEST", Message: "year must be an integer"})
		return
	}
	minRating, err := strconv.ParseFloat(q.Get("min_rating"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorJSON{Code: "BAD_REQUEST", Message: "min_rating must be a number"})
		return
	}
	results, err := h.coord.SearchMulti(r.Context(), q.Get("user"), q.Get("genre"), year, minRating)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(results))
}

// ClearCache handles DELETE /cache/{tier}.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	tier, err := reelcache.ParseTier(chi.URLParam(r, "tier"))
	if err == nil {
		err = h.coord.ClearCache(tier)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.coord.Stats())
}

func toJSON(results []reelcache.Result) []ResultJSON {
	out := make([]ResultJSON, len(results))
	for i, res := range results {
		out[i] = ResultJSON{
			ID:      res.Movie.ID,
			Title:   res.Movie.Title,
			Genre:   res.Movie.Genre,
			Year:    res.Movie.Year,
			Rating:  res.Movie.Rating,
			FoundIn: res.FoundIn.String(),
		}
	}
	return out
}

// statusFor maps reelcache error codes onto HTTP statuses.
func statusFor(err error) int {
	switch reelcache.GetErrorCode(err) {
	case reelcache.ErrCodeUnknownUser:
		return http.StatusNotFound
	case reelcache.ErrCodeInvalidCacheLevel, reelcache.ErrCodeInvalidQuery:
		return http.StatusBadRequest
	case reelcache.ErrCodePrimaryFailed, reelcache.ErrCodeRegistryFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(reelcache.GetErrorCode(err))
	if code == "" {
		code = "INTERNAL"
	}
	h.logger.Warn("request failed",
		"method", r.Method, "path", r.URL.Path, "status", status,
		"request_id", middleware.GetReqID(r.Context()), "error", err)
	writeJSON(w, status, ErrorJSON{Code: code, Message: err.Error()})
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
