// Copyright (c) 2026 Mariana Vargas Campaign
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics tracks visits to the public pages and aggregates
// them for the admin dashboard.
package analytics

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/mvargas/campana-go/internal/store"
	"github.com/mvargas/campana-go/internal/util"
)

// Tracker records one visit row per successful public page view.
type Tracker struct {
	queries *store.Queries
	geo     *GeoLookup
	logger  *slog.Logger
}

// NewTracker creates a visit tracker. geo may be nil.
func NewTracker(db *sql.DB, geo *GeoLookup, logger *slog.Logger) *Tracker {
	return &Tracker{
		queries: store.New(db),
		geo:     geo,
		logger:  logger,
	}
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.status = http.StatusOK
		rw.wroteHeader = true
	}
	return rw.ResponseWriter.Write(b)
}

// Middleware tracks successful GET page views. Recording happens after
// the response is written so visitors never wait on the insert.
func (t *Tracker) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !shouldTrack(r) {
				next.ServeHTTP(w, r)
				return
			}

			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.status == http.StatusOK {
				go t.record(r.URL.Path, r.UserAgent(), util.ClientIP(r))
			}
		})
	}
}

// record inserts the visit row. Runs outside the request goroutine.
func (t *Tracker) record(path, userAgent, ip string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	device, browser := parseUserAgent(userAgent)
	if device == "bot" {
		return
	}

	var country string
	if t.geo != nil {
		country = t.geo.LookupCountry(ip)
	}

	err := t.queries.CreateVisit(ctx, store.CreateVisitParams{
		Path:      path,
		Device:    device,
		Browser:   browser,
		Country:   country,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.logger.Error("failed to record visit", "path", path, "error", err)
	}
}

// parseUserAgent extracts device type and browser name from a UA string.
func parseUserAgent(uaString string) (device, browser string) {
	ua := useragent.Parse(uaString)

	browser = ua.Name
	if browser == "" {
		browser = "Unknown"
	}

	switch {
	case ua.Bot:
		device = "bot"
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	default:
		device = "desktop"
	}

	return device, browser
}

// shouldTrack filters out everything that is not a public page view.
func shouldTrack(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	path := r.URL.Path

	skipPrefixes := []string{
		"/static/",
		"/media/",
		"/admin",
		"/api/",
		"/ws/",
		"/metrics",
		"/favicon.",
		"/robots.txt",
		"/sitemap",
		"/.well-known/",
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	assetExtensions := []string{
		".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
		".woff", ".woff2", ".ttf", ".xml", ".json", ".txt",
		".mp4", ".webm", ".map",
	}
	pathLower := strings.ToLower(path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(pathLower, ext) {
			return false
		}
	}

	return true
}
