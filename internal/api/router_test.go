// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, true, nil)

	// Generate at least one labelled request first.
	do(t, srv, http.MethodGet, "/api/v1/themes")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `endpoint="/api/v1/themes"`) {
		t.Error("request metrics should be labelled by route pattern")
	}
}

func TestRouter_CORSHeaders(t *testing.T) {
	t.Parallel()
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	mw.CORSAllowedOrigins = []string{"https://library.example"}
	srv, _ := newTestServer(t, true, mw)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/themes", nil)
	req.Header.Set("Origin", "https://library.example")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://library.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Request-Id") && !strings.Contains(got, "X-Request-ID") {
		t.Errorf("Access-Control-Expose-Headers = %q", got)
	}
}

func TestRouter_RateLimitedRoute(t *testing.T) {
	t.Parallel()
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	srv, _ := newTestServer(t, true, mw)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		srv.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/v1/themes", nil))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d", last.Code)
	}
	if ct := last.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	// Health probes have their own budget.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live after API limit: status %d", rec.Code)
	}
}

func TestRouter_RequestIDPropagation(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "upstream-123")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "upstream-123" {
		t.Errorf("X-Request-ID = %q, want upstream-123", got)
	}
}

func TestRouter_Compression(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
}
