// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package embedding

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/kitabu/internal/config"
)

func hashConfig(dim int, serialize bool) *config.EmbeddingConfig {
	return &config.EmbeddingConfig{
		Provider:  string(ProviderHash),
		Dimension: dim,
		Serialize: serialize,
	}
}

func ollamaConfig(url string) *config.EmbeddingConfig {
	return &config.EmbeddingConfig{
		Provider:            string(ProviderOllama),
		Model:               "all-minilm",
		OllamaURL:           url,
		RequestTimeout:      5 * time.Second,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerTimeout:      time.Minute,
	}
}

// fakeOllama answers /api/embed with vectors of the given dimension whose
// first component is the input length.
func fakeOllama(t *testing.T, dim int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.URL.Path != "/api/embed" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := embedResponse{Model: req.Model}
		for _, text := range req.Input {
			v := make([]float32, dim)
			v[0] = float32(len(text))
			v[1] = 1
			resp.Embeddings = append(resp.Embeddings, v)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaEncoder_LoadAndEncode(t *testing.T) {
	t.Parallel()

	srv := fakeOllama(t, 8, nil)
	enc := NewOllamaEncoder(ollamaConfig(srv.URL + "/"))

	if _, err := enc.Encode(context.Background(), []string{"x"}); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("Encode before Load: got %v, want ErrModelNotLoaded", err)
	}

	if err := enc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if enc.Dimension() != 8 {
		t.Fatalf("Dimension() = %d, want 8", enc.Dimension())
	}
	if enc.Model() != "ollama/all-minilm" {
		t.Errorf("Model() = %q", enc.Model())
	}

	vectors, err := enc.Encode(context.Background(), []string{"abc", "a longer text"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	for i, v := range vectors {
		if n := norm(v); math.Abs(n-1) > 1e-5 {
			t.Errorf("vector %d norm = %v, want 1", i, n)
		}
	}
	if vectors[0][0] >= vectors[1][0] {
		t.Errorf("input order not preserved: %v vs %v", vectors[0][0], vectors[1][0])
	}
	if enc.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q, want closed", enc.BreakerState())
	}
}

func TestOllamaEncoder_DimensionMismatch(t *testing.T) {
	t.Parallel()

	srv := fakeOllama(t, 8, nil)
	cfg := ollamaConfig(srv.URL)
	cfg.Dimension = 384

	err := NewOllamaEncoder(cfg).Load(context.Background())
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Load: got %v, want ErrDimensionMismatch", err)
	}
}

func TestOllamaEncoder_BreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	enc := NewOllamaEncoder(ollamaConfig(srv.URL))
	for i := 0; i < 2; i++ {
		if err := enc.Load(context.Background()); err == nil {
			t.Fatalf("Load %d: expected error", i)
		}
	}

	err := enc.Load(context.Background())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Load after failures: got %v, want ErrOpenState", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server saw %d calls, want 2", calls.Load())
	}
	if enc.BreakerState() != "open" {
		t.Errorf("BreakerState() = %q, want open", enc.BreakerState())
	}

	wrapped := Serialized(Instrumented(enc))
	if got := BreakerState(wrapped); got != "open" {
		t.Errorf("BreakerState through wrappers = %q, want open", got)
	}
	if got := BreakerState(Instrumented(NewHashEncoder(8))); got != "" {
		t.Errorf("hash encoder breaker state = %q, want empty", got)
	}
}

func TestOllamaEncoder_CanceledCallsKeepBreakerClosed(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var cancel atomic.Pointer[context.CancelFunc]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fn := cancel.Load(); fn != nil {
			(*fn)()
		}
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	enc := NewOllamaEncoder(ollamaConfig(srv.URL))
	for i := 0; i < 4; i++ {
		ctx, fn := context.WithCancel(context.Background())
		cancel.Store(&fn)
		err := enc.Load(ctx)
		fn()
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Load %d: got %v, want context.Canceled", i, err)
		}
	}

	if calls.Load() != 4 {
		t.Errorf("server saw %d calls, want 4", calls.Load())
	}
	if enc.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q, want closed", enc.BreakerState())
	}
}

func TestOllamaEncoder_ShortResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	}))
	t.Cleanup(srv.Close)

	err := NewOllamaEncoder(ollamaConfig(srv.URL)).Load(context.Background())
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("Load: got %v, want ErrEmptyResponse", err)
	}
}

func TestStateToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		str   string
		val   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(99), "unknown", -1},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %q, want %q", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.val {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.val)
		}
	}
}
