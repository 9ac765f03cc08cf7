// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/kitabu/internal/config"
	"github.com/tomtom215/kitabu/internal/logging"
	"github.com/tomtom215/kitabu/internal/metrics"
)

const probeText = "dimension probe"

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// OllamaEncoder calls an Ollama-compatible /api/embed endpoint.
//
// Calls go through a rate limiter and a circuit breaker. The breaker opens
// when at least BreakerMinRequests calls were made in the measurement window
// and the failure ratio reaches BreakerFailureRatio, so a dead model server
// fails queries fast instead of tying up request goroutines until timeout.
//
// The HTTP client is safe for concurrent use.
type OllamaEncoder struct {
	baseURL    string
	model      string
	expected   int
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[][]float32]
	dim        atomic.Int64
}

// NewOllamaEncoder creates an encoder for cfg.Model at cfg.OllamaURL.
func NewOllamaEncoder(cfg *config.EmbeddingConfig) *OllamaEncoder {
	name := "ollama-embed"

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	minRequests := cfg.BreakerMinRequests
	failureRatio := cfg.BreakerFailureRatio

	cb := gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= failureRatio {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		// A caller hanging up says nothing about the server.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &OllamaEncoder{
		baseURL:    strings.TrimRight(cfg.OllamaURL, "/"),
		model:      cfg.Model,
		expected:   cfg.Dimension,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(limit, burst),
		cb:         cb,
	}
}

// Load probes the model once to learn its dimension. The server pulls and
// loads the model on first use, so this is also where a missing model or an
// unreachable server surfaces.
func (o *OllamaEncoder) Load(ctx context.Context) error {
	vectors, err := o.call(ctx, []string{probeText})
	if err != nil {
		return err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return ErrEmptyResponse
	}

	dim := len(vectors[0])
	if o.expected > 0 && dim != o.expected {
		return fmt.Errorf("%w: model %s has %d dimensions, configured %d", ErrDimensionMismatch, o.model, dim, o.expected)
	}
	o.dim.Store(int64(dim))

	logging.Info().Str("model", o.model).Int("dimension", dim).Msg("Embedding model loaded")
	return nil
}

// Encode implements Encoder.
func (o *OllamaEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	dim := o.Dimension()
	if dim == 0 {
		return nil, ErrModelNotLoaded
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := o.call(ctx, texts)
	if err != nil {
		return nil, err
	}
	if err := checkVectors(vectors, len(texts), dim); err != nil {
		return nil, err
	}
	for _, v := range vectors {
		Normalize(v)
	}
	return vectors, nil
}

// call performs one rate-limited, breaker-protected request.
func (o *OllamaEncoder) call(ctx context.Context, texts []string) ([][]float32, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}

	vectors, err := o.cb.Execute(func() ([][]float32, error) {
		return o.post(ctx, texts)
	})

	name := o.cb.Name()
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
		case errors.Is(err, context.Canceled):
			metrics.CircuitBreakerRequests.WithLabelValues(name, "canceled").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(float64(o.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
	return vectors, nil
}

func (o *OllamaEncoder) post(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: o.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama embed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	return result.Embeddings, nil
}

// Dimension implements Encoder. It is 0 until Load succeeds.
func (o *OllamaEncoder) Dimension() int {
	return int(o.dim.Load())
}

// Model implements Encoder.
func (o *OllamaEncoder) Model() string {
	return "ollama/" + o.model
}

// BreakerState reports the circuit breaker state for readiness output.
func (o *OllamaEncoder) BreakerState() string {
	return stateToString(o.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
