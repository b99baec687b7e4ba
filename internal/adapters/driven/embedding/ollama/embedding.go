// Package ollama provides an embedding service adapter for
// Ollama-compatible backends.
//
// Deployments expose one of several incompatible embedding API
// dialects. The adapter probes an ordered list of candidates on every
// call: a 404 means "dialect unsupported here" and the next candidate
// is tried, a timeout or connection failure is treated the same way,
// while any other HTTP error is a real backend fault and fails the
// call immediately. No successful dialect is cached across calls.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
	"github.com/vigilab/vigirag/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "all-minilm"
	DefaultTimeout = 5 * time.Second
)

// Config holds configuration for the embedding service.
type Config struct {
	// BaseURL is the backend API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: all-minilm).
	Model string

	// Timeout bounds each dialect probe (default: 5s).
	Timeout time.Duration

	// MaxRequestsPerSecond throttles probes when > 0.
	MaxRequestsPerSecond float64
}

// dialect is one endpoint/payload-shape candidate in the probing chain.
// Each dialect owns its request payload and its response decoder.
type dialect struct {
	name    string
	path    string
	payload func(model, text string) any
	decode  func(body []byte) ([]float32, error)
}

// dialects is the probe order. The native batch endpoint first, then
// the legacy single-prompt endpoint, then the OpenAI-compatible one.
var dialects = []dialect{
	{
		name: "embed",
		path: "/api/embed",
		payload: func(model, text string) any {
			return map[string]any{"model": model, "input": text}
		},
		decode: decodeEmbedResponse,
	},
	{
		name: "embeddings",
		path: "/api/embeddings",
		payload: func(model, text string) any {
			return map[string]any{"model": model, "prompt": text}
		},
		decode: decodeEmbeddingsResponse,
	},
	{
		name: "openai",
		path: "/v1/embeddings",
		payload: func(model, text string) any {
			return map[string]any{"model": model, "input": []string{text}}
		},
		decode: decodeOpenAIResponse,
	},
}

// EmbeddingService generates embeddings by probing backend dialects.
type EmbeddingService struct {
	client  *http.Client
	baseURL string
	model   string
	limiter *rate.Limiter
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.MaxRequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxRequestsPerSecond), 1)
	}

	return &EmbeddingService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		limiter: limiter,
	}
}

// Embed generates a vector embedding for the given text. Candidates
// are probed in order from the first entry on every call.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	for _, d := range dialects {
		vec, err := s.try(ctx, d, text)
		if err == nil {
			return vec, nil
		}
		if errors.Is(err, errDialectUnavailable) {
			logger.Debug("embedding dialect %s unavailable, trying next", d.name)
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("%w: base URL %s", domain.ErrNoEmbeddingEndpoint, s.baseURL)
}

// errDialectUnavailable signals "advance to the next candidate".
// It never escapes Embed.
var errDialectUnavailable = errors.New("dialect unavailable")

func (s *EmbeddingService) try(ctx context.Context, d dialect, text string) ([]float32, error) {
	jsonBody, err := json.Marshal(d.payload(s.model, text))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+d.path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// Caller cancellation aborts the chain; timeouts and connection
		// failures only skip this candidate.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %s", errDialectUnavailable, d.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s: route not found", errDialectUnavailable, d.name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %s", errDialectUnavailable, d.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s: status %d: %s",
			domain.ErrEmbeddingBackend, d.name, d.path, resp.StatusCode, string(body))
	}

	vec, err := d.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: dialect %s: %s", domain.ErrEmbeddingFormat, d.name, err)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts in input order.
// The backend has no batch API common to all dialects, so each text is
// embedded with its own probing pass.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the backend is reachable via the /api/tags endpoint.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ping embedding backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding backend returned status %d", resp.StatusCode)
	}
	return nil
}
