// Package chroma provides a vector store adapter speaking the Chroma
// server REST API. The collection is created on first use with
// get-or-create semantics; upsert overwrites on id conflict.
//
// Chroma embeds query text itself when the collection has an embedding
// function configured, so this store supports both text-native and
// explicit-embedding queries.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultCollection = "rxvigilance"
	DefaultTimeout    = 15 * time.Second
)

// Config holds connection details for a Chroma server.
type Config struct {
	// BaseURL is the Chroma server URL (default: http://localhost:8000).
	BaseURL string

	// Collection is the collection name (default: rxvigilance).
	Collection string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Store is a REST client to one Chroma collection.
type Store struct {
	client     *http.Client
	baseURL    string
	collection string

	mu           sync.Mutex
	collectionID string
}

// NewStore creates a new Chroma-backed store.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: cfg.Collection,
	}
}

// queryResponse is the Chroma query response shape: one outer slice
// entry per input query, always length 1 here.
type queryResponse struct {
	IDs       [][]string               `json:"ids"`
	Documents [][]string               `json:"documents"`
	Metadatas [][]domain.ChunkMetadata `json:"metadatas"`
	Distances [][]float64              `json:"distances"`
}

// Upsert writes the batch to the collection in one call.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrUpsertFailed, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	colID, err := s.ensureCollection(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrUpsertFailed, err)
	}

	ids := make([]string, len(chunks))
	docs := make([]string, len(chunks))
	metas := make([]domain.ChunkMetadata, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID
		docs[i] = chunks[i].Text
		metas[i] = chunks[i].Metadata
	}
	body := map[string]any{
		"ids":        ids,
		"documents":  docs,
		"metadatas":  metas,
		"embeddings": embeddings,
	}

	path := fmt.Sprintf("/api/v1/collections/%s/upsert", colID)
	if err := s.postJSON(ctx, path, body, nil); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrUpsertFailed, err)
	}
	return nil
}

// QueryByText queries with query_texts, letting the collection's own
// embedding function convert the text.
func (s *Store) QueryByText(ctx context.Context, text string, k int) (*domain.QueryResult, error) {
	return s.query(ctx, map[string]any{"query_texts": []string{text}}, k)
}

// QueryByEmbedding queries with an explicit query embedding.
func (s *Store) QueryByEmbedding(ctx context.Context, embedding []float32, k int) (*domain.QueryResult, error) {
	return s.query(ctx, map[string]any{"query_embeddings": [][]float32{embedding}}, k)
}

func (s *Store) query(ctx context.Context, body map[string]any, k int) (*domain.QueryResult, error) {
	if k <= 0 {
		return &domain.QueryResult{}, nil
	}

	colID, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	body["n_results"] = k
	body["include"] = []string{"documents", "metadatas", "distances"}

	var resp queryResponse
	path := fmt.Sprintf("/api/v1/collections/%s/query", colID)
	if err := s.postJSON(ctx, path, body, &resp); err != nil {
		return nil, err
	}

	result := &domain.QueryResult{}
	if len(resp.IDs) > 0 {
		result.IDs = resp.IDs[0]
	}
	if len(resp.Documents) > 0 {
		result.Documents = resp.Documents[0]
	}
	if len(resp.Metadatas) > 0 {
		result.Metadatas = resp.Metadatas[0]
	}
	if len(resp.Distances) > 0 {
		result.Distances = resp.Distances[0]
	}
	return result, nil
}

// Count returns the collection's total vector count.
func (s *Store) Count(ctx context.Context) (int, error) {
	colID, err := s.ensureCollection(ctx)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/collections/%s/count", s.baseURL, colID), http.NoBody)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("count: status %d", resp.StatusCode)
	}

	var n int
	if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
		return 0, fmt.Errorf("count: decode: %w", err)
	}
	return n, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// ensureCollection resolves the collection id with get-or-create
// semantics, caching the result for the lifetime of the store.
func (s *Store) ensureCollection(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID != "" {
		return s.collectionID, nil
	}

	var resp struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	body := map[string]any{"name": s.collection, "get_or_create": true}
	if err := s.postJSON(ctx, "/api/v1/collections", body, &resp); err != nil {
		return "", fmt.Errorf("get or create collection %s: %w", s.collection, err)
	}
	if resp.ID == "" {
		// Older servers address collections by name.
		resp.ID = s.collection
	}
	s.collectionID = resp.ID
	return s.collectionID, nil
}

func (s *Store) postJSON(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("POST %s: status %d: %s", path, resp.StatusCode, string(detail))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("POST %s: decode: %w", path, err)
		}
	}
	return nil
}
