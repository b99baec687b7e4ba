// Package memory provides an in-memory vector store with brute-force
// cosine distance search. Intended for tests and small local corpora.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

type entry struct {
	chunk     domain.Chunk
	embedding []float32
}

// Store keeps vectors in memory, keyed by chunk id.
type Store struct {
	mu        sync.RWMutex
	dimension int
	order     []string
	entries   map[string]entry

	// embedder, when set, enables text-native queries.
	embedder driven.EmbeddingService
}

// NewStore creates an empty in-memory store. The embedder is optional;
// without it QueryByText returns domain.ErrTextQueryUnsupported.
func NewStore(embedder driven.EmbeddingService) *Store {
	return &Store{
		entries:  make(map[string]entry),
		embedder: embedder,
	}
}

// Upsert writes the batch, overwriting previously seen ids.
func (s *Store) Upsert(_ context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrUpsertFailed, len(chunks), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range chunks {
		if s.dimension == 0 {
			s.dimension = len(embeddings[i])
		}
		if len(embeddings[i]) != s.dimension {
			return fmt.Errorf("%w: dimension mismatch: %d vs %d", domain.ErrUpsertFailed, len(embeddings[i]), s.dimension)
		}
		if _, seen := s.entries[chunks[i].ID]; !seen {
			s.order = append(s.order, chunks[i].ID)
		}
		s.entries[chunks[i].ID] = entry{chunk: chunks[i], embedding: embeddings[i]}
	}
	return nil
}

// QueryByText embeds the query with the configured embedder and
// delegates to QueryByEmbedding.
func (s *Store) QueryByText(ctx context.Context, text string, k int) (*domain.QueryResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrTextQueryUnsupported
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.QueryByEmbedding(ctx, vec, k)
}

// QueryByEmbedding returns the k nearest chunks by cosine distance.
func (s *Store) QueryByEmbedding(_ context.Context, embedding []float32, k int) (*domain.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return &domain.QueryResult{}, nil
	}

	type scored struct {
		id       string
		distance float64
	}
	hits := make([]scored, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		dist, err := cosineDistance(embedding, e.embedding)
		if err != nil {
			return nil, err
		}
		hits = append(hits, scored{id: id, distance: dist})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })
	if k < len(hits) {
		hits = hits[:k]
	}

	result := &domain.QueryResult{
		IDs:       make([]string, 0, len(hits)),
		Documents: make([]string, 0, len(hits)),
		Metadatas: make([]domain.ChunkMetadata, 0, len(hits)),
		Distances: make([]float64, 0, len(hits)),
	}
	for _, h := range hits {
		e := s.entries[h.id]
		result.IDs = append(result.IDs, h.id)
		result.Documents = append(result.Documents, e.chunk.Text)
		result.Metadatas = append(result.Metadatas, e.chunk.Metadata)
		result.Distances = append(result.Distances, h.distance)
	}
	return result, nil
}

// Count returns the number of stored vectors.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosineDistance is 1 - cosine similarity, so lower means more similar.
func cosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, errors.New("empty embedding")
	}
	var dot, na, nb float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 1, nil
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), nil
}
