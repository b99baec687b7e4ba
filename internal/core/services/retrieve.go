package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
	"github.com/vigilab/vigirag/internal/core/ports/driving"
	"github.com/vigilab/vigirag/internal/logger"
)

// Ensure RetrieveService implements the interface.
var _ driving.Retriever = (*RetrieveService)(nil)

// RetrieveService answers similarity queries against the vector store.
// It prefers the store's text-native query path and falls back to
// embedding the query itself when the store cannot embed text.
type RetrieveService struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewRetrieveService creates a new retrieval service. The embedder is
// optional (can be nil); without it, stores that cannot embed query
// text themselves are unusable for retrieval.
func NewRetrieveService(store driven.VectorStore, embedder driven.EmbeddingService) *RetrieveService {
	return &RetrieveService{store: store, embedder: embedder}
}

// Retrieve returns the k nearest chunks for the query, ordered by
// ascending distance. k <= 0 yields an empty result.
func (s *RetrieveService) Retrieve(ctx context.Context, query string, k int) (*domain.QueryResult, error) {
	if k <= 0 {
		return &domain.QueryResult{}, nil
	}

	query = strings.TrimSpace(query)
	logger.Debug("retrieve: query=%q k=%d", query, k)

	res, err := s.store.QueryByText(ctx, query, k)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, domain.ErrTextQueryUnsupported) {
		return nil, err
	}

	if s.embedder == nil {
		return nil, err
	}
	logger.Debug("retrieve: store cannot embed text, embedding query locally")
	vec, embedErr := s.embedder.Embed(ctx, query)
	if embedErr != nil {
		return nil, embedErr
	}
	return s.store.QueryByEmbedding(ctx, vec, k)
}
