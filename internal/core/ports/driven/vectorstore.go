package driven

import (
	"context"

	"github.com/vigilab/vigirag/internal/core/domain"
)

// VectorStore persists (id, vector, text, metadata) tuples and answers
// similarity queries. Upsert is the only write path: a previously seen
// id is overwritten, never duplicated.
//
// Two query strategies are supported. QueryByText delegates query
// embedding to the store's own configured embedding function; stores
// without one return domain.ErrTextQueryUnsupported and the caller
// falls back to QueryByEmbedding. Both must return results ordered by
// ascending distance; tie-break on exact ties is store-defined.
type VectorStore interface {
	// Upsert writes the batch in one call. len(chunks) must equal
	// len(embeddings). A store failure aborts the whole batch.
	Upsert(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error

	// QueryByText returns the k nearest chunks for a query string.
	QueryByText(ctx context.Context, text string, k int) (*domain.QueryResult, error)

	// QueryByEmbedding returns the k nearest chunks for a query vector.
	QueryByEmbedding(ctx context.Context, embedding []float32, k int) (*domain.QueryResult, error)

	// Count returns the total number of vectors in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
