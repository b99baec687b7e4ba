package driving

import (
	"context"

	"github.com/vigilab/vigirag/internal/core/domain"
)

// Retriever answers similarity queries against the indexed corpus.
type Retriever interface {
	// Retrieve returns the k nearest chunks for the query, ordered by
	// ascending distance. k <= 0 yields an empty result, not an error.
	Retrieve(ctx context.Context, query string, k int) (*domain.QueryResult, error)
}

// Answerer produces grounded answers to natural-language questions.
type Answerer interface {
	// Answer builds a grounding prompt from the context chunks and asks
	// the generation backend. Empty context fails with
	// domain.ErrNoContext without invoking the backend.
	Answer(ctx context.Context, question string, contextChunks []string) (string, error)

	// Ask is the full query pipeline: retrieve then answer.
	Ask(ctx context.Context, question string) (string, error)
}
