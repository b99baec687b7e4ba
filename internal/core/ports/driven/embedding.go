package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations are expected to tolerate deployment variance in the
// backend API (dialect probing) but must present a single vector
// contract to callers: one fixed-dimension []float32 per input text.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the backend is reachable with a lightweight request.
	Ping(ctx context.Context) error
}
