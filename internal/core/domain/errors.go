package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors; adapters wrap the
// underlying cause with fmt.Errorf("...: %w", ...) so callers can test
// with errors.Is while keeping diagnostics.
var (
	// ErrInvalidChunking indicates overlap >= chunk size, which would
	// produce a zero-or-negative advance step. Caught at configuration
	// time, never surfaced to end users.
	ErrInvalidChunking = errors.New("invalid chunking parameters: overlap must be smaller than chunk size")

	// ErrNoEmbeddingEndpoint indicates every embedding dialect candidate
	// was exhausted without a usable response.
	ErrNoEmbeddingEndpoint = errors.New("no embedding endpoint available")

	// ErrEmbeddingBackend indicates the embedding backend returned a
	// non-404 HTTP error: a real backend fault, not a dialect mismatch,
	// so remaining candidates are not tried.
	ErrEmbeddingBackend = errors.New("embedding backend error")

	// ErrEmbeddingFormat indicates a success response in none of the
	// known shapes.
	ErrEmbeddingFormat = errors.New("unrecognised embedding response format")

	// ErrUpsertFailed indicates the vector store rejected the batch
	// write. The remaining batch is aborted; no partial retry.
	ErrUpsertFailed = errors.New("vector store upsert failed")

	// ErrNoContext indicates retrieval produced zero chunks. This is a
	// user-visible "not found" condition, not a system fault.
	ErrNoContext = errors.New("no context found for question")

	// ErrGenerationUnavailable indicates the generation backend is
	// unreachable or returned a non-success status.
	ErrGenerationUnavailable = errors.New("generation backend unavailable")

	// ErrTextQueryUnsupported indicates the configured vector store
	// cannot embed query text itself and needs an explicit embedding.
	ErrTextQueryUnsupported = errors.New("store does not support text-native queries")
)
