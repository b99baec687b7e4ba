package driving

import "context"

// IngestReport summarises a completed ingestion run.
type IngestReport struct {
	// RunID identifies the run.
	RunID string

	// Files is the number of source files parsed.
	Files int

	// Chunks is the number of chunks written to the store.
	Chunks int

	// Skipped is the number of chunks dropped under the skip policy.
	Skipped int

	// StoreCount is the store's total vector count after the run, as a
	// non-authoritative sanity check (the store is the source of truth).
	StoreCount int
}

// Ingestor runs the ingestion pipeline over the configured corpus.
type Ingestor interface {
	// Ingest scans the data directory, chunks and embeds every
	// document, and upserts the result into the vector store.
	Ingest(ctx context.Context) (*IngestReport, error)
}
