package driven

import "time"

// IngestEvent is a structured progress event emitted during ingestion.
// The core never formats human-readable progress text itself; sinks
// decide how to render or export events.
type IngestEvent struct {
	// RunID identifies the ingestion run the event belongs to.
	RunID string

	// Kind is one of the Event* constants.
	Kind string

	// Source is the file the event refers to, when applicable.
	Source string

	// ChunkID is the chunk the event refers to, when applicable.
	ChunkID string

	// Count carries a kind-specific count (chunks prepared, vectors
	// stored, and so on).
	Count int

	// Err carries the failure for EventChunkFailed and EventRunFailed.
	Err error

	// Elapsed is set on run completion.
	Elapsed time.Duration
}

// Ingestion event kinds.
const (
	EventRunStarted   = "run_started"
	EventFileParsed   = "file_parsed"
	EventChunkFailed  = "chunk_failed"
	EventBatchStored  = "batch_stored"
	EventRunCompleted = "run_completed"
	EventRunFailed    = "run_failed"
)

// ProgressSink consumes ingestion progress events.
type ProgressSink interface {
	Publish(event IngestEvent)
}
