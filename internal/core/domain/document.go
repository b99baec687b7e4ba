package domain

import "strconv"

// Document is the transient representation of a parsed source file.
// It exists only for the duration of an ingestion run; what survives is
// the (id, vector, text, metadata) tuple in the vector store.
type Document struct {
	// Source is the basename of the file the document came from.
	Source string

	// Title is the article title extracted by the normaliser.
	Title string

	// Body is the normalised text content.
	Body string
}

// Text returns the full text to be chunked: title and body joined by a
// blank line, matching the indexed representation.
func (d Document) Text() string {
	if d.Title == "" {
		return d.Body
	}
	if d.Body == "" {
		return d.Title
	}
	return d.Title + "\n\n" + d.Body
}

// ChunkMetadata is the metadata persisted alongside every chunk.
type ChunkMetadata struct {
	// Source is the basename of the originating file.
	Source string `json:"source"`

	// Title is the title of the originating document.
	Title string `json:"title"`
}

// Chunk is the unit of embedding and retrieval: a bounded, possibly
// overlapping window of a document's words.
type Chunk struct {
	// ID is deterministic for a given (source file, chunk index) pair,
	// which makes re-indexing idempotent rather than duplicative.
	ID string

	// Text is the chunk content.
	Text string

	// Metadata carries provenance for retrieval results.
	Metadata ChunkMetadata
}

// ChunkID builds the deterministic chunk identifier for a source file
// basename and a zero-based chunk index. Uniqueness within a file is
// guaranteed by the monotonic index; global uniqueness requires unique
// basenames within the corpus.
func ChunkID(source string, index int) string {
	return source + "_chunk" + strconv.Itoa(index)
}
