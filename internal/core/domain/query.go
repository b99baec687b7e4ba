package domain

// QueryResult holds the outcome of a similarity query. The four slices
// are co-indexed and ordered by ascending distance (nearest first).
type QueryResult struct {
	// IDs are the matched chunk identifiers.
	IDs []string `json:"ids"`

	// Documents are the matched chunk texts.
	Documents []string `json:"documents"`

	// Metadatas are the matched chunk metadata entries.
	Metadatas []ChunkMetadata `json:"metadatas"`

	// Distances are the similarity distances (lower = more similar).
	Distances []float64 `json:"distances"`
}

// Len returns the number of results.
func (r *QueryResult) Len() int {
	return len(r.IDs)
}

// Empty reports whether the query matched nothing.
func (r *QueryResult) Empty() bool {
	return r == nil || len(r.IDs) == 0
}
