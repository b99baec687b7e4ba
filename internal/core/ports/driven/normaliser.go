package driven

import "github.com/vigilab/vigirag/internal/core/domain"

// Normaliser extracts a transient Document from a source file.
type Normaliser interface {
	// NormaliseFile parses the file at path into title and body text.
	// The returned document's Source is the file's base name.
	NormaliseFile(path string) (*domain.Document, error)
}
