// Package chunker provides an overlapping word-window text splitter.
package chunker

import (
	"strings"

	"github.com/vigilab/vigirag/internal/core/domain"
)

// DefaultChunkSize is the default number of words per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping words.
const DefaultOverlap = 50

// Chunker splits text into fixed-size word windows with overlap.
// It is a pure function wrapper: no I/O, deterministic output.
type Chunker struct {
	chunkSize int
	overlap   int
}

// New creates a chunker. It fails with domain.ErrInvalidChunking when
// overlap >= chunkSize, which would produce a zero-or-negative advance
// step and stall the window loop.
func New(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		return nil, domain.ErrInvalidChunking
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int { return c.overlap }

// Split cuts text into windows of up to chunkSize words, advancing by
// chunkSize-overlap words each time, while the window start is still
// inside the word list. A trailing short window (possibly one word) is
// produced whenever the word count is not an exact multiple of the
// step; that boundary behaviour is intentional. Empty text yields nil.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]string, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
