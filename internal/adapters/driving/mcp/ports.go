package mcp

import (
	"github.com/vigilab/vigirag/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Retriever answers similarity queries.
	Retriever driving.Retriever

	// Answerer produces grounded answers.
	Answerer driving.Answerer
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	if p.Answerer == nil {
		return ErrMissingAnswerer
	}
	return nil
}
