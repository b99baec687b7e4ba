package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vigilab/vigirag/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or phrase to search the corpus for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved chunk.
type SearchResultOutput struct {
	ChunkID  string  `json:"chunk_id"`
	Source   string  `json:"source"`
	Title    string  `json:"title"`
	Distance float64 `json:"distance"`
	Content  string  `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the natural-language question to answer from the corpus"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed document corpus by similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in the indexed document corpus",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	res, err := s.ports.Retriever.Retrieve(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, res.Len()),
		Count:   res.Len(),
	}

	for i := 0; i < res.Len(); i++ {
		output.Results[i] = SearchResultOutput{
			ChunkID: res.IDs[i],
			Content: res.Documents[i],
		}
		if i < len(res.Metadatas) {
			output.Results[i].Source = res.Metadatas[i].Source
			output.Results[i].Title = res.Metadatas[i].Title
		}
		if i < len(res.Distances) {
			output.Results[i].Distance = res.Distances[i]
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answerer.Ask(ctx, input.Question)
	if err != nil {
		if errors.Is(err, domain.ErrNoContext) {
			return nil, AskOutput{Answer: "No relevant documents were found for this question."}, nil
		}
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer}, nil
}
