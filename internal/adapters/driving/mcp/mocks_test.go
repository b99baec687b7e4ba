package mcp

import (
	"context"

	"github.com/vigilab/vigirag/internal/core/domain"
)

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	result *domain.QueryResult
	err    error
	lastK  int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, k int) (*domain.QueryResult, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.QueryResult{}, nil
}

// mockAnswerer implements driving.Answerer for testing.
type mockAnswerer struct {
	answer string
	err    error
}

func (m *mockAnswerer) Answer(_ context.Context, _ string, _ []string) (string, error) {
	return m.answer, m.err
}

func (m *mockAnswerer) Ask(_ context.Context, _ string) (string, error) {
	return m.answer, m.err
}
