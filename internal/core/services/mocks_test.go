package services

import (
	"context"
	"sync"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockNormaliser implements driven.Normaliser for testing.
type mockNormaliser struct {
	docs map[string]*domain.Document
	errs map[string]error
}

func (m *mockNormaliser) NormaliseFile(path string) (*domain.Document, error) {
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if doc, ok := m.docs[path]; ok {
		return doc, nil
	}
	return &domain.Document{Source: path, Title: "t", Body: "b"}, nil
}

// mockEmbedding implements driven.EmbeddingService for testing.
type mockEmbedding struct {
	embedding []float32
	embedErr  error
	// failOn makes Embed fail only for the given text.
	failOn string

	calls   []string
	batches [][]string
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failOn != "" && text == m.failOn {
		return nil, domain.ErrEmbeddingBackend
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.batches = append(m.batches, texts)
	result := make([][]float32, 0, len(texts))
	for _, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		result = append(result, vec)
	}
	return result, nil
}

func (m *mockEmbedding) ModelName() string { return "mock-embed" }

func (m *mockEmbedding) Ping(_ context.Context) error { return nil }

// mockStore implements driven.VectorStore for testing.
type mockStore struct {
	queryResult  *domain.QueryResult
	queryErr     error
	textQueryErr error
	upsertErr    error
	countErr     error

	upsertedChunks  []domain.Chunk
	upsertedVectors [][]float32
	textQueries     []string
	vectorQueries   [][]float32
}

func (m *mockStore) Upsert(_ context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertedChunks = append(m.upsertedChunks, chunks...)
	m.upsertedVectors = append(m.upsertedVectors, embeddings...)
	return nil
}

func (m *mockStore) QueryByText(_ context.Context, text string, _ int) (*domain.QueryResult, error) {
	m.textQueries = append(m.textQueries, text)
	if m.textQueryErr != nil {
		return nil, m.textQueryErr
	}
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.result(), nil
}

func (m *mockStore) QueryByEmbedding(_ context.Context, embedding []float32, _ int) (*domain.QueryResult, error) {
	m.vectorQueries = append(m.vectorQueries, embedding)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.result(), nil
}

func (m *mockStore) Count(_ context.Context) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.upsertedChunks), nil
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) result() *domain.QueryResult {
	if m.queryResult != nil {
		return m.queryResult
	}
	return &domain.QueryResult{}
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	answer      string
	generateErr error

	prompts []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.answer, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	result *domain.QueryResult
	err    error

	queries []string
	ks      []int
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, k int) (*domain.QueryResult, error) {
	m.queries = append(m.queries, query)
	m.ks = append(m.ks, k)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.QueryResult{}, nil
}

// mockSink implements driven.ProgressSink for testing.
type mockSink struct {
	mu     sync.Mutex
	events []driven.IngestEvent
}

func (m *mockSink) Publish(event driven.IngestEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockSink) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, len(m.events))
	for i, e := range m.events {
		kinds[i] = e.Kind
	}
	return kinds
}
