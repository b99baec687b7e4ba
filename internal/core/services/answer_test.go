package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigilab/vigirag/internal/core/domain"
)

func TestAnswer_EmptyContext(t *testing.T) {
	llm := &mockLLM{answer: "should not be used"}
	svc := NewAnswerService(&mockRetriever{}, llm, 3)

	_, err := svc.Answer(context.Background(), "question", nil)

	assert.ErrorIs(t, err, domain.ErrNoContext)
	assert.Empty(t, llm.prompts, "empty context must not invoke the backend")
}

func TestAnswer_PromptAssembly(t *testing.T) {
	llm := &mockLLM{answer: "42"}
	svc := NewAnswerService(&mockRetriever{}, llm, 3)

	_, err := svc.Answer(context.Background(), "What is the dose?", []string{"chunk one", "chunk two"})
	require.NoError(t, err)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, systemInstruction)
	assert.Contains(t, prompt, refusalSentence)
	assert.Contains(t, prompt, "chunk one\nchunk two")
	assert.Contains(t, prompt, "Question: What is the dose?")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))

	// Context must precede the question, in retrieval order.
	assert.Less(t, strings.Index(prompt, "chunk one"), strings.Index(prompt, "chunk two"))
	assert.Less(t, strings.Index(prompt, "chunk two"), strings.Index(prompt, "Question:"))
}

func TestAnswer_TrimsWhitespace(t *testing.T) {
	llm := &mockLLM{answer: "  The active ingredient is X.  \n"}
	svc := NewAnswerService(&mockRetriever{}, llm, 3)

	answer, err := svc.Answer(context.Background(), "q", []string{"ctx"})

	require.NoError(t, err)
	assert.Equal(t, "The active ingredient is X.", answer)
}

func TestAnswer_GenerationFailure(t *testing.T) {
	llm := &mockLLM{generateErr: domain.ErrGenerationUnavailable}
	svc := NewAnswerService(&mockRetriever{}, llm, 3)

	_, err := svc.Answer(context.Background(), "q", []string{"ctx"})
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}

func TestAsk_RetrievesThenAnswers(t *testing.T) {
	retriever := &mockRetriever{result: &domain.QueryResult{
		IDs:       []string{"a", "b"},
		Documents: []string{"first chunk", "second chunk"},
		Distances: []float64{0.1, 0.2},
	}}
	llm := &mockLLM{answer: "grounded answer"}
	svc := NewAnswerService(retriever, llm, 3)

	answer, err := svc.Ask(context.Background(), "question")

	require.NoError(t, err)
	assert.Equal(t, "grounded answer", answer)
	assert.Equal(t, []string{"question"}, retriever.queries)
	assert.Equal(t, []int{3}, retriever.ks)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "first chunk\nsecond chunk")
}

func TestAsk_EmptyRetrieval(t *testing.T) {
	llm := &mockLLM{}
	svc := NewAnswerService(&mockRetriever{}, llm, 3)

	_, err := svc.Ask(context.Background(), "question")

	assert.ErrorIs(t, err, domain.ErrNoContext)
	assert.Empty(t, llm.prompts)
}

func TestAsk_RetrievalErrorPropagates(t *testing.T) {
	retriever := &mockRetriever{err: domain.ErrEmbeddingBackend}
	svc := NewAnswerService(retriever, &mockLLM{}, 3)

	_, err := svc.Ask(context.Background(), "question")
	assert.ErrorIs(t, err, domain.ErrEmbeddingBackend)
}

func TestNewAnswerService_DefaultTopK(t *testing.T) {
	retriever := &mockRetriever{result: &domain.QueryResult{
		IDs: []string{"a"}, Documents: []string{"ctx"},
	}}
	svc := NewAnswerService(retriever, &mockLLM{answer: "a"}, 0)

	_, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []int{DefaultTopK}, retriever.ks)
}
