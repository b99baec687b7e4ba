package services

import (
	"context"
	"strings"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
	"github.com/vigilab/vigirag/internal/core/ports/driving"
	"github.com/vigilab/vigirag/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Answerer = (*AnswerService)(nil)

// systemInstruction frames the assistant's role for the generation
// backend. refusalSentence is the literal sentence the model is told
// to answer with when the context does not contain the answer.
const (
	systemInstruction = "You are a document assistant. Answer the question using only the context below."
	refusalSentence   = "I cannot answer this question from the provided documents."
)

// DefaultTopK is the number of chunks retrieved for Ask.
const DefaultTopK = 3

// AnswerService composes grounded answers from retrieved chunks.
type AnswerService struct {
	retriever driving.Retriever
	llm       driven.LLMService
	topK      int
}

// NewAnswerService creates a new answer service. topK <= 0 falls back
// to DefaultTopK.
func NewAnswerService(retriever driving.Retriever, llm driven.LLMService, topK int) *AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &AnswerService{retriever: retriever, llm: llm, topK: topK}
}

// Answer builds a grounding prompt from the context chunks and invokes
// the generation backend. Empty context fails with domain.ErrNoContext
// before any backend call is made.
func (s *AnswerService) Answer(ctx context.Context, question string, contextChunks []string) (string, error) {
	if len(contextChunks) == 0 {
		return "", domain.ErrNoContext
	}

	prompt := buildPrompt(question, contextChunks)
	logger.Debug("answer: prompt is %d bytes over %d chunks", len(prompt), len(contextChunks))

	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Ask is the full pipeline: retrieve the top chunks for the question,
// then answer from them. Zero retrieved chunks surfaces as
// domain.ErrNoContext.
func (s *AnswerService) Ask(ctx context.Context, question string) (string, error) {
	res, err := s.retriever.Retrieve(ctx, question, s.topK)
	if err != nil {
		return "", err
	}
	if res.Empty() {
		return "", domain.ErrNoContext
	}
	return s.Answer(ctx, question, res.Documents)
}

// buildPrompt assembles the instruction prompt: system instruction,
// refusal sentence, the chunks in retrieval order, then the question.
func buildPrompt(question string, contextChunks []string) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString(" If the context does not contain the answer, reply exactly: \"")
	b.WriteString(refusalSentence)
	b.WriteString("\"\n\nContext:\n")
	b.WriteString(strings.Join(contextChunks, "\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}
