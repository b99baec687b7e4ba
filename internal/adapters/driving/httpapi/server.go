// Package httpapi exposes the retrieval and question-answering
// pipelines over a small JSON HTTP surface.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
	"github.com/vigilab/vigirag/internal/core/ports/driving"
	"github.com/vigilab/vigirag/internal/logger"
)

// DefaultSearchK is the number of results returned by /search.
const DefaultSearchK = 5

// Server serves the JSON API.
type Server struct {
	retriever driving.Retriever
	answerer  driving.Answerer
	llm       driven.LLMService

	httpServer *http.Server
}

// NewServer creates the API server. The llm is used directly by the
// /test-prompt endpoint, bypassing retrieval.
func NewServer(retriever driving.Retriever, answerer driving.Answerer, llm driven.LLMService) *Server {
	return &Server{retriever: retriever, answerer: answerer, llm: llm}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /test-prompt", s.handleTestPrompt)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type chatRequest struct {
	Content string `json:"content"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Messages []chatMessage `json:"messages"`
}

type testPromptRequest struct {
	Question string `json:"question"`
}

type testPromptResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	k := DefaultSearchK
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid parameter k")
			return
		}
		k = parsed
	}

	res, err := s.retriever.Retrieve(r.Context(), q, k)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "missing content")
		return
	}

	answer, err := s.answerer.Ask(r.Context(), req.Content)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Messages: []chatMessage{{Role: "assistant", Content: answer}},
	})
}

func (s *Server) handleTestPrompt(w http.ResponseWriter, r *http.Request) {
	var req testPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "missing question")
		return
	}

	answer, err := s.llm.Generate(r.Context(), req.Question)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, testPromptResponse{Answer: answer})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDomainError maps pipeline failures to HTTP statuses. No context
// is a user-visible not-found condition; backend failures are upstream
// dependency errors, not internal ones.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoContext):
		writeError(w, http.StatusNotFound, "no relevant context found")
	case errors.Is(err, domain.ErrGenerationUnavailable):
		writeError(w, http.StatusBadGateway, "generation backend unavailable")
	case errors.Is(err, domain.ErrEmbeddingBackend),
		errors.Is(err, domain.ErrNoEmbeddingEndpoint),
		errors.Is(err, domain.ErrEmbeddingFormat):
		writeError(w, http.StatusBadGateway, "embedding backend unavailable")
	default:
		logger.Warn("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
