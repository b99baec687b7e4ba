package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigilab/vigirag/internal/core/domain"
)

func TestGenerate_TrimsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream, "generation must be non-streaming")
		assert.Equal(t, "llama3.2", req.Model)

		w.Write([]byte(`{"response": "  The active ingredient is X.  ", "done": true}`))
	}))
	defer srv.Close()

	s := NewLLMService(Config{BaseURL: srv.URL})
	out, err := s.Generate(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "The active ingredient is X.", out)
}

func TestGenerate_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewLLMService(Config{BaseURL: srv.URL})
	_, err := s.Generate(context.Background(), "question")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGenerationUnavailable))
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestGenerate_TransportError(t *testing.T) {
	s := NewLLMService(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := s.Generate(context.Background(), "question")
	assert.True(t, errors.Is(err, domain.ErrGenerationUnavailable))
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewLLMService(Config{BaseURL: srv.URL})
	assert.NoError(t, s.Ping(context.Background()))
}
