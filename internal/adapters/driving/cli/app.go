package cli

import (
	"context"
	"fmt"

	"github.com/vigilab/vigirag/internal/adapters/driven/config/file"
	embedollama "github.com/vigilab/vigirag/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/vigilab/vigirag/internal/adapters/driven/llm/ollama"
	"github.com/vigilab/vigirag/internal/adapters/driven/progress"
	"github.com/vigilab/vigirag/internal/adapters/driven/vectorstore/chroma"
	"github.com/vigilab/vigirag/internal/adapters/driven/vectorstore/memory"
	"github.com/vigilab/vigirag/internal/adapters/driven/vectorstore/sqlite"
	"github.com/vigilab/vigirag/internal/chunker"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
	"github.com/vigilab/vigirag/internal/core/ports/driving"
	"github.com/vigilab/vigirag/internal/core/services"
	"github.com/vigilab/vigirag/internal/logger"
	"github.com/vigilab/vigirag/internal/normalisers/nxml"
)

// app aggregates the assembled components for one command invocation.
type app struct {
	cfg       file.Config
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	store     driven.VectorStore
	ingestor  driving.Ingestor
	retriever driving.Retriever
	answerer  driving.Answerer
}

// buildApp loads configuration and assembles the full pipeline.
func buildApp() (*app, error) {
	path := configFlag
	if path == "" {
		path = file.DefaultPath()
	}
	cfg, err := file.Load(path)
	if err != nil {
		return nil, err
	}

	embedder := embedollama.NewEmbeddingService(embedollama.Config{
		BaseURL:              cfg.Embedding.BaseURL,
		Model:                cfg.Embedding.Model,
		Timeout:              cfg.Embedding.Timeout(),
		MaxRequestsPerSecond: cfg.Embedding.MaxRPS,
	})

	llm := llmollama.NewLLMService(llmollama.Config{
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
		Timeout: cfg.Generation.Timeout(),
	})

	store, err := buildStore(cfg, embedder)
	if err != nil {
		return nil, err
	}

	ch, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		store.Close()
		return nil, err
	}

	skipOnError := cfg.Ingest.OnError == file.OnErrorSkip
	ingestor := services.NewIngestService(
		cfg.DataDir, nxml.New(), ch, embedder, store, progress.NewLogSink(), skipOnError)
	retriever := services.NewRetrieveService(store, embedder)
	answerer := services.NewAnswerService(retriever, llm, services.DefaultTopK)

	return &app{
		cfg:       cfg,
		embedder:  embedder,
		llm:       llm,
		store:     store,
		ingestor:  ingestor,
		retriever: retriever,
		answerer:  answerer,
	}, nil
}

func buildStore(cfg file.Config, embedder driven.EmbeddingService) (driven.VectorStore, error) {
	switch cfg.Store.Type {
	case file.StoreSQLite:
		return sqlite.NewStore(cfg.PersistPath, cfg.Collection, embedder)
	case file.StoreChroma:
		return chroma.NewStore(chroma.Config{
			BaseURL:    cfg.Store.BaseURL,
			Collection: cfg.Collection,
		}), nil
	case file.StoreMemory:
		return memory.NewStore(embedder), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}

// pingBackends checks backend reachability before long-running modes.
// Failures are logged as warnings only; the backends may come up later.
func (a *app) pingBackends(ctx context.Context) {
	if err := a.embedder.Ping(ctx); err != nil {
		logger.Warn("embedding backend unreachable (%s): %v", a.embedder.ModelName(), err)
	}
	if err := a.llm.Ping(ctx); err != nil {
		logger.Warn("generation backend unreachable (%s): %v", a.llm.ModelName(), err)
	}
}

// Close releases the app's resources.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("closing store: %v", err)
	}
}
