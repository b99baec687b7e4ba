package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vigilab/vigirag/internal/chunker"
	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
	"github.com/vigilab/vigirag/internal/core/ports/driving"
	"github.com/vigilab/vigirag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: scan the data directory
// for NXML documents, chunk each document's text, embed every chunk
// and upsert the whole batch into the vector store. Chunk ids are
// deterministic, so re-running ingestion overwrites rather than
// duplicates.
type IngestService struct {
	dataDir    string
	normaliser driven.Normaliser
	chunker    *chunker.Chunker
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	sink       driven.ProgressSink

	// skipOnError drops chunks whose embedding fails instead of
	// aborting the run.
	skipOnError bool
}

// NewIngestService creates a new ingestion service. The sink is
// optional (can be nil).
func NewIngestService(
	dataDir string,
	normaliser driven.Normaliser,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	sink driven.ProgressSink,
	skipOnError bool,
) *IngestService {
	return &IngestService{
		dataDir:     dataDir,
		normaliser:  normaliser,
		chunker:     ch,
		embedder:    embedder,
		store:       store,
		sink:        sink,
		skipOnError: skipOnError,
	}
}

// Ingest scans, chunks, embeds and stores the corpus in one run. The
// batch is written in a single upsert after every chunk has been
// embedded, matching the idempotent-write contract of the store.
func (s *IngestService) Ingest(ctx context.Context) (*driving.IngestReport, error) {
	runID := uuid.NewString()
	start := time.Now()

	s.publish(driven.IngestEvent{RunID: runID, Kind: driven.EventRunStarted, Source: s.dataDir})

	files, err := filepath.Glob(filepath.Join(s.dataDir, "*.nxml"))
	if err != nil {
		return nil, s.fail(runID, fmt.Errorf("scanning %s: %w", s.dataDir, err))
	}
	logger.Info("found %d nxml files in %s", len(files), s.dataDir)

	report := &driving.IngestReport{RunID: runID, Files: len(files)}

	var (
		batch      []domain.Chunk
		embeddings [][]float32
	)

	for _, path := range files {
		doc, err := s.normaliser.NormaliseFile(path)
		if err != nil {
			if s.skipOnError {
				s.publish(driven.IngestEvent{
					RunID: runID, Kind: driven.EventChunkFailed,
					Source: filepath.Base(path), Err: err,
				})
				report.Files--
				report.Skipped++
				continue
			}
			return nil, s.fail(runID, fmt.Errorf("parsing %s: %w", path, err))
		}

		pieces := s.chunker.Split(doc.Text())
		s.publish(driven.IngestEvent{
			RunID: runID, Kind: driven.EventFileParsed,
			Source: doc.Source, Count: len(pieces),
		})

		chunks := make([]domain.Chunk, len(pieces))
		for idx, text := range pieces {
			chunks[idx] = domain.Chunk{
				ID:   domain.ChunkID(doc.Source, idx),
				Text: text,
				Metadata: domain.ChunkMetadata{
					Source: doc.Source,
					Title:  doc.Title,
				},
			}
		}

		if !s.skipOnError {
			// Under the abort policy the whole document embeds as one
			// batch; the first failure ends the run either way.
			if len(pieces) > 0 {
				vecs, err := s.embedder.EmbedBatch(ctx, pieces)
				if err != nil {
					return nil, s.fail(runID, fmt.Errorf("embedding %s: %w", doc.Source, err))
				}
				batch = append(batch, chunks...)
				embeddings = append(embeddings, vecs...)
			}
			continue
		}

		// The skip policy needs per-chunk granularity to drop only the
		// chunks that fail.
		for idx, text := range pieces {
			vec, err := s.embedder.Embed(ctx, text)
			if err != nil {
				s.publish(driven.IngestEvent{
					RunID: runID, Kind: driven.EventChunkFailed,
					Source: doc.Source, ChunkID: chunks[idx].ID, Err: err,
				})
				report.Skipped++
				continue
			}

			batch = append(batch, chunks[idx])
			embeddings = append(embeddings, vec)
		}
	}

	if err := s.store.Upsert(ctx, batch, embeddings); err != nil {
		return nil, s.fail(runID, err)
	}
	report.Chunks = len(batch)
	s.publish(driven.IngestEvent{RunID: runID, Kind: driven.EventBatchStored, Count: len(batch)})

	// Sanity check only: the store remains the source of truth.
	count, err := s.store.Count(ctx)
	if err != nil {
		logger.Warn("post-ingest count failed: %v", err)
	} else {
		report.StoreCount = count
	}

	s.publish(driven.IngestEvent{
		RunID: runID, Kind: driven.EventRunCompleted,
		Count: report.Chunks, Elapsed: time.Since(start),
	})
	return report, nil
}

func (s *IngestService) publish(event driven.IngestEvent) {
	if s.sink != nil {
		s.sink.Publish(event)
	}
}

func (s *IngestService) fail(runID string, err error) error {
	s.publish(driven.IngestEvent{RunID: runID, Kind: driven.EventRunFailed, Err: err})
	return err
}
