package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigilab/vigirag/internal/chunker"
	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
)

// writeCorpus creates empty .nxml files; the mock normaliser supplies
// their parsed content keyed by path.
func writeCorpus(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<article/>"), 0o600))
	}
	return dir
}

func newTestChunker(t *testing.T) *chunker.Chunker {
	t.Helper()
	ch, err := chunker.New(3, 1)
	require.NoError(t, err)
	return ch
}

func TestIngest_Success(t *testing.T) {
	dir := writeCorpus(t, "a.nxml", "b.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "Alpha", Body: "one two three four"},
		filepath.Join(dir, "b.nxml"): {Source: "b.nxml", Title: "Beta", Body: "five"},
	}}
	embedder := &mockEmbedding{embedding: []float32{1, 2}}
	store := &mockStore{}
	sink := &mockSink{}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), embedder, store, sink, false)
	report, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Files)
	assert.Zero(t, report.Skipped)
	assert.NotEmpty(t, report.RunID)

	// "Alpha\n\none two three four" is 5 words: windows of 3 with
	// step 2 yield 3 chunks; "Beta\n\nfive" yields 1.
	require.Len(t, store.upsertedChunks, 4)
	assert.Equal(t, 4, report.Chunks)
	assert.Equal(t, 4, report.StoreCount)
	assert.Equal(t, "a.nxml_chunk0", store.upsertedChunks[0].ID)
	assert.Equal(t, "a.nxml_chunk2", store.upsertedChunks[2].ID)
	assert.Equal(t, "b.nxml_chunk0", store.upsertedChunks[3].ID)
	assert.Equal(t, "Alpha", store.upsertedChunks[0].Metadata.Title)
	assert.Equal(t, "a.nxml", store.upsertedChunks[0].Metadata.Source)
	assert.Len(t, store.upsertedVectors, 4)

	assert.Equal(t, []string{
		driven.EventRunStarted,
		driven.EventFileParsed,
		driven.EventFileParsed,
		driven.EventBatchStored,
		driven.EventRunCompleted,
	}, sink.kinds())
}

func TestIngest_EmbedsEachDocumentAsOneBatch(t *testing.T) {
	dir := writeCorpus(t, "a.nxml", "b.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "Alpha", Body: "one two three four"},
		filepath.Join(dir, "b.nxml"): {Source: "b.nxml", Title: "Beta", Body: "five"},
	}}
	embedder := &mockEmbedding{}
	store := &mockStore{}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), embedder, store, nil, false)
	_, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	require.Len(t, embedder.batches, 2, "one batch call per document")
	assert.Len(t, embedder.batches[0], 3)
	assert.Equal(t, []string{"Beta five"}, embedder.batches[1])
}

func TestIngest_SkipPolicy_EmbedsChunkByChunk(t *testing.T) {
	dir := writeCorpus(t, "a.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "T", Body: "x y z"},
	}}
	embedder := &mockEmbedding{}
	store := &mockStore{}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), embedder, store, nil, true)
	_, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	assert.Empty(t, embedder.batches, "skip policy embeds chunk by chunk")
	assert.NotEmpty(t, embedder.calls)
}

func TestIngest_Reingestion_SameIDs(t *testing.T) {
	dir := writeCorpus(t, "a.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "Alpha", Body: "one two"},
	}}
	store := &mockStore{}
	svc := NewIngestService(dir, normaliser, newTestChunker(t), &mockEmbedding{}, store, nil, false)

	_, err := svc.Ingest(context.Background())
	require.NoError(t, err)
	first := store.upsertedChunks[0].ID

	_, err = svc.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, store.upsertedChunks[1].ID, "chunk ids must be stable across runs")
}

func TestIngest_EmptyDirectory(t *testing.T) {
	store := &mockStore{}
	svc := NewIngestService(t.TempDir(), &mockNormaliser{}, newTestChunker(t), &mockEmbedding{}, store, nil, false)

	report, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Files)
	assert.Zero(t, report.Chunks)
	assert.Empty(t, store.upsertedChunks)
}

func TestIngest_AbortPolicy_EmbedFailureStopsRun(t *testing.T) {
	dir := writeCorpus(t, "a.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "T", Body: "word"},
	}}
	embedder := &mockEmbedding{embedErr: domain.ErrEmbeddingBackend}
	store := &mockStore{}
	sink := &mockSink{}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), embedder, store, sink, false)
	_, err := svc.Ingest(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingBackend)
	assert.Empty(t, store.upsertedChunks, "aborted run must not write")
	assert.Contains(t, sink.kinds(), driven.EventRunFailed)
}

func TestIngest_SkipPolicy_DropsFailedChunk(t *testing.T) {
	dir := writeCorpus(t, "a.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		// 4 words: chunks "T x bad", "bad y" with size 3 overlap 1.
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "T", Body: "x bad y"},
	}}
	embedder := &mockEmbedding{failOn: "bad y"}
	store := &mockStore{}
	sink := &mockSink{}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), embedder, store, sink, true)
	report, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, store.upsertedChunks, 1)
	assert.Equal(t, "a.nxml_chunk0", store.upsertedChunks[0].ID)
	assert.Contains(t, sink.kinds(), driven.EventChunkFailed)
}

func TestIngest_SkipPolicy_DropsUnparsableFile(t *testing.T) {
	dir := writeCorpus(t, "a.nxml", "broken.nxml")
	normaliser := &mockNormaliser{
		docs: map[string]*domain.Document{
			filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "T", Body: "ok"},
		},
		errs: map[string]error{
			filepath.Join(dir, "broken.nxml"): errors.New("malformed xml"),
		},
	}
	store := &mockStore{}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), &mockEmbedding{}, store, nil, true)
	report, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, store.upsertedChunks, 1)
}

func TestIngest_UpsertFailure(t *testing.T) {
	dir := writeCorpus(t, "a.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "T", Body: "word"},
	}}
	store := &mockStore{upsertErr: domain.ErrUpsertFailed}
	sink := &mockSink{}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), &mockEmbedding{}, store, sink, false)
	_, err := svc.Ingest(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpsertFailed)
	assert.Contains(t, sink.kinds(), driven.EventRunFailed)
}

func TestIngest_CountFailureIsNotFatal(t *testing.T) {
	dir := writeCorpus(t, "a.nxml")
	normaliser := &mockNormaliser{docs: map[string]*domain.Document{
		filepath.Join(dir, "a.nxml"): {Source: "a.nxml", Title: "T", Body: "word"},
	}}
	store := &mockStore{countErr: errors.New("count unavailable")}

	svc := NewIngestService(dir, normaliser, newTestChunker(t), &mockEmbedding{}, store, nil, false)
	report, err := svc.Ingest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Chunks)
	assert.Zero(t, report.StoreCount)
}
