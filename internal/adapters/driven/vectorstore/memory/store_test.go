package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigilab/vigirag/internal/core/domain"
)

func chunk(id, text string) domain.Chunk {
	return domain.Chunk{
		ID:       id,
		Text:     text,
		Metadata: domain.ChunkMetadata{Source: "doc.nxml", Title: "Doc"},
	}
}

func TestUpsert_OverwritesNotDuplicates(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	chunks := []domain.Chunk{chunk("a_chunk0", "first"), chunk("a_chunk1", "second")}
	vectors := [][]float32{{1, 0}, {0, 1}}
	require.NoError(t, s.Upsert(ctx, chunks, vectors))

	// Re-ingesting the same batch must leave the count unchanged.
	require.NoError(t, s.Upsert(ctx, chunks, vectors))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// And the newest text wins on conflict.
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{chunk("a_chunk0", "revised")}, [][]float32{{1, 0}}))
	res, err := s.QueryByEmbedding(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "revised", res.Documents[0])
}

func TestUpsert_LengthMismatch(t *testing.T) {
	s := NewStore(nil)
	err := s.Upsert(context.Background(), []domain.Chunk{chunk("x", "x")}, nil)
	assert.True(t, errors.Is(err, domain.ErrUpsertFailed))
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{chunk("a", "a")}, [][]float32{{1, 0}}))
	err := s.Upsert(ctx, []domain.Chunk{chunk("b", "b")}, [][]float32{{1, 0, 0}})
	assert.True(t, errors.Is(err, domain.ErrUpsertFailed))
}

func TestQueryByEmbedding_AscendingDistance(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	chunks := []domain.Chunk{chunk("a", "east"), chunk("b", "north"), chunk("c", "northeast")}
	vectors := [][]float32{{1, 0}, {0, 1}, {0.7, 0.7}}
	require.NoError(t, s.Upsert(ctx, chunks, vectors))

	res, err := s.QueryByEmbedding(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Equal(t, 3, res.Len())
	assert.Equal(t, "a", res.IDs[0])
	assert.Equal(t, "c", res.IDs[1])
	assert.Equal(t, "b", res.IDs[2])
	for i := 1; i < len(res.Distances); i++ {
		assert.LessOrEqual(t, res.Distances[i-1], res.Distances[i])
	}
	// Co-indexed arrays.
	assert.Len(t, res.Documents, 3)
	assert.Len(t, res.Metadatas, 3)
	assert.Len(t, res.Distances, 3)
}

func TestQueryByEmbedding_KZero(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, []domain.Chunk{chunk("a", "a")}, [][]float32{{1}}))

	res, err := s.QueryByEmbedding(ctx, []float32{1}, 0)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestQueryByText_WithoutEmbedder(t *testing.T) {
	s := NewStore(nil)
	_, err := s.QueryByText(context.Background(), "query", 3)
	assert.True(t, errors.Is(err, domain.ErrTextQueryUnsupported))
}
