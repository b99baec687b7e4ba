// Package sqlite provides an embedded, persistent vector store backed
// by SQLite. Embeddings are stored as little-endian float32 BLOBs and
// similarity search is a brute-force cosine-distance scan, which is
// adequate for corpus sizes this service targets.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id        TEXT PRIMARY KEY,
	document  TEXT NOT NULL,
	source    TEXT NOT NULL,
	title     TEXT NOT NULL,
	embedding BLOB NOT NULL,
	dim       INTEGER NOT NULL
);
`

// Store is a SQLite-backed vector store for one collection.
type Store struct {
	db   *sql.DB
	path string

	// embedder, when set, enables text-native queries.
	embedder driven.EmbeddingService
}

// NewStore opens (or creates) the store at the given persistence path.
// The collection name becomes the database file name. The embedder is
// optional; without it QueryByText returns domain.ErrTextQueryUnsupported.
func NewStore(persistDir, collection string, embedder driven.EmbeddingService) (*Store, error) {
	if persistDir == "" {
		persistDir = "./chroma"
	}
	if collection == "" {
		collection = "default"
	}

	if err := os.MkdirAll(persistDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating persist directory: %w", err)
	}

	dbPath := filepath.Join(persistDir, collection+".db")

	// WAL mode for better concurrency between readers and the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath, embedder: embedder}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Upsert writes the batch in one transaction, overwriting previously
// seen ids. Mixing embedding dimensions in one collection is rejected.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks but %d embeddings", domain.ErrUpsertFailed, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	existing, err := s.dimension(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrUpsertFailed, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %s", domain.ErrUpsertFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document, source, title, embedding, dim)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document = excluded.document,
			source = excluded.source,
			title = excluded.title,
			embedding = excluded.embedding,
			dim = excluded.dim`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %s", domain.ErrUpsertFailed, err)
	}
	defer stmt.Close()

	for i := range chunks {
		dim := len(embeddings[i])
		if existing == 0 {
			existing = dim
		}
		if dim != existing {
			return fmt.Errorf("%w: dimension mismatch: %d vs %d", domain.ErrUpsertFailed, dim, existing)
		}
		blob := encodeEmbedding(embeddings[i])
		if _, err := stmt.ExecContext(ctx,
			chunks[i].ID, chunks[i].Text, chunks[i].Metadata.Source, chunks[i].Metadata.Title, blob, dim,
		); err != nil {
			return fmt.Errorf("%w: insert %s: %s", domain.ErrUpsertFailed, chunks[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %s", domain.ErrUpsertFailed, err)
	}
	return nil
}

// QueryByText embeds the query with the configured embedder and
// delegates to QueryByEmbedding.
func (s *Store) QueryByText(ctx context.Context, text string, k int) (*domain.QueryResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrTextQueryUnsupported
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.QueryByEmbedding(ctx, vec, k)
}

// QueryByEmbedding scans all stored vectors and returns the k nearest
// by cosine distance, ascending.
func (s *Store) QueryByEmbedding(ctx context.Context, embedding []float32, k int) (*domain.QueryResult, error) {
	if k <= 0 {
		return &domain.QueryResult{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, source, title, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	type scored struct {
		id       string
		text     string
		meta     domain.ChunkMetadata
		distance float64
	}
	var hits []scored

	for rows.Next() {
		var (
			h    scored
			blob []byte
		)
		if err := rows.Scan(&h.id, &h.text, &h.meta.Source, &h.meta.Title, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("decode embedding for %s: %w", h.id, err)
		}
		h.distance, err = cosineDistance(embedding, vec)
		if err != nil {
			return nil, fmt.Errorf("distance for %s: %w", h.id, err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })
	if k < len(hits) {
		hits = hits[:k]
	}

	result := &domain.QueryResult{
		IDs:       make([]string, 0, len(hits)),
		Documents: make([]string, 0, len(hits)),
		Metadatas: make([]domain.ChunkMetadata, 0, len(hits)),
		Distances: make([]float64, 0, len(hits)),
	}
	for _, h := range hits {
		result.IDs = append(result.IDs, h.id)
		result.Documents = append(result.Documents, h.text)
		result.Metadatas = append(result.Metadatas, h.meta)
		result.Distances = append(result.Distances, h.distance)
	}
	return result, nil
}

// Count returns the total number of stored vectors.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// dimension returns the embedding dimension already present in the
// collection, or 0 when empty.
func (s *Store) dimension(ctx context.Context) (int, error) {
	var dim int
	err := s.db.QueryRowContext(ctx, `SELECT dim FROM chunks LIMIT 1`).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dim, nil
}
