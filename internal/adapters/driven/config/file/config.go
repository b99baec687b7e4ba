// Package file loads service configuration from a TOML file into a
// typed Config, with a small set of environment overrides layered on
// top. The config is read once at startup and passed into constructors
// explicitly; components never read the environment or the file
// themselves.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vigilab/vigirag/internal/chunker"
	"github.com/vigilab/vigirag/internal/core/domain"
)

// Store backend names accepted in [store].type.
const (
	StoreSQLite = "sqlite"
	StoreChroma = "chroma"
	StoreMemory = "memory"
)

// Ingest error policies accepted in [ingest].on_error.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Config is the full service configuration.
type Config struct {
	// DataDir is the directory scanned for *.nxml documents.
	DataDir string `toml:"data_dir"`

	// PersistPath is where the embedded store keeps its database.
	PersistPath string `toml:"persist_path"`

	// Collection names the vector collection.
	Collection string `toml:"collection"`

	// Addr is the HTTP listen address for serve mode.
	Addr string `toml:"addr"`

	Embedding  EmbeddingConfig  `toml:"embedding"`
	Generation GenerationConfig `toml:"generation"`
	Chunking   ChunkingConfig   `toml:"chunking"`
	Ingest     IngestConfig     `toml:"ingest"`
	Store      StoreConfig      `toml:"store"`
}

// EmbeddingConfig configures the embedding backend.
type EmbeddingConfig struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	TimeoutSecs int     `toml:"timeout_secs"`
	MaxRPS      float64 `toml:"max_rps"`
}

// Timeout returns the per-request timeout.
func (c EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GenerationConfig configures the answer-generation backend.
type GenerationConfig struct {
	BaseURL     string `toml:"base_url"`
	Model       string `toml:"model"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// Timeout returns the per-request timeout.
func (c GenerationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ChunkingConfig configures the word-window chunker.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// IngestConfig configures ingestion behaviour.
type IngestConfig struct {
	// OnError is either "abort" (default) or "skip": whether a chunk
	// that fails to embed aborts the run or is skipped with an event.
	OnError string `toml:"on_error"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	// Type is one of sqlite, chroma or memory.
	Type string `toml:"type"`

	// BaseURL is the server URL for the chroma backend.
	BaseURL string `toml:"base_url"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir:     "./data",
		PersistPath: "./chroma",
		Collection:  "rxvigilance",
		Addr:        ":8080",
		Embedding: EmbeddingConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "all-minilm",
			TimeoutSecs: 5,
		},
		Generation: GenerationConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "llama3.2",
			TimeoutSecs: 120,
		},
		Chunking: ChunkingConfig{
			Size:    chunker.DefaultChunkSize,
			Overlap: chunker.DefaultOverlap,
		},
		Ingest: IngestConfig{OnError: OnErrorAbort},
		Store:  StoreConfig{Type: StoreSQLite, BaseURL: "http://localhost:8000"},
	}
}

// Load reads the TOML file at path, layered over Default, then layers
// recognised environment variables on top. A missing file is not an
// error: defaults apply. Invalid values are rejected here so every
// component receives a config it can trust.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values with the environment variables the
// deployment scripts set. OLLAMA_URL points both backends at the same
// server, which is how Ollama is normally run.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("DATA_DIR"); ok {
		c.DataDir = v
	}
	if v, ok := os.LookupEnv("OLLAMA_URL"); ok {
		c.Embedding.BaseURL = v
		c.Generation.BaseURL = v
	}
	if v, ok := os.LookupEnv("OLLAMA_EMBED_MODEL"); ok {
		c.Embedding.Model = v
	}
	if v, ok := os.LookupEnv("OLLAMA_LLM_MODEL"); ok {
		c.Generation.Model = v
	}
	if v, ok := os.LookupEnv("CHROMA_URL"); ok {
		c.Store.BaseURL = v
	}
}

// DefaultPath returns the conventional config file location,
// ~/.vigirag/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vigirag", "config.toml")
}

// Validate rejects configurations no component could run with.
func (c Config) Validate() error {
	if c.Chunking.Size > 0 && c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidChunking, c.Chunking.Overlap, c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative", domain.ErrInvalidChunking)
	}

	switch c.Store.Type {
	case StoreSQLite, StoreChroma, StoreMemory:
	default:
		return fmt.Errorf("unknown store type %q (want %s, %s or %s)",
			c.Store.Type, StoreSQLite, StoreChroma, StoreMemory)
	}

	switch c.Ingest.OnError {
	case OnErrorAbort, OnErrorSkip:
	default:
		return fmt.Errorf("unknown ingest on_error policy %q (want %s or %s)",
			c.Ingest.OnError, OnErrorAbort, OnErrorSkip)
	}

	return nil
}
