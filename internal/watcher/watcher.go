// Package watcher re-runs ingestion when the NXML corpus changes on
// disk. Chunk ids are deterministic, so each re-run overwrites the
// affected vectors instead of duplicating them.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vigilab/vigirag/internal/core/ports/driving"
	"github.com/vigilab/vigirag/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last change
// before re-ingesting, so bulk copies trigger a single run.
const DefaultDebounce = 2 * time.Second

// Watcher triggers ingestion runs on data directory changes.
type Watcher struct {
	dir      string
	ingestor driving.Ingestor
	debounce time.Duration
}

// New creates a watcher over dir. debounce <= 0 falls back to
// DefaultDebounce.
func New(dir string, ingestor driving.Ingestor, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, ingestor: ingestor, debounce: debounce}
}

// Run watches until the context is cancelled. Ingestion failures are
// logged and watching continues; the next change gets another chance.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s for changes", w.dir)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("change detected: %s %s", event.Op, event.Name)
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case <-timer.C:
			pending = false
			report, err := w.ingestor.Ingest(ctx)
			if err != nil {
				logger.Warn("re-ingestion failed: %v", err)
				continue
			}
			logger.Info("re-ingested %d chunks from %d files", report.Chunks, report.Files)
		}
	}
}

// relevant reports whether the event should trigger a re-ingest: only
// content changes to .nxml files count.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".nxml")
}
