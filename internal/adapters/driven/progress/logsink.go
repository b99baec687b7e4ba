// Package progress provides ProgressSink implementations for
// ingestion events.
package progress

import (
	"github.com/vigilab/vigirag/internal/core/ports/driven"
	"github.com/vigilab/vigirag/internal/logger"
)

// Ensure LogSink implements the interface.
var _ driven.ProgressSink = (*LogSink)(nil)

// LogSink renders ingestion events through the verbose logger. It is
// the default sink for CLI runs; with --verbose the full event stream
// is visible, otherwise it is silent.
type LogSink struct{}

// NewLogSink creates a logger-backed progress sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Publish renders one event.
func (s *LogSink) Publish(event driven.IngestEvent) {
	switch event.Kind {
	case driven.EventRunStarted:
		logger.Section("Ingestion " + event.RunID)
		logger.Info("scanning %s", event.Source)
	case driven.EventFileParsed:
		logger.Debug("parsed %s (%d chunks)", event.Source, event.Count)
	case driven.EventChunkFailed:
		logger.Warn("chunk %s failed: %v", event.ChunkID, event.Err)
	case driven.EventBatchStored:
		logger.Info("stored %d vectors", event.Count)
	case driven.EventRunCompleted:
		logger.Info("run %s completed in %s (%d chunks)", event.RunID, event.Elapsed, event.Count)
	case driven.EventRunFailed:
		logger.Warn("run %s failed: %v", event.RunID, event.Err)
	default:
		logger.Debug("event %s", event.Kind)
	}
}

// NopSink discards all events.
type NopSink struct{}

// Publish discards the event.
func (NopSink) Publish(driven.IngestEvent) {}
