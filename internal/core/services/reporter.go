package services

import (
	"context"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/logger"
)

// Ensure LogReporter implements the interface.
var _ driven.FailureReporter = (*LogReporter)(nil)

// LogReporter writes soft failure events to the process logger.
type LogReporter struct{}

// NewLogReporter creates a new log reporter.
func NewLogReporter() *LogReporter {
	return &LogReporter{}
}

// Report logs the event at warn level with its fields attached.
func (r *LogReporter) Report(_ context.Context, event domain.FailureEvent) {
	l := logger.Logger()
	l.Warn().
		Str("filename", event.Filename).
		Str("content_type", event.ContentType).
		Str("extractor", event.Extractor).
		Str("status", string(event.Status)).
		Int("depth", event.Depth).
		Err(event.Err).
		Msg("extraction failed")
}
