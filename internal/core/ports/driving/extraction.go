package driving

import (
	"context"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// ExtractionService turns attachments into indexable text.
type ExtractionService interface {
	// Extract resolves the content type of a source, extracts its text and
	// normalises it. Unsupported or corrupt content is absorbed into an
	// ExtractedContent with empty text and a failure status; only I/O
	// failures and cancellation are returned as errors.
	Extract(ctx context.Context, source domain.Source) (*domain.ExtractedContent, error)

	// ExtractBatch extracts many sources in parallel. It is the bulk
	// indexing entry point: one bad attachment never aborts the batch.
	// Items are returned in input order. The error is non-nil only when
	// ctx is cancelled.
	ExtractBatch(ctx context.Context, sources []domain.Source) ([]domain.BatchItem, error)

	// ResolveContentType returns the content type the service would use
	// for the given filename, declared type and leading bytes.
	ResolveContentType(filename, declared string, prefix []byte) string

	// SupportedMIMETypes returns all content types with a registered extractor.
	SupportedMIMETypes() []string
}
