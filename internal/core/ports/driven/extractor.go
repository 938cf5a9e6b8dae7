package driven

import (
	"context"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// Extractor converts the bytes of one content-type family into text.
// Implementations hold no cross-call state and are safe for concurrent use.
type Extractor interface {
	// Name identifies the extractor in logs and failure events.
	Name() string

	// SupportedMIMETypes returns the content types this extractor handles.
	// A trailing "/*" registers a whole family (e.g. "text/*").
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Family or fallback extractors should return 1-9.
	Priority() int

	// Extract returns the text of the attachment.
	// Failures wrap domain.ErrUnsupportedFormat or domain.ErrCorruptInput.
	Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error)
}

// ExtractRequest is the input handed to an Extractor.
type ExtractRequest struct {
	// Attachment carries the bytes and resolved content type.
	Attachment *domain.Attachment

	// Budget tracks depth and expanded bytes across archive recursion.
	Budget *domain.Budget

	// Members dispatches archive members back through the dispatcher.
	// Only container extractors use it; it may be nil for leaf formats.
	Members MemberExtractor
}

// ExtractResult contains the output of one extractor.
type ExtractResult struct {
	// Text is the raw extracted text before the normalisation pass.
	Text string

	// Metadata contains optional format-specific properties.
	Metadata map[string]string
}

// MemberExtractor extracts a member of a container format.
// It resolves the member's content type and dispatches it like a top-level
// attachment, using the budget of the member's nesting level.
type MemberExtractor interface {
	ExtractMember(ctx context.Context, name string, content []byte, budget *domain.Budget) (*domain.ExtractedContent, error)
}
