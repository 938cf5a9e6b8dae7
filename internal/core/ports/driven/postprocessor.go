package driven

import (
	"context"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// PostProcessor rewrites extracted text during the normalisation pass.
// PostProcessors are chained in a pipeline (e.g., line endings, truncation).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the rewritten text. It must not change line
	// separators away from "\n".
	Process(ctx context.Context, content *domain.ExtractedContent, text string) (string, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the content's text through all processors in order
	// and stores the result in content.Text.
	Process(ctx context.Context, content *domain.ExtractedContent) error
}
