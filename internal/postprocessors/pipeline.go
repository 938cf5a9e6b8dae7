// Package postprocessors provides the normalisation pass applied to
// extracted text before it leaves the extraction core.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order.
// It implements the PostProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the content's text through all processors in order.
// Each processor receives the output of the previous one; the final text
// replaces content.Text.
func (p *Pipeline) Process(ctx context.Context, content *domain.ExtractedContent) error {
	if content == nil {
		return fmt.Errorf("content is nil")
	}

	text := content.Text
	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		text, err = processor.Process(ctx, content, text)
		if err != nil {
			return fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	content.Text = text
	return nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.processors))
	for _, processor := range p.processors {
		names = append(names, processor.Name())
	}
	return names
}
