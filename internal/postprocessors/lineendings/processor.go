// Package lineendings provides the processor that makes "\n" the only line
// separator in extracted text.
package lineendings

import (
	"context"
	"strings"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// Name is the registered processor name.
const Name = "lineendings"

var replacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Processor converts CRLF and lone CR line endings to LF.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a new line ending processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process returns text with every line ending converted to "\n".
func (p *Processor) Process(_ context.Context, _ *domain.ExtractedContent, text string) (string, error) {
	if !strings.Contains(text, "\r") {
		return text, nil
	}
	return replacer.Replace(text), nil
}
