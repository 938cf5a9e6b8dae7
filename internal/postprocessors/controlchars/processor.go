// Package controlchars provides a processor that strips control characters
// left over by binary formats.
package controlchars

import (
	"context"
	"strings"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// Name is the registered processor name.
const Name = "controlchars"

// Processor removes NUL and other C0 control characters except tab and
// newline. It implements the PostProcessor interface.
type Processor struct{}

// New creates a new control character processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process returns text without C0 control characters other than "\t" and "\n".
func (p *Processor) Process(_ context.Context, _ *domain.ExtractedContent, text string) (string, error) {
	if strings.IndexFunc(text, isStripped) < 0 {
		return text, nil
	}
	return strings.Map(func(r rune) rune {
		if isStripped(r) {
			return -1
		}
		return r
	}, text), nil
}

func isStripped(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n'
}
