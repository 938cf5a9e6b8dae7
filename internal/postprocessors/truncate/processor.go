// Package truncate provides a processor that caps the size of extracted text.
package truncate

import (
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// Name is the registered processor name.
const Name = "truncate"

// DefaultMaxBytes is the default maximum text size (1 MiB).
const DefaultMaxBytes = 1 << 20

// Processor cuts text longer than a byte limit at a rune boundary.
// It implements the PostProcessor interface.
type Processor struct {
	maxBytes int
}

// Option configures the truncate processor.
type Option func(*Processor)

// WithMaxBytes sets the maximum number of UTF-8 bytes kept.
func WithMaxBytes(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// New creates a new truncate processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxBytes: DefaultMaxBytes,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process returns at most maxBytes of text without splitting a rune.
// Truncated content gets a "truncated" metadata entry holding the original size.
func (p *Processor) Process(_ context.Context, content *domain.ExtractedContent, text string) (string, error) {
	if len(text) <= p.maxBytes {
		return text, nil
	}

	cut := p.maxBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	if content != nil {
		if content.Metadata == nil {
			content.Metadata = make(map[string]string)
		}
		content.Metadata["truncated"] = strconv.Itoa(len(text))
	}
	return text[:cut], nil
}
