// Package plaintext decodes text attachments into UTF-8.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Name is the registered extractor name.
const Name = "plaintext"

// Extractor handles text attachments of any charset.
type Extractor struct {
	fallback encoding.Encoding
}

// Option configures the extractor.
type Option func(*Extractor) error

// WithDefaultCharset sets the encoding used for unlabelled text that is not
// valid UTF-8. Names are WHATWG labels such as "windows-1252" or "latin1".
func WithDefaultCharset(name string) Option {
	return func(e *Extractor) error {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return fmt.Errorf("%w: unknown charset %q", domain.ErrInvalidInput, name)
		}
		e.fallback = enc
		return nil
	}
}

// New creates a new plain text extractor.
func New(opts ...Option) (*Extractor, error) {
	e := &Extractor{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return Name
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/*",
		"application/json",
		"application/javascript",
		"application/x-sh",
		"application/sql",
		"application/x-yaml",
		"application/toml",
		"application/x-tex",
		"message/rfc822",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract decodes the attachment as text and canonicalises line endings.
func (e *Extractor) Extract(_ context.Context, req *driven.ExtractRequest) (*driven.ExtractResult, error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}

	text, name := e.Decode(req.Attachment.Content, req.Attachment.Charset)
	return &driven.ExtractResult{
		Text:     NormaliseLineEndings(text),
		Metadata: map[string]string{"charset": name},
	}, nil
}

// Decode converts content to UTF-8. The encoding is taken from a byte order
// mark, the declared charset, or detection, in that order. Unlabelled
// content that is not UTF-8 uses the configured default charset.
// It returns the decoded text and the name of the encoding used.
func (e *Extractor) Decode(content []byte, declaredCharset string) (string, string) {
	contentType := "text/plain"
	if declaredCharset != "" {
		contentType += "; charset=" + declaredCharset
	}

	enc, name, certain := charset.DetermineEncoding(content, contentType)
	if !certain {
		// Detection only looks at a prefix; check the whole content.
		switch {
		case utf8.Valid(content):
			enc, name = encoding.Nop, "utf-8"
		case e.fallback != nil:
			enc = e.fallback
			if n, err := htmlindex.Name(enc); err == nil {
				name = n
			}
		}
	}

	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		// Undecodable sequences are replaced rather than failing the extraction.
		decoded = bytes.ToValidUTF8(content, []byte("\uFFFD"))
	}
	return strings.TrimPrefix(string(decoded), "\uFEFF"), name
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormaliseLineEndings converts CRLF and CR line endings to LF.
func NormaliseLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	return lineEndings.Replace(s)
}
