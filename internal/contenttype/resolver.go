// Package contenttype resolves the canonical content type of an attachment
// from a declared type, its file extension and its leading bytes.
package contenttype

import (
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Resolver implements the interface.
var _ driven.ContentTypeResolver = (*Resolver)(nil)

// Resolver determines content types. It is safe for concurrent use; its
// tables are never modified after construction.
type Resolver struct {
	overrides map[string]string
}

// Option configures the resolver.
type Option func(*Resolver)

// WithOverrides adds extension to content-type mappings that take
// precedence over the built-in table. Keys may be given with or without
// the leading dot.
func WithOverrides(overrides map[string]string) Option {
	return func(r *Resolver) {
		for ext, ct := range overrides {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" || ct == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			r.overrides[ext] = domain.BaseMIMEType(ct)
		}
	}
}

// New creates a new resolver with the given options.
func New(opts ...Option) *Resolver {
	r := &Resolver{overrides: make(map[string]string)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the content type for an attachment.
//
// Resolution order:
//  1. a declared content type wins outright (application/octet-stream
//     counts as undeclared)
//  2. the file extension
//  3. magic bytes, disambiguating zip and OLE2 containers by their contents
//
// Unknown input resolves to application/octet-stream.
func (r *Resolver) Resolve(filename, declared string, content []byte) string {
	if ct := domain.BaseMIMEType(declared); ct != "" && ct != domain.MIMEOctetStream {
		return ct
	}
	if ct, ok := r.ByExtension(filename); ok {
		return ct
	}
	return Sniff(content)
}

// ByExtension looks up the content type for a filename's extension.
func (r *Resolver) ByExtension(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", false
	}
	if ct, ok := r.overrides[ext]; ok {
		return ct, true
	}
	if ct, ok := extensions[ext]; ok {
		return ct, true
	}
	if ct := domain.BaseMIMEType(docconv.MimeTypeByExtension(filename)); ct != "" && ct != domain.MIMEOctetStream {
		return ct, true
	}
	return "", false
}
