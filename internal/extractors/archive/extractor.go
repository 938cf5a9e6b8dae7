// Package archive unpacks container archives and dispatches every member
// back through the extraction pipeline.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/extractors/zippkg"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles zip, jar, tar and gzip archives.
type Extractor struct{}

// New creates a new archive extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "archive"
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		domain.MIMEZip,
		domain.MIMEJar,
		domain.MIMETar,
		domain.MIMEGzip,
		"application/x-zip-compressed",
		"application/x-gzip",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract concatenates the text of every member in archive order.
// Each member renders as a newline, its name, a newline, its text and a
// blank-line separator. A gzip stream is a single unnamed member and
// renders as the member text alone.
func (e *Extractor) Extract(ctx context.Context, req *driven.ExtractRequest) (*driven.ExtractResult, error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}
	if req.Members == nil {
		return nil, fmt.Errorf("%w: no member extractor", domain.ErrInvalidInput)
	}

	budget := req.Budget
	if budget == nil {
		budget = domain.NewBudget(domain.DefaultLimits())
	}
	child, err := budget.Descend()
	if err != nil {
		return nil, err
	}

	w := &writer{ctx: ctx, members: req.Members, budget: child}
	att := req.Attachment
	switch att.ContentType {
	case domain.MIMETar:
		err = w.tar(bytes.NewReader(att.Content))
	case domain.MIMEGzip, "application/x-gzip":
		err = w.gzip(att.Filename, att.Content)
	default:
		err = w.zip(att.Content)
	}
	if err != nil {
		return nil, err
	}

	return &driven.ExtractResult{
		Text:     w.sb.String(),
		Metadata: map[string]string{"entries": strconv.Itoa(w.entries)},
	}, nil
}

// writer accumulates member text for one archive.
type writer struct {
	ctx     context.Context
	members driven.MemberExtractor
	budget  *domain.Budget
	sb      strings.Builder
	entries int
}

// member charges one entry, dispatches its bytes and returns the text.
func (w *writer) member(name string, content []byte) (string, error) {
	res, err := w.members.ExtractMember(w.ctx, name, content, w.budget)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// entry writes one named member block.
func (w *writer) entry(name string, content []byte) error {
	text, err := w.member(name, content)
	if err != nil {
		return err
	}
	w.sb.WriteString("\n")
	w.sb.WriteString(name)
	w.sb.WriteString("\n")
	w.sb.WriteString(text)
	w.sb.WriteString("\n\n\n")
	return nil
}

// next checks cancellation and the entry budget before a member is read.
func (w *writer) next() error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if err := w.budget.ChargeEntry(); err != nil {
		return err
	}
	w.entries++
	return nil
}

func (w *writer) zip(content []byte) error {
	pkg, err := zippkg.Open(content, w.budget)
	if err != nil {
		return err
	}
	for _, f := range pkg.Files() {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := w.next(); err != nil {
			return err
		}
		if f.UncompressedSize64 > uint64(w.budget.RemainingBytes()) {
			return fmt.Errorf("%w: member %s declares %d bytes", domain.ErrResourceLimitExceeded, f.Name, f.UncompressedSize64)
		}
		data, err := zippkg.ReadFile(f, w.budget)
		if err != nil {
			return err
		}
		if err := w.entry(f.Name, data); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) tar(r io.Reader) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: tar: %v", domain.ErrCorruptInput, err)
		}
		if !hdr.FileInfo().Mode().IsRegular() {
			continue
		}
		if err := w.next(); err != nil {
			return err
		}
		if hdr.Size > w.budget.RemainingBytes() {
			return fmt.Errorf("%w: member %s declares %d bytes", domain.ErrResourceLimitExceeded, hdr.Name, hdr.Size)
		}
		data, err := zippkg.ReadAll(tr, hdr.Name, w.budget)
		if err != nil {
			return err
		}
		if err := w.entry(hdr.Name, data); err != nil {
			return err
		}
	}
}

func (w *writer) gzip(filename string, content []byte) error {
	zr, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%w: gzip: %v", domain.ErrCorruptInput, err)
	}
	defer zr.Close()

	if err := w.next(); err != nil {
		return err
	}
	data, err := zippkg.ReadAll(zr, filename, w.budget)
	if err != nil {
		return err
	}

	text, err := w.member(gunzippedName(filename, zr.Name), data)
	if err != nil {
		return err
	}
	w.sb.WriteString(text)
	return nil
}

// gunzippedName derives the name of the compressed member, preferring the
// name stored in the gzip header.
func gunzippedName(filename, stored string) string {
	if stored != "" {
		return stored
	}
	base := path.Base(filename)
	lower := strings.ToLower(base)
	switch {
	case strings.HasSuffix(lower, ".tgz"):
		return base[:len(base)-len(".tgz")] + ".tar"
	case strings.HasSuffix(lower, ".gz"):
		return base[:len(base)-len(".gz")]
	default:
		return base
	}
}
