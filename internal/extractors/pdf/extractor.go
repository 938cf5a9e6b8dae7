// Package pdf extracts text from PDF documents page by page.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "pdf"
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.MIMEPDF}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract returns the text of every page in page order.
// Pages without text are skipped.
func (e *Extractor) Extract(ctx context.Context, req *driven.ExtractRequest) (res *driven.ExtractResult, err error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}

	// The PDF library panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: pdf: %v", domain.ErrCorruptInput, r)
		}
	}()

	content := req.Attachment.Content
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: encrypted pdf", domain.ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrCorruptInput, err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		sb.WriteString(renderPage(pageLines(page)))
	}

	meta := map[string]string{"pages": strconv.Itoa(pages)}
	info := reader.Trailer().Key("Info")
	if title := strings.TrimSpace(info.Key("Title").Text()); title != "" {
		meta["title"] = title
	}
	if author := strings.TrimSpace(info.Key("Author").Text()); author != "" {
		meta["author"] = author
	}

	return &driven.ExtractResult{Text: sb.String(), Metadata: meta}, nil
}

// lineTolerance is how far (in text space units) the baseline of two
// glyphs may differ while still belonging to the same line.
const lineTolerance = 1.0

// pageLines returns the text lines of a page in content stream order.
// A new line starts whenever the baseline moves.
func pageLines(page pdf.Page) []string {
	var (
		lines []string
		cur   strings.Builder
		prevY float64
	)
	for i, t := range page.Content().Text {
		if i > 0 && math.Abs(t.Y-prevY) > lineTolerance {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		cur.WriteString(t.S)
		prevY = t.Y
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return trimBlank(lines)
}

// trimBlank removes trailing spaces from every line and drops blank lines
// at the start and end of a page.
func trimBlank(lines []string) []string {
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t\r")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// renderPage lays out one page: a leading newline, the page lines, then a
// blank-line page separator. A page without lines renders as nothing.
func renderPage(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n") + "\n" + "\n\n"
}
