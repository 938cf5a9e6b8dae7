// Package msoffice extracts text from legacy binary Office documents stored
// in OLE2 compound files. Word 97 and later documents are supported; other
// applications' streams are recognised and reported as unsupported.
package msoffice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Stream names.
const (
	streamWord       = "WordDocument"
	streamTable0     = "0Table"
	streamTable1     = "1Table"
	streamSummary    = "\x05SummaryInformation"
	streamWorkbook   = "Workbook"
	streamBook       = "Book"
	streamPowerPoint = "PowerPoint Document"
)

// summaryProperties maps summary information property names to metadata keys.
var summaryProperties = map[string]string{
	"Title":    "title",
	"Subject":  "subject",
	"Author":   "author",
	"Keywords": "keywords",
	"Comments": "comments",
}

// Extractor handles legacy binary Office documents.
type Extractor struct{}

// New creates a new binary Office extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "msoffice"
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		domain.MIMEMSWord,
		domain.MIMEMSExcel,
		domain.MIMEMSPowerPnt,
		domain.MIMEOLE2,
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract returns the document text: the main body, then footnotes, then
// headers and footers, each followed by a single newline.
func (e *Extractor) Extract(ctx context.Context, req *driven.ExtractRequest) (res *driven.ExtractResult, err error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}

	// mscfb can panic on sector chains that point past the end of the file.
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: compound file: %v", domain.ErrCorruptInput, r)
		}
	}()

	content := req.Attachment.Content
	streams, meta, err := readStreams(content)
	if err != nil {
		return nil, err
	}

	word, ok := streams[streamWord]
	if !ok {
		for _, name := range []string{streamWorkbook, streamBook, streamPowerPoint} {
			if _, ok := streams[name]; ok {
				return nil, fmt.Errorf("%w: %s stream", domain.ErrUnsupportedFormat, name)
			}
		}
		return nil, fmt.Errorf("%w: no document stream in compound file", domain.ErrUnsupportedFormat)
	}

	fib, err := parseFIB(word)
	if err != nil {
		return nil, err
	}
	if fib.encrypted {
		return nil, fmt.Errorf("%w: encrypted document", domain.ErrUnsupportedFormat)
	}

	tableName := streamTable0
	if fib.whichTable == 1 {
		tableName = streamTable1
	}
	table, ok := streams[tableName]
	if !ok {
		return nil, fmt.Errorf("%w: %s stream missing", domain.ErrCorruptInput, tableName)
	}

	units, err := readPieces(word, table, fib)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	start := 0
	for _, length := range []int{fib.ccpText, fib.ccpFtn, fib.ccpHdd} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+length, len(units))
		if start < end {
			if section := renderText(units[start:end]); strings.TrimSpace(section) != "" {
				sb.WriteString(section)
				sb.WriteString("\n")
			}
		}
		start = end
	}

	return &driven.ExtractResult{Text: sb.String(), Metadata: meta}, nil
}

// readStreams loads the top-level streams needed for extraction and the
// summary information properties.
func readStreams(content []byte) (map[string][]byte, map[string]string, error) {
	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: compound file: %v", domain.ErrCorruptInput, err)
	}

	streams := make(map[string][]byte)
	var meta map[string]string
	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: compound file: %v", domain.ErrCorruptInput, err)
		}
		if len(entry.Path) > 0 {
			continue
		}

		switch entry.Name {
		case streamWord, streamTable0, streamTable1:
			data, err := io.ReadAll(io.LimitReader(entry, int64(len(content))))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: read %s: %v", domain.ErrCorruptInput, entry.Name, err)
			}
			streams[entry.Name] = data
		case streamWorkbook, streamBook, streamPowerPoint:
			streams[entry.Name] = nil
		case streamSummary:
			meta = summaryInformation(entry)
		}
	}
	return streams, meta, nil
}

// summaryInformation reads document properties. Unreadable property sets
// are ignored; they never fail the extraction.
func summaryInformation(r io.Reader) map[string]string {
	props := msoleps.New()
	if err := props.Reset(r); err != nil {
		return nil
	}
	meta := make(map[string]string)
	for _, prop := range props.Property {
		key, ok := summaryProperties[prop.Name]
		if !ok {
			continue
		}
		if v := strings.TrimSpace(strings.TrimRight(prop.String(), "\x00")); v != "" {
			meta[key] = v
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
