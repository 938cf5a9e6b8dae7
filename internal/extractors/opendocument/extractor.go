// Package opendocument extracts text from OpenDocument packages.
package opendocument

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/extractors/zippkg"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles OpenDocument text, spreadsheet, presentation and
// drawing packages.
type Extractor struct{}

// New creates a new OpenDocument extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "opendocument"
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		domain.MIMEOdt,
		domain.MIMEOtt,
		domain.MIMEOds,
		domain.MIMEOdp,
		domain.MIMEOdg,
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract returns the text of content.xml with every paragraph and
// heading terminated by a single newline.
func (e *Extractor) Extract(ctx context.Context, req *driven.ExtractRequest) (*driven.ExtractResult, error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}

	pkg, err := zippkg.Open(req.Attachment.Content, req.Budget)
	if err != nil {
		return nil, err
	}

	data, err := pkg.Read("content.xml")
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: content.xml not found", domain.ErrCorruptInput)
	}
	if err != nil {
		return nil, err
	}

	text, err := contentText(ctx, data)
	if err != nil {
		return nil, err
	}

	return &driven.ExtractResult{
		Text:     text,
		Metadata: meta(pkg),
	}, nil
}

// skipped elements hold text that is not part of the document flow.
var skipped = map[string]bool{
	"annotation":       true,
	"tracked-changes":  true,
	"sequence-decls":   true,
	"variable-decls":   true,
	"user-field-decls": true,
	"note-citation":    true,
}

// contentText walks content.xml in document order.
func contentText(ctx context.Context, data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sb strings.Builder
	depth, skipDepth, inPara := 0, 0, 0

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return "", fmt.Errorf("%w: content.xml: %v", domain.ErrCorruptInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if skipDepth > 0 {
				continue
			}
			if skipped[t.Name.Local] {
				skipDepth = depth
				continue
			}
			switch t.Name.Local {
			case "p", "h":
				inPara++
			case "s":
				sb.WriteString(strings.Repeat(" ", spaceCount(t)))
			case "tab":
				sb.WriteByte('\t')
			case "line-break":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			if skipDepth > 0 {
				if depth == skipDepth {
					skipDepth = 0
				}
				depth--
				continue
			}
			depth--
			switch t.Name.Local {
			case "p", "h":
				inPara--
				sb.WriteByte('\n')
				if err := ctx.Err(); err != nil {
					return "", err
				}
			}
		case xml.CharData:
			if inPara > 0 && skipDepth == 0 {
				sb.Write(t)
			}
		}
	}
}

// spaceCount reads the text:c attribute of a text:s element.
func spaceCount(el xml.StartElement) int {
	for _, a := range el.Attr {
		if a.Name.Local == "c" {
			if n, err := strconv.Atoi(a.Value); err == nil && n > 0 && n < 1<<16 {
				return n
			}
		}
	}
	return 1
}

// metaXML is the subset of meta.xml used for metadata.
type metaXML struct {
	Title       string `xml:"meta>title"`
	Subject     string `xml:"meta>subject"`
	Creator     string `xml:"meta>creator"`
	InitialAuth string `xml:"meta>initial-creator"`
}

// meta reads the document title and author, if present.
func meta(pkg *zippkg.Package) map[string]string {
	data, err := pkg.Read("meta.xml")
	if err != nil {
		return nil
	}
	var m metaXML
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil
	}

	author := m.Creator
	if author == "" {
		author = m.InitialAuth
	}
	out := make(map[string]string)
	for k, v := range map[string]string{"title": m.Title, "subject": m.Subject, "author": author} {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
