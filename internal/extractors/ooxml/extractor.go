// Package ooxml extracts text from Office Open XML packages
// (docx, xlsx, pptx and their macro-enabled and template variants).
package ooxml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"code.sajari.com/docconv"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/extractors/zippkg"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Relationship type of the main document part.
const officeDocumentRel = "/officeDocument"

// Extractor handles Office Open XML packages.
type Extractor struct{}

// New creates a new Office Open XML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "ooxml"
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		domain.MIMEDocx,
		domain.MIMEDocm,
		domain.MIMEDotx,
		domain.MIMEXlsx,
		domain.MIMEXlsm,
		domain.MIMEPptx,
		domain.MIMEPptm,
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract locates the main part of the package and returns its text.
func (e *Extractor) Extract(ctx context.Context, req *driven.ExtractRequest) (*driven.ExtractResult, error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}

	pkg, err := zippkg.Open(req.Attachment.Content, req.Budget)
	if err != nil {
		return nil, err
	}

	main, err := mainPart(pkg)
	if err != nil {
		return nil, err
	}

	var text string
	switch {
	case strings.HasPrefix(main, "word/"):
		text, err = extractWord(pkg, main)
	case strings.HasPrefix(main, "xl/"):
		text, err = extractWorkbook(ctx, pkg, main)
	case strings.HasPrefix(main, "ppt/"):
		text, err = extractPresentation(req.Attachment.Content)
	default:
		err = fmt.Errorf("%w: unknown main part %s", domain.ErrUnsupportedFormat, main)
	}
	if err != nil {
		return nil, err
	}

	return &driven.ExtractResult{
		Text:     text,
		Metadata: coreProperties(pkg),
	}, nil
}

// relationships is the structure of a .rels part.
type relationships struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// readRels parses a relationships part. A missing part yields no relationships.
func readRels(pkg *zippkg.Package, name string) (relationships, error) {
	var rels relationships
	data, err := pkg.Read(name)
	if errors.Is(err, domain.ErrNotFound) {
		return rels, nil
	}
	if err != nil {
		return rels, err
	}
	if err := xml.Unmarshal(data, &rels); err != nil {
		return rels, fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, name, err)
	}
	return rels, nil
}

// mainPart finds the main document part through the package relationships,
// falling back to the conventional locations.
func mainPart(pkg *zippkg.Package) (string, error) {
	rels, err := readRels(pkg, "_rels/.rels")
	if err != nil {
		return "", err
	}
	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, officeDocumentRel) {
			target := strings.TrimPrefix(path.Clean("/"+rel.Target), "/")
			if pkg.Has(target) {
				return target, nil
			}
		}
	}

	for _, name := range []string{"word/document.xml", "xl/workbook.xml", "ppt/presentation.xml"} {
		if pkg.Has(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: main document part not found", domain.ErrCorruptInput)
}

// extractWord returns paragraph text in document order, one line per paragraph.
func extractWord(pkg *zippkg.Package, main string) (string, error) {
	data, err := pkg.Read(main)
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, main, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// extractPresentation returns slide text.
func extractPresentation(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: pptx: %v", domain.ErrCorruptInput, r)
		}
	}()

	text, _, err = docconv.ConvertPptx(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: pptx: %v", domain.ErrCorruptInput, err)
	}
	return text, nil
}

// coreXML is the structure of docProps/core.xml.
type coreXML struct {
	Title       string `xml:"title"`
	Subject     string `xml:"subject"`
	Creator     string `xml:"creator"`
	Description string `xml:"description"`
}

// coreProperties reads the document title and author, if present.
func coreProperties(pkg *zippkg.Package) map[string]string {
	data, err := pkg.Read("docProps/core.xml")
	if err != nil {
		return nil
	}
	var core coreXML
	if err := xml.Unmarshal(data, &core); err != nil {
		return nil
	}

	meta := make(map[string]string)
	for k, v := range map[string]string{
		"title":       core.Title,
		"subject":     core.Subject,
		"author":      core.Creator,
		"description": core.Description,
	} {
		if v = strings.TrimSpace(v); v != "" {
			meta[k] = v
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
