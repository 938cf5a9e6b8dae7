// Package markup extracts the visible text of HTML and XML documents.
package markup

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"code.sajari.com/docconv"
	"golang.org/x/net/html"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML, XHTML and generic XML.
type Extractor struct{}

// New creates a new markup extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return "markup"
}

// SupportedMIMETypes returns the content types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		domain.MIMEHTML,
		domain.MIMEXHTML,
		domain.MIMEXML,
		domain.MIMETextXML,
		"image/svg+xml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract returns the visible text, one trimmed line per text block,
// blank lines dropped and a single trailing newline.
func (e *Extractor) Extract(_ context.Context, req *driven.ExtractRequest) (*driven.ExtractResult, error) {
	if req == nil || req.Attachment == nil {
		return nil, domain.ErrInvalidInput
	}

	att := req.Attachment
	switch att.ContentType {
	case domain.MIMEHTML, domain.MIMEXHTML:
		text, title, err := extractHTML(att.Content)
		if err != nil {
			return nil, err
		}
		res := &driven.ExtractResult{Text: shapeLines(text)}
		if title != "" {
			res.Metadata = map[string]string{"title": title}
		}
		return res, nil
	default:
		text, err := extractXML(att.Content)
		if err != nil {
			return nil, err
		}
		return &driven.ExtractResult{Text: shapeLines(text)}, nil
	}
}

// skipped elements never contribute visible text.
var skipped = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// blocks are elements that start and end a line.
var blocks = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// extractHTML walks the parsed tree collecting text nodes.
func extractHTML(content []byte) (text, title string, err error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", "", fmt.Errorf("%w: parse html: %v", domain.ErrCorruptInput, err)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			name := strings.ToLower(n.Data)
			if skipped[name] {
				return
			}
			if blocks[name] {
				sb.WriteByte('\n')
				defer sb.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return sb.String(), findTitle(doc), nil
}

// findTitle returns the text of the first title element, which lives in
// the skipped head.
func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") {
		if n.FirstChild != nil {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

// extractXML returns the character data of an XML document with a line
// break at every element.
func extractXML(content []byte) (string, error) {
	names, err := elementNames(content)
	if err != nil {
		return "", err
	}
	text, err := docconv.XMLToText(bytes.NewReader(content), names, nil, false)
	if err != nil {
		return "", fmt.Errorf("%w: xml: %v", domain.ErrCorruptInput, err)
	}
	return text, nil
}

// elementNames lists the distinct local element names in document order.
func elementNames(content []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = false

	seen := make(map[string]bool)
	var names []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: xml: %v", domain.ErrCorruptInput, err)
		}
		if start, ok := tok.(xml.StartElement); ok && !seen[start.Name.Local] {
			seen[start.Name.Local] = true
			names = append(names, start.Name.Local)
		}
	}
}

// shapeLines trims every line, drops blank ones and terminates the
// result with a newline. Empty input stays empty.
func shapeLines(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
