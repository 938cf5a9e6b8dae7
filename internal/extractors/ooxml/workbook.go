package ooxml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/extractors/zippkg"
)

// workbookXML is the subset of xl/workbook.xml listing the sheets.
type workbookXML struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sheets>sheet"`
}

// extractWorkbook returns the cell text of every sheet in workbook order.
// Cells are tab-separated and rows newline-terminated.
func extractWorkbook(ctx context.Context, pkg *zippkg.Package, main string) (string, error) {
	data, err := pkg.Read(main)
	if err != nil {
		return "", err
	}
	var wb workbookXML
	if err := xml.Unmarshal(data, &wb); err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, main, err)
	}

	dir := path.Dir(main)
	rels, err := readRels(pkg, path.Join(dir, "_rels", path.Base(main)+".rels"))
	if err != nil {
		return "", err
	}
	targets := make(map[string]string, len(rels.Relationships))
	for _, rel := range rels.Relationships {
		targets[rel.ID] = rel.Target
	}

	shared, err := sharedStrings(pkg, path.Join(dir, "sharedStrings.xml"))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, sheet := range wb.Sheets {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		target, ok := targets[sheet.RID]
		if !ok {
			continue
		}
		name := target
		if !strings.HasPrefix(target, "/") {
			name = path.Join(dir, target)
		}
		if err := extractSheet(&sb, pkg, strings.TrimPrefix(name, "/"), shared); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// sharedStrings reads the shared string table. A workbook without one is valid.
func sharedStrings(pkg *zippkg.Package, name string) ([]string, error) {
	data, err := pkg.Read(name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		out    []string
		cur    strings.Builder
		inText bool
		inRPh  bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				cur.Reset()
			case "t":
				inText = true
			case "rPh":
				// Phonetic runs repeat the text in another script.
				inRPh = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "si":
				out = append(out, cur.String())
			case "t":
				inText = false
			case "rPh":
				inRPh = false
			}
		case xml.CharData:
			if inText && !inRPh {
				cur.Write(t)
			}
		}
	}
}

// extractSheet appends the rows of one worksheet.
func extractSheet(sb *strings.Builder, pkg *zippkg.Package, name string, shared []string) error {
	data, err := pkg.Read(name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		row       []string
		cellType  string
		value     strings.Builder
		inValue   bool
		inlineStr bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "row":
				row = row[:0]
			case "c":
				cellType = attr(t, "t")
				value.Reset()
			case "v":
				inValue = true
			case "is":
				inlineStr = true
			case "t":
				inValue = inlineStr
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "is":
				inlineStr = false
			case "c":
				row = append(row, cellText(cellType, value.String(), shared))
			case "row":
				if line := strings.TrimRight(strings.Join(row, "\t"), "\t"); line != "" {
					sb.WriteString(line)
					sb.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inValue {
				value.Write(t)
			}
		}
	}
}

// cellText renders a cell value by its type.
func cellText(cellType, value string, shared []string) string {
	switch cellType {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || i < 0 || i >= len(shared) {
			return ""
		}
		return shared[i]
	case "b":
		if strings.TrimSpace(value) == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return value
	}
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
