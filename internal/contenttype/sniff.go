package contenttype

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

// Magic numbers.
var (
	zipMagic   = []byte("PK\x03\x04")
	ole2Magic  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	pdfMagic   = []byte("%PDF-")
	classMagic = []byte{0xCA, 0xFE, 0xBA, 0xBE}
	gzipMagic  = []byte{0x1F, 0x8B}
	tarMagic   = []byte("ustar")
)

// tarMagicOffset is the position of the "ustar" marker in a tar header.
const tarMagicOffset = 257

// Sniff determines a content type from content alone.
// Zip containers are disambiguated by their manifest and OLE2 compound
// files by their streams, which needs the whole content rather than a prefix;
// with a prefix only the generic container type is returned.
func Sniff(content []byte) string {
	switch {
	case len(content) == 0:
		return domain.MIMEOctetStream
	case bytes.HasPrefix(content, zipMagic):
		return sniffZip(content)
	case bytes.HasPrefix(content, ole2Magic):
		return sniffOLE2(content)
	case bytes.HasPrefix(content, pdfMagic):
		return domain.MIMEPDF
	case bytes.HasPrefix(content, classMagic) && len(content) >= 8:
		// Mach-O fat binaries share the magic; class files have a major
		// version of at least 45 where fat binaries store a small arch count.
		if major := int(content[6])<<8 | int(content[7]); major >= 45 {
			return domain.MIMEJavaClass
		}
		return domain.MIMEOctetStream
	case bytes.HasPrefix(content, gzipMagic):
		return domain.MIMEGzip
	case len(content) > tarMagicOffset+len(tarMagic) &&
		bytes.Equal(content[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic):
		return domain.MIMETar
	}

	switch ct := domain.BaseMIMEType(http.DetectContentType(content)); ct {
	case "application/x-gzip":
		return domain.MIMEGzip
	case "text/plain", domain.MIMEHTML, domain.MIMETextXML:
		return ct
	default:
		return domain.MIMEOctetStream
	}
}

// contentTypes is the subset of [Content_Types].xml needed to find the main part.
type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// sniffZip inspects the manifest of a zip-based container.
func sniffZip(content []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return domain.MIMEZip
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	// OpenDocument packages store their type in an uncompressed "mimetype" entry.
	if f, ok := files["mimetype"]; ok {
		if data, err := readSmall(f, 256); err == nil {
			ct := domain.BaseMIMEType(string(data))
			if strings.HasPrefix(ct, "application/vnd.oasis.opendocument.") {
				return ct
			}
		}
	}

	if f, ok := files["[Content_Types].xml"]; ok {
		if ct := ooxmlType(f, files); ct != "" {
			return ct
		}
	}

	if _, ok := files["META-INF/MANIFEST.MF"]; ok {
		return domain.MIMEJar
	}
	return domain.MIMEZip
}

// ooxmlType identifies an Office Open XML package from its main part.
func ooxmlType(manifest *zip.File, files map[string]*zip.File) string {
	if data, err := readSmall(manifest, 1<<20); err == nil {
		var types contentTypes
		if xml.Unmarshal(data, &types) == nil {
			for _, o := range types.Overrides {
				main := strings.ToLower(o.ContentType)
				if !strings.HasSuffix(main, ".main+xml") {
					continue
				}
				if ct, ok := ooxmlMainParts[strings.TrimSuffix(main, ".main+xml")]; ok {
					return ct
				}
			}
		}
	}

	// Fall back to the conventional part locations.
	switch {
	case files["word/document.xml"] != nil:
		return domain.MIMEDocx
	case files["xl/workbook.xml"] != nil:
		return domain.MIMEXlsx
	case files["ppt/presentation.xml"] != nil:
		return domain.MIMEPptx
	}
	return ""
}

// sniffOLE2 identifies the application that wrote a compound file.
func sniffOLE2(content []byte) (ct string) {
	ct = domain.MIMEOLE2
	defer func() {
		// mscfb can panic on truncated sector chains.
		if recover() != nil {
			ct = domain.MIMEOLE2
		}
	}()

	doc, err := mscfb.New(bytes.NewReader(content))
	if err != nil {
		return ct
	}
	for {
		entry, err := doc.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return domain.MIMEOLE2
			}
			break
		}
		if len(entry.Path) > 0 {
			continue
		}
		if app, ok := ole2Streams[entry.Name]; ok {
			return app
		}
	}
	return ct
}

// readSmall reads at most limit bytes of a zip member.
func readSmall(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, limit))
}
