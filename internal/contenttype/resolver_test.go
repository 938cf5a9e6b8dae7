package contenttype

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// buildZip creates an in-memory zip archive with the given entries in order.
func buildZip(t *testing.T, entries ...[2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := w.Create(e[0])
		require.NoError(t, err)
		_, err = f.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.ContentTypeResolver = (*Resolver)(nil)
}

func TestResolve_ByExtension(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"test.txt", "text/plain"},
		{"test.doc", "application/msword"},
		{"test.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"test.odt", "application/vnd.oasis.opendocument.text"},
		{"test.pdf", "application/pdf"},
		{"test.zip", "application/zip"},
		{"test.html", "text/html"},
		{"Test.class", "application/java-vm"},
		{"REPORT.PDF", "application/pdf"},
		{"archive.tar", "application/x-tar"},
		{"archive.tgz", "application/gzip"},
		{"slides.pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	}

	r := New()
	for _, tc := range tests {
		t.Run(tc.filename, func(t *testing.T) {
			// Content is deliberately wrong; extension alone decides.
			assert.Equal(t, tc.expected, r.Resolve(tc.filename, "", []byte("garbage")))
		})
	}
}

func TestResolve_DeclaredWins(t *testing.T) {
	r := New()

	assert.Equal(t, "text/html", r.Resolve("file.pdf", "Text/HTML; charset=UTF-8", nil))
}

func TestResolve_OctetStreamIsUndeclared(t *testing.T) {
	r := New()

	assert.Equal(t, "application/pdf", r.Resolve("file.pdf", "application/octet-stream", nil))
}

func TestResolve_Overrides(t *testing.T) {
	r := New(WithOverrides(map[string]string{
		"log":  "text/x-log",
		".PDF": "application/x-pdf",
		"":     "ignored/type",
	}))

	assert.Equal(t, "text/x-log", r.Resolve("server.log", "", nil))
	assert.Equal(t, "application/x-pdf", r.Resolve("a.pdf", "", nil))
	assert.Equal(t, "text/plain", r.Resolve("a.txt", "", nil))
}

func TestResolve_Unknown(t *testing.T) {
	r := New()

	assert.Equal(t, domain.MIMEOctetStream, r.Resolve("noext", "", nil))
	assert.Equal(t, domain.MIMEOctetStream, r.Resolve("noext", "", []byte{0x00, 0x01, 0x02, 0xFF}))
}

func TestResolve_Deterministic(t *testing.T) {
	r := New()
	content := buildZip(t, [2]string{"a.txt", "a"})

	first := r.Resolve("upload", "", content)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve("upload", "", content))
	}
}

func TestSniff_Zip(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:     "plain zip",
			content:  buildZip(t, [2]string{"zip.txt", "zip content\n"}),
			expected: domain.MIMEZip,
		},
		{
			name: "opendocument text",
			content: buildZip(t,
				[2]string{"mimetype", "application/vnd.oasis.opendocument.text"},
				[2]string{"content.xml", "<office:document-content/>"},
			),
			expected: domain.MIMEOdt,
		},
		{
			name: "opendocument spreadsheet",
			content: buildZip(t,
				[2]string{"mimetype", "application/vnd.oasis.opendocument.spreadsheet"},
			),
			expected: domain.MIMEOds,
		},
		{
			name: "docx by manifest",
			content: buildZip(t,
				[2]string{"[Content_Types].xml", `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
				[2]string{"word/document.xml", "<w:document/>"},
			),
			expected: domain.MIMEDocx,
		},
		{
			name: "xlsx by manifest",
			content: buildZip(t,
				[2]string{"[Content_Types].xml", `<Types><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/></Types>`},
			),
			expected: domain.MIMEXlsx,
		},
		{
			name: "pptx by part location",
			content: buildZip(t,
				[2]string{"[Content_Types].xml", `<Types/>`},
				[2]string{"ppt/presentation.xml", "<p:presentation/>"},
			),
			expected: domain.MIMEPptx,
		},
		{
			name: "jar",
			content: buildZip(t,
				[2]string{"META-INF/MANIFEST.MF", "Manifest-Version: 1.0\n"},
				[2]string{"Test.class", "\xCA\xFE\xBA\xBE"},
			),
			expected: domain.MIMEJar,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Sniff(tc.content))
		})
	}
}

func TestSniff_ZipPrefixOnly(t *testing.T) {
	content := buildZip(t, [2]string{"zip.txt", "zip content\n"})

	assert.Equal(t, domain.MIMEZip, Sniff(content[:10]))
}

func TestSniff_Magic(t *testing.T) {
	tar := make([]byte, 600)
	copy(tar[257:], "ustar")

	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{"empty", nil, domain.MIMEOctetStream},
		{"pdf", []byte("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n"), domain.MIMEPDF},
		{"class", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x34}, domain.MIMEJavaClass},
		{"fat binary", []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x02}, domain.MIMEOctetStream},
		{"gzip", []byte{0x1F, 0x8B, 0x08, 0x00}, domain.MIMEGzip},
		{"tar", tar, domain.MIMETar},
		{"ole2 truncated", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, domain.MIMEOLE2},
		{"html", []byte("<!DOCTYPE html><html><body>x</body></html>"), domain.MIMEHTML},
		{"text", []byte("just some text\n"), domain.MIMEPlainText},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Sniff(tc.content))
		})
	}
}

func TestByExtension(t *testing.T) {
	r := New()

	ct, ok := r.ByExtension("notes.md")
	assert.True(t, ok)
	assert.Equal(t, "text/markdown", ct)

	_, ok = r.ByExtension("Makefile")
	assert.False(t, ok)
}
