package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

// renderPDF builds a PDF with one page per entry; each page holds the given lines.
func renderPDF(t *testing.T, title string, pages ...[]string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetTitle(title, false)
	doc.SetFont("Helvetica", "", 11)
	for _, lines := range pages {
		doc.AddPage()
		for _, line := range lines {
			doc.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func extract(t *testing.T, ctx context.Context, content []byte) (*driven.ExtractResult, error) {
	t.Helper()
	return New().Extract(ctx, &driven.ExtractRequest{
		Attachment: &domain.Attachment{Filename: "pdf.pdf", ContentType: domain.MIMEPDF, Content: content},
	})
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestMetadata(t *testing.T) {
	e := New()

	assert.Equal(t, "pdf", e.Name())
	assert.Equal(t, 50, e.Priority())
	assert.Equal(t, []string{"application/pdf"}, e.SupportedMIMETypes())
}

func TestExtract_NilRequest(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_SinglePage(t *testing.T) {
	content := renderPDF(t, "Sample", []string{"pdf content"})

	res, err := extract(t, context.Background(), content)
	require.NoError(t, err)
	assert.Equal(t, "\npdf content\n\n\n", res.Text)
	assert.Equal(t, "1", res.Metadata["pages"])
	assert.Equal(t, "Sample", res.Metadata["title"])
}

func TestExtract_PageOrder(t *testing.T) {
	content := renderPDF(t, "", []string{"first page"}, []string{"second page"})

	res, err := extract(t, context.Background(), content)
	require.NoError(t, err)
	first := strings.Index(res.Text, "first page")
	second := strings.Index(res.Text, "second page")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
	assert.Equal(t, "2", res.Metadata["pages"])
}

func TestExtract_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"not a pdf", []byte("hello world")},
		{"truncated", []byte("%PDF-1.4\n1 0 obj\n<<")},
		{"empty", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := extract(t, context.Background(), tc.content)
			assert.ErrorIs(t, err, domain.ErrCorruptInput)
		})
	}
}

func TestExtract_Cancelled(t *testing.T) {
	content := renderPDF(t, "", []string{"text"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extract(t, ctx, content)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderPage(t *testing.T) {
	assert.Equal(t, "\npdf content\n\n\n", renderPage([]string{"pdf content"}))
	assert.Equal(t, "\na\nb\n\n\n", renderPage([]string{"a", "b"}))
	assert.Equal(t, "", renderPage(nil))
}

func TestTrimBlank(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, trimBlank([]string{"", "  ", "a  ", "", "b\t", ""}))
	assert.Empty(t, trimBlank([]string{" ", ""}))
}
