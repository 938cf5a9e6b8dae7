package ooxml

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
)

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="%s"/>
</Relationships>`

// buildPackage creates an in-memory zip with entries in the given order.
func buildPackage(t *testing.T, entries ...[2]string) []byte {
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

func rels(target string) [2]string {
	return [2]string{"_rels/.rels", fmt.Sprintf(rootRels, target)}
}

func extract(t *testing.T, contentType string, content []byte) (*driven.ExtractResult, error) {
	t.Helper()
	return New().Extract(context.Background(), &driven.ExtractRequest{
		Attachment: &domain.Attachment{Filename: "test", ContentType: contentType, Content: content},
		Budget:     domain.NewBudget(domain.DefaultLimits()),
	})
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestMetadata(t *testing.T) {
	e := New()

	assert.Equal(t, "ooxml", e.Name())
	assert.Equal(t, 50, e.Priority())
	assert.Contains(t, e.SupportedMIMETypes(), domain.MIMEDocx)
	assert.Contains(t, e.SupportedMIMETypes(), domain.MIMEXlsx)
	assert.Contains(t, e.SupportedMIMETypes(), domain.MIMEPptx)
}

func TestExtract_NilRequest(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_Docx(t *testing.T) {
	content := buildPackage(t,
		rels("word/document.xml"),
		[2]string{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>openxml content</w:t></w:r></w:p><w:sectPr/></w:body>
</w:document>`},
	)

	res, err := extract(t, domain.MIMEDocx, content)
	require.NoError(t, err)
	assert.Equal(t, "openxml content\n", res.Text)
}

func TestExtract_DocxRunsTabsAndBreaks(t *testing.T) {
	content := buildPackage(t,
		rels("/word/main.xml"),
		[2]string{"word/main.xml", `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:t xml:space="preserve">Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>
<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>
<w:p/>
<w:p><w:r><w:instrText>PAGE</w:instrText><w:t>end</w:t></w:r></w:p>
</w:body></w:document>`},
		[2]string{"docProps/core.xml", `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>Quarterly</dc:title><dc:creator>Ada</dc:creator></cp:coreProperties>`},
	)

	res, err := extract(t, domain.MIMEDocx, content)
	require.NoError(t, err)
	assert.Equal(t, "Hello world\na\tb\nc\n\nend\n", res.Text)
	assert.Equal(t, "Quarterly", res.Metadata["title"])
	assert.Equal(t, "Ada", res.Metadata["author"])
}

func TestExtract_DocxFallbackWithoutRels(t *testing.T) {
	content := buildPackage(t,
		[2]string{"word/document.xml", `<w:document xmlns:w="w"><w:body><w:p><w:r><w:t>x</w:t></w:r></w:p></w:body></w:document>`},
	)

	res, err := extract(t, domain.MIMEDocx, content)
	require.NoError(t, err)
	assert.Equal(t, "x\n", res.Text)
	assert.Nil(t, res.Metadata)
}

func TestExtract_MissingMainPart(t *testing.T) {
	content := buildPackage(t, [2]string{"readme.txt", "nothing here"})

	_, err := extract(t, domain.MIMEDocx, content)
	assert.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestExtract_NotZip(t *testing.T) {
	_, err := extract(t, domain.MIMEDocx, []byte("PK\x03\x04truncated"))
	assert.ErrorIs(t, err, domain.ErrCorruptInput)
}

func TestExtract_Xlsx(t *testing.T) {
	content := buildPackage(t,
		rels("xl/workbook.xml"),
		[2]string{"xl/workbook.xml", `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="First" sheetId="1" r:id="rId1"/><sheet name="Second" sheetId="2" r:id="rId2"/></sheets></workbook>`},
		[2]string{"xl/_rels/workbook.xml.rels", `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet2.xml"/>
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`},
		[2]string{"xl/sharedStrings.xml", `<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><si><t>Name</t></si><si><r><t>Rich </t></r><r><t>text</t></r></si></sst>`},
		[2]string{"xl/worksheets/sheet1.xml", `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1"><v>42</v></c></row>
<row r="2"><c r="A2" t="s"><v>1</v></c><c r="B2" t="b"><v>1</v></c></row>
</sheetData></worksheet>`},
		[2]string{"xl/worksheets/sheet2.xml", `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>inline</t></is></c><c r="B1"><f>SUM(1,2)</f><v>3</v></c></row>
<row r="2"><c r="A2"/></row>
</sheetData></worksheet>`},
	)

	res, err := extract(t, domain.MIMEXlsx, content)
	require.NoError(t, err)
	assert.Equal(t, "Name\t42\nRich text\tTRUE\ninline\t3\n", res.Text)
}

func TestExtract_Pptx(t *testing.T) {
	content := buildPackage(t,
		[2]string{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>
</Types>`},
		rels("ppt/presentation.xml"),
		[2]string{"ppt/presentation.xml", `<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`},
		[2]string{"ppt/slides/slide1.xml", `<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r><a:t>Slide title</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`},
	)

	res, err := extract(t, domain.MIMEPptx, content)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Slide title")
}

func TestCellText(t *testing.T) {
	shared := []string{"zero", "one"}

	assert.Equal(t, "one", cellText("s", "1", shared))
	assert.Equal(t, "", cellText("s", "7", shared))
	assert.Equal(t, "", cellText("s", "x", shared))
	assert.Equal(t, "FALSE", cellText("b", "0", shared))
	assert.Equal(t, "3.5", cellText("n", "3.5", shared))
}
