package domain

import "strings"

// Canonical content types produced by the resolver.
const (
	MIMEOctetStream = "application/octet-stream"
	MIMEPlainText   = "text/plain"
	MIMEHTML        = "text/html"
	MIMEXHTML       = "application/xhtml+xml"
	MIMEXML         = "application/xml"
	MIMETextXML     = "text/xml"
	MIMEPDF         = "application/pdf"
	MIMEZip         = "application/zip"
	MIMEJar         = "application/java-archive"
	MIMETar         = "application/x-tar"
	MIMEGzip        = "application/gzip"
	MIMEJavaClass   = "application/java-vm"

	// MIMEOLE2 is an OLE2 compound file whose application could not be determined.
	MIMEOLE2       = "application/x-ole-storage"
	MIMEMSWord     = "application/msword"
	MIMEMSExcel    = "application/vnd.ms-excel"
	MIMEMSPowerPnt = "application/vnd.ms-powerpoint"

	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEDocm = "application/vnd.ms-word.document.macroenabled.12"
	MIMEDotx = "application/vnd.openxmlformats-officedocument.wordprocessingml.template"
	MIMEXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEXlsm = "application/vnd.ms-excel.sheet.macroenabled.12"
	MIMEPptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMEPptm = "application/vnd.ms-powerpoint.presentation.macroenabled.12"

	MIMEOdt = "application/vnd.oasis.opendocument.text"
	MIMEOds = "application/vnd.oasis.opendocument.spreadsheet"
	MIMEOdp = "application/vnd.oasis.opendocument.presentation"
	MIMEOdg = "application/vnd.oasis.opendocument.graphics"
	MIMEOtt = "application/vnd.oasis.opendocument.text-template"
)

// BaseMIMEType strips parameters and lower-cases a content type.
// "Text/HTML; charset=UTF-8" becomes "text/html".
func BaseMIMEType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// IsTextual reports whether a content type can be read as plain text when
// no dedicated extractor handles it.
func IsTextual(contentType string) bool {
	base := BaseMIMEType(contentType)
	switch {
	case strings.HasPrefix(base, "text/"):
		return true
	case strings.HasSuffix(base, "+xml"), strings.HasSuffix(base, "+json"):
		return true
	}
	switch base {
	case "application/json", MIMEXML, "application/javascript", "application/x-javascript",
		"application/x-sh", "application/x-yaml", "application/yaml", "application/toml",
		"application/sql", "application/x-latex", "application/x-tex":
		return true
	default:
		return false
	}
}
