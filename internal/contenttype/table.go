package contenttype

import "github.com/custodia-labs/attachtext/internal/core/domain"

// extensions maps lower-case file extensions to canonical content types.
// It is read-only after package initialisation.
var extensions = map[string]string{
	// Plain text and source code
	".txt":        domain.MIMEPlainText,
	".text":       domain.MIMEPlainText,
	".log":        domain.MIMEPlainText,
	".ini":        domain.MIMEPlainText,
	".cfg":        domain.MIMEPlainText,
	".conf":       domain.MIMEPlainText,
	".properties": "text/x-java-properties",
	".csv":        "text/csv",
	".tsv":        "text/tab-separated-values",
	".md":         "text/markdown",
	".markdown":   "text/markdown",
	".java":       "text/x-java-source",
	".c":          "text/x-c",
	".h":          "text/x-c",
	".cpp":        "text/x-c++",
	".go":         "text/x-go",
	".py":         "text/x-python",
	".rb":         "text/x-ruby",
	".sh":         "application/x-sh",
	".sql":        "application/sql",
	".js":         "application/javascript",
	".css":        "text/css",
	".json":       "application/json",
	".yaml":       "application/x-yaml",
	".yml":        "application/x-yaml",
	".toml":       "application/toml",
	".tex":        "application/x-tex",
	".rtf":        "application/rtf",
	".eml":        "message/rfc822",

	// Markup
	".html":  domain.MIMEHTML,
	".htm":   domain.MIMEHTML,
	".xhtml": domain.MIMEXHTML,
	".xml":   domain.MIMEXML,
	".xsl":   domain.MIMEXML,
	".xslt":  domain.MIMEXML,
	".svg":   "image/svg+xml",

	// PDF
	".pdf": domain.MIMEPDF,

	// Legacy binary office
	".doc": domain.MIMEMSWord,
	".dot": domain.MIMEMSWord,
	".xls": domain.MIMEMSExcel,
	".xlt": domain.MIMEMSExcel,
	".ppt": domain.MIMEMSPowerPnt,
	".pps": domain.MIMEMSPowerPnt,

	// Office Open XML
	".docx": domain.MIMEDocx,
	".docm": domain.MIMEDocm,
	".dotx": domain.MIMEDotx,
	".xlsx": domain.MIMEXlsx,
	".xlsm": domain.MIMEXlsm,
	".pptx": domain.MIMEPptx,
	".pptm": domain.MIMEPptm,

	// OpenDocument
	".odt": domain.MIMEOdt,
	".ott": domain.MIMEOtt,
	".ods": domain.MIMEOds,
	".odp": domain.MIMEOdp,
	".odg": domain.MIMEOdg,

	// Archives
	".zip": domain.MIMEZip,
	".jar": domain.MIMEJar,
	".war": domain.MIMEJar,
	".ear": domain.MIMEJar,
	".tar": domain.MIMETar,
	".gz":  domain.MIMEGzip,
	".tgz": domain.MIMEGzip,

	// Bytecode
	".class": domain.MIMEJavaClass,
}

// ooxmlMainParts maps the main part content type declared in
// [Content_Types].xml (without ".main+xml") to the package content type.
var ooxmlMainParts = map[string]string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   domain.MIMEDocx,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.template":   domain.MIMEDotx,
	"application/vnd.ms-word.document.macroenabled":                             domain.MIMEDocm,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         domain.MIMEXlsx,
	"application/vnd.ms-excel.sheet.macroenabled":                               domain.MIMEXlsm,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": domain.MIMEPptx,
	"application/vnd.ms-powerpoint.presentation.macroenabled":                   domain.MIMEPptm,
}

// ole2Streams maps a well-known top-level compound file stream to the
// application that wrote it.
var ole2Streams = map[string]string{
	"WordDocument":        domain.MIMEMSWord,
	"Workbook":            domain.MIMEMSExcel,
	"Book":                domain.MIMEMSExcel,
	"PowerPoint Document": domain.MIMEMSPowerPnt,
}
