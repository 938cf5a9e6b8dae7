package domain

import "io"

// Source is a single attachment handed to the extraction core.
// The caller owns the reader; the core reads it once and never persists it.
type Source struct {
	// Filename is used for extension hinting and logging only.
	Filename string

	// ContentType is an optional content type already known by the caller.
	// When set it wins over extension and magic-byte resolution.
	ContentType string

	// Reader is the single-pass byte stream.
	Reader io.Reader
}

// Attachment is a Source after its stream has been read into memory.
type Attachment struct {
	// Filename is the declared name of the attachment.
	Filename string

	// ContentType is the resolved canonical content type.
	ContentType string

	// Charset is the charset parameter of the declared content type, if any.
	Charset string

	// Content is the raw bytes.
	Content []byte
}

// ExtractedContent is the unit handed to the external indexer.
type ExtractedContent struct {
	// ID is derived from the filename and content digest, so extracting the
	// same bytes under the same name always yields the same ID.
	ID string

	// Filename is the declared name of the attachment.
	Filename string

	// ContentType is the resolved canonical content type. It is kept even
	// when extraction fails.
	ContentType string

	// Text is the extracted text using "\n" as the only line separator.
	// It is empty, never absent, when nothing could be extracted.
	Text string

	// Status records how the extraction ended.
	Status Status

	// Metadata holds optional format-specific properties
	// (e.g. "title", "author", "pages", "entries").
	Metadata map[string]string
}

// BatchItem is the per-attachment outcome of a bulk extraction.
type BatchItem struct {
	// Filename of the source this item belongs to.
	Filename string

	// Content is nil only when Err is set.
	Content *ExtractedContent

	// Err is set for failures that cannot be absorbed (I/O failures).
	Err error
}
