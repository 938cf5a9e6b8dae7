package driven

// ContentTypeResolver determines the canonical content type of an attachment.
type ContentTypeResolver interface {
	// Resolve returns the content type for a filename, an optional declared
	// content type and the leading bytes of the content. It never fails;
	// unknown input resolves to application/octet-stream.
	Resolve(filename, declared string, content []byte) string
}
