package driven

// ExtractorRegistry is the explicit content-type to extractor table.
type ExtractorRegistry interface {
	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// Lookup returns the preferred extractor for a content type.
	// Exact registrations win over family wildcards such as "text/*".
	Lookup(contentType string) (Extractor, bool)

	// SupportedMIMETypes returns all registered content types.
	SupportedMIMETypes() []string
}
