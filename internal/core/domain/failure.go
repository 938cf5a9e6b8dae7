package domain

// FailureEvent describes an extraction that was absorbed as a soft failure.
// It is sent to the failure reporter so a bad attachment stays visible
// without aborting a bulk run.
type FailureEvent struct {
	// Filename of the attachment.
	Filename string

	// ContentType is the resolved content type.
	ContentType string

	// Extractor names the extractor that failed, empty when none matched.
	Extractor string

	// Status classifies the failure.
	Status Status

	// Depth is the archive nesting depth, zero for top-level attachments.
	Depth int

	// Err is the underlying error.
	Err error
}
