package domain

import (
	"context"
	"errors"
)

// Domain errors represent extraction failures.
// Extractors wrap them with fmt.Errorf("%w: ...") so callers can classify
// a failure with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no extractor is registered for the
	// content type, or the extractor does not handle this variant.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCorruptInput indicates the bytes do not match the structure
	// expected for the resolved content type.
	ErrCorruptInput = errors.New("corrupt input")

	// ErrResourceLimitExceeded indicates an archive recursion, size or
	// entry-count guard tripped. It is absorbed like ErrCorruptInput but
	// reported with its own status.
	ErrResourceLimitExceeded = errors.New("resource limit exceeded")

	// ErrIOFailure indicates the source stream could not be read.
	// It always propagates to the caller.
	ErrIOFailure = errors.New("i/o failure")
)

// Status describes how an extraction ended.
type Status string

const (
	// StatusExtracted means an extractor returned text.
	StatusExtracted Status = "extracted"

	// StatusEmpty means an extractor succeeded but found no text.
	StatusEmpty Status = "empty"

	// StatusUnsupported means no extractor could handle the content type.
	StatusUnsupported Status = "unsupported"

	// StatusCorrupt means the extractor rejected the bytes.
	StatusCorrupt Status = "corrupt"

	// StatusLimitExceeded means a resource guard tripped.
	StatusLimitExceeded Status = "limit_exceeded"
)

// Failed reports whether the status is a soft failure.
func (s Status) Failed() bool {
	switch s {
	case StatusUnsupported, StatusCorrupt, StatusLimitExceeded:
		return true
	default:
		return false
	}
}

// Classify maps an extractor error to the status recorded in diagnostics.
// Errors that are not soft failures (I/O, cancellation) return false.
func Classify(err error) (Status, bool) {
	switch {
	case err == nil:
		return StatusExtracted, true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", false
	case errors.Is(err, ErrIOFailure):
		return "", false
	case errors.Is(err, ErrResourceLimitExceeded):
		return StatusLimitExceeded, true
	case errors.Is(err, ErrUnsupportedFormat):
		return StatusUnsupported, true
	case errors.Is(err, ErrCorruptInput):
		return StatusCorrupt, true
	default:
		// Unknown parser errors are treated as corrupt input.
		return StatusCorrupt, true
	}
}
