// Package domain defines the core types of the extraction core.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: a named single-pass byte stream supplied by the caller
//   - Attachment: a Source read into memory with its resolved content type
//   - ExtractedContent: the text and content type handed to the indexer
//   - Budget: the depth/size counter passed down through archive recursion
//   - Settings: limits, decoding and logging configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
