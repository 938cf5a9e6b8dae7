// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the dispatcher to function:
//
//   - Extractor: Converts one content-type family into text
//   - ExtractorRegistry: Selects the extractor for a content type
//   - ContentTypeResolver: Resolves the canonical content type
//
// # Optional Interfaces
//
// These are optional:
//
//   - FailureReporter: Receives absorbed soft failures. Defaults to the logger, nil discards.
//   - PostProcessorPipeline: The normalisation pass. Nil leaves extractor output untouched.
//   - ContentStore: Persistence used by driving adapters, never by the core.
//   - ConfigStore: Application configuration.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
