package domain

// Default resource limits.
const (
	// DefaultMaxDepth is how many archives may be nested inside each other.
	DefaultMaxDepth = 8

	// DefaultMaxInputBytes caps the size of a single source stream (64 MiB).
	DefaultMaxInputBytes = 64 << 20

	// DefaultMaxExpandedBytes caps the bytes decompressed from archive
	// members across a whole extraction (256 MiB).
	DefaultMaxExpandedBytes = 256 << 20

	// DefaultMaxEntries caps archive members visited across a whole extraction.
	DefaultMaxEntries = 10000

	// DefaultCharset is used for text that is neither valid UTF-8 nor
	// labelled with a charset.
	DefaultCharset = "windows-1252"

	// DefaultWorkers is the bulk extraction parallelism.
	DefaultWorkers = 4
)

// LogFormat selects the log output encoding.
type LogFormat string

// Available log formats.
const (
	// LogFormatConsole writes human-readable lines.
	LogFormatConsole LogFormat = "console"

	// LogFormatJSON writes one JSON object per event.
	LogFormatJSON LogFormat = "json"
)

// IsValid returns true if the log format is recognised.
func (f LogFormat) IsValid() bool {
	switch f {
	case LogFormatConsole, LogFormatJSON:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f LogFormat) String() string {
	return string(f)
}

// Limits bounds the resources a single extraction may consume.
type Limits struct {
	// MaxDepth is the maximum archive nesting depth.
	MaxDepth int

	// MaxInputBytes is the maximum size of a source stream.
	MaxInputBytes int64

	// MaxExpandedBytes is the maximum cumulative size of archive members.
	MaxExpandedBytes int64

	// MaxEntries is the maximum cumulative number of archive members.
	MaxEntries int
}

// DefaultLimits returns the built-in resource limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:         DefaultMaxDepth,
		MaxInputBytes:    DefaultMaxInputBytes,
		MaxExpandedBytes: DefaultMaxExpandedBytes,
		MaxEntries:       DefaultMaxEntries,
	}
}

// TextSettings holds text decoding configuration.
type TextSettings struct {
	// DefaultCharset is the fallback encoding for unlabelled non-UTF-8 text.
	DefaultCharset string
}

// LoggingSettings holds logger configuration.
type LoggingSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string

	// Format is the output encoding.
	Format LogFormat
}

// ProcessorSettings names a post-processor and its options.
type ProcessorSettings struct {
	// Name matches a registered post-processor.
	Name string

	// Options are processor-specific settings.
	Options map[string]any
}

// Settings holds all extraction settings.
type Settings struct {
	// Limits bounds resource consumption.
	Limits Limits

	// Text holds decoding settings.
	Text TextSettings

	// TypeOverrides maps file extensions (with leading dot) to content types
	// and takes precedence over the built-in extension table.
	TypeOverrides map[string]string

	// PostProcessors lists the normalisation pass, in order.
	PostProcessors []ProcessorSettings

	// Workers is the bulk extraction parallelism.
	Workers int

	// Logging holds logger settings.
	Logging LoggingSettings
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Limits: DefaultLimits(),
		Text: TextSettings{
			DefaultCharset: DefaultCharset,
		},
		PostProcessors: []ProcessorSettings{{Name: "lineendings"}},
		Workers:        DefaultWorkers,
		Logging: LoggingSettings{
			Level:  "info",
			Format: LogFormatConsole,
		},
	}
}
