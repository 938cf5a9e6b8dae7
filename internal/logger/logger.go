// Package logger provides the process-wide logger for attachtext.
// Messages are written through zerolog. In verbose mode (--verbose) debug
// messages are emitted as well; otherwise the configured level applies.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu         sync.RWMutex
	verbose    bool
	level      = zerolog.WarnLevel
	jsonOutput bool
	output     io.Writer = os.Stderr
	base       = build()
)

// build creates the zerolog logger from the current settings (caller must hold lock).
func build() zerolog.Logger {
	w := output
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: output, NoColor: true, TimeFormat: time.RFC3339}
	}
	lvl := level
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetLevel sets the minimum level used outside verbose mode.
// Accepts "debug", "info", "warn" and "error".
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", name, err)
	}
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	base = build()
	return nil
}

// SetJSON switches between JSON and human-readable console output.
func SetJSON(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOutput = enabled
	base = build()
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build()
}

// Logger returns the underlying zerolog logger for structured events.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	l := Logger()
	l.Debug().Msgf(format, args...)
}

// Section logs a section header at debug level.
func Section(name string) {
	l := Logger()
	l.Debug().Str("section", name).Msg("=== " + name + " ===")
}

// Info logs an informational message.
func Info(format string, args ...any) {
	l := Logger()
	l.Info().Msgf(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	l := Logger()
	l.Warn().Msgf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	l := Logger()
	l.Error().Msgf(format, args...)
}
