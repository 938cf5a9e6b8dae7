package services

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMaxDepth         = "limits.max_depth"
	keyMaxInputBytes    = "limits.max_input_bytes"
	keyMaxExpandedBytes = "limits.max_expanded_bytes"
	keyMaxEntries       = "limits.max_entries"
	keyDefaultCharset   = "text.default_charset"
	keyTypesPrefix      = "types."
	keyProcessors       = "postprocessors.enabled"
	keyProcessorsPrefix = "postprocessors."
	keyWorkers          = "batch.workers"
	keyLogLevel         = "logging.level"
	keyLogFormat        = "logging.format"
)

// logLevels are the accepted logging.level values.
var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// SettingsService maps configuration keys to extraction settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current settings. Missing or invalid values fall back to
// the defaults; use Validate to report them.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Limits: domain.Limits{
			MaxDepth:         s.getInt(keyMaxDepth, defaults.Limits.MaxDepth),
			MaxInputBytes:    s.getInt64(keyMaxInputBytes, defaults.Limits.MaxInputBytes),
			MaxExpandedBytes: s.getInt64(keyMaxExpandedBytes, defaults.Limits.MaxExpandedBytes),
			MaxEntries:       s.getInt(keyMaxEntries, defaults.Limits.MaxEntries),
		},
		Text: domain.TextSettings{
			DefaultCharset: s.getCharset(defaults.Text.DefaultCharset),
		},
		TypeOverrides:  s.getTypeOverrides(),
		PostProcessors: s.getProcessors(defaults.PostProcessors),
		Workers:        s.getInt(keyWorkers, defaults.Workers),
		Logging: domain.LoggingSettings{
			Level:  s.getLogLevel(defaults.Logging.Level),
			Format: s.getLogFormat(defaults.Logging.Format),
		},
	}

	return settings, nil
}

// Validate reports configured values that Get would replace with defaults.
func (s *SettingsService) Validate() error {
	var problems []string

	for _, key := range []string{keyMaxDepth, keyMaxInputBytes, keyMaxExpandedBytes, keyMaxEntries, keyWorkers} {
		if _, ok := s.configStore.Get(key); ok && s.configStore.GetInt64(key) <= 0 {
			problems = append(problems, key+" must be a positive integer")
		}
	}
	if name := s.configStore.GetString(keyDefaultCharset); name != "" {
		if _, err := htmlindex.Get(name); err != nil {
			problems = append(problems, fmt.Sprintf("%s: unknown charset %q", keyDefaultCharset, name))
		}
	}
	if level := s.configStore.GetString(keyLogLevel); level != "" && !logLevels[strings.ToLower(level)] {
		problems = append(problems, fmt.Sprintf("%s: unknown level %q", keyLogLevel, level))
	}
	if format := s.configStore.GetString(keyLogFormat); format != "" && !domain.LogFormat(format).IsValid() {
		problems = append(problems, fmt.Sprintf("%s: unknown format %q", keyLogFormat, format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// GetDefaults returns the default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	val := s.configStore.GetInt64(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getCharset(defaultVal string) string {
	val := s.configStore.GetString(keyDefaultCharset)
	if val == "" {
		return defaultVal
	}
	if _, err := htmlindex.Get(val); err != nil {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getLogLevel(defaultVal string) string {
	val := strings.ToLower(s.configStore.GetString(keyLogLevel))
	if !logLevels[val] {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getLogFormat(defaultVal domain.LogFormat) domain.LogFormat {
	format := domain.LogFormat(s.configStore.GetString(keyLogFormat))
	if !format.IsValid() {
		return defaultVal
	}
	return format
}

// getTypeOverrides reads "types.<ext>" keys into extension overrides.
func (s *SettingsService) getTypeOverrides() map[string]string {
	keys := s.configStore.Keys(keyTypesPrefix)
	if len(keys) == 0 {
		return nil
	}

	overrides := make(map[string]string, len(keys))
	for _, key := range keys {
		ext := strings.TrimPrefix(key, keyTypesPrefix)
		if ct := s.configStore.GetString(key); ext != "" && ct != "" {
			overrides["."+strings.TrimPrefix(ext, ".")] = ct
		}
	}
	return overrides
}

// getProcessors reads the processor list and each processor's options from
// "postprocessors.<name>.<option>" keys.
func (s *SettingsService) getProcessors(defaultVal []domain.ProcessorSettings) []domain.ProcessorSettings {
	names := s.configStore.GetStringSlice(keyProcessors)
	if len(names) == 0 {
		return defaultVal
	}

	processors := make([]domain.ProcessorSettings, 0, len(names))
	for _, name := range names {
		prefix := keyProcessorsPrefix + name + "."
		var options map[string]any
		keys := s.configStore.Keys(prefix)
		sort.Strings(keys)
		for _, key := range keys {
			val, _ := s.configStore.Get(key)
			if options == nil {
				options = make(map[string]any)
			}
			options[strings.TrimPrefix(key, prefix)] = val
		}
		processors = append(processors, domain.ProcessorSettings{Name: name, Options: options})
	}
	return processors
}
