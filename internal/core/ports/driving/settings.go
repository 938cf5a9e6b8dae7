package driving

import "github.com/custodia-labs/attachtext/internal/core/domain"

// SettingsService provides the extraction settings derived from configuration.
type SettingsService interface {
	// Get retrieves the current settings, with defaults for unset values.
	Get() (domain.Settings, error)

	// Validate reports configured values that are out of range or unknown.
	Validate() error

	// GetDefaults returns the built-in settings.
	GetDefaults() domain.Settings
}
