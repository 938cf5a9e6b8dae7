// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Dispatcher is the extraction entry point: it resolves content types,
// selects extractors, enforces resource limits and runs post-processing.
// SettingsService reads the typed settings from a ConfigStore.
package services
