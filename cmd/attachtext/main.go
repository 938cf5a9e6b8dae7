// Command attachtext extracts indexable text from attachments.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/attachtext/internal/adapters/driven/config/file"
	"github.com/custodia-labs/attachtext/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/attachtext/internal/adapters/driving/cli"
	"github.com/custodia-labs/attachtext/internal/contenttype"
	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/core/services"
	"github.com/custodia-labs/attachtext/internal/extractors"
	"github.com/custodia-labs/attachtext/internal/logger"
	"github.com/custodia-labs/attachtext/internal/postprocessors"
)

// configEnv overrides the configuration file location.
const configEnv = "ATTACHTEXT_CONFIG"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := openConfig()
	if err != nil {
		return err
	}

	settingsService := services.NewSettingsService(configStore)
	if err := settingsService.Validate(); err != nil {
		logger.Warn("config %s: %v", configStore.Path(), err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err := logger.SetLevel(settings.Logging.Level); err != nil {
		return err
	}
	logger.SetJSON(settings.Logging.Format == domain.LogFormatJSON)

	registry := extractors.NewRegistry()
	if err := extractors.RegisterDefaults(registry, settings.Text); err != nil {
		return fmt.Errorf("register extractors: %w", err)
	}

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	pipeline, err := postprocessors.BuildPipeline(processors, settings.PostProcessors)
	if err != nil {
		return fmt.Errorf("build post-processors: %w", err)
	}

	dispatcher := services.NewDispatcher(
		contenttype.New(contenttype.WithOverrides(settings.TypeOverrides)),
		registry,
		pipeline,
		services.WithLimits(settings.Limits),
		services.WithWorkers(settings.Workers),
		services.WithReporter(services.NewLogReporter()),
	)

	cli.SetServices(cli.Services{
		Extraction:       dispatcher,
		Settings:         settingsService,
		Config:           configStore,
		OpenContentStore: openContentStore,
	})

	// cobra has already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
	return nil
}

func openConfig() (*file.ConfigStore, error) {
	if path := os.Getenv(configEnv); path != "" {
		store, err := file.NewConfigStoreAt(path)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
		return store, nil
	}
	store, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

func openContentStore(path string) (driven.ContentStore, func() error, error) {
	store, err := sqlite.NewStoreAt(path)
	if err != nil {
		return nil, nil, err
	}
	return store.ContentStore(), store.Close, nil
}
