package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/attachtext/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/attachtext/internal/contenttype"
	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/core/services"
	"github.com/custodia-labs/attachtext/internal/extractors"
	"github.com/custodia-labs/attachtext/internal/postprocessors"
)

type testServices struct {
	config   *memory.ConfigStore
	content  *memory.ContentStore
	openedAt []string
}

// setupTestServices wires real extraction services backed by in-memory
// stores and returns a cleanup function that clears them and resets flags.
func setupTestServices(t *testing.T) (*testServices, func()) {
	t.Helper()

	registry := extractors.NewRegistry()
	require.NoError(t, extractors.RegisterDefaults(registry, domain.TextSettings{DefaultCharset: domain.DefaultCharset}))

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	pipeline, err := postprocessors.BuildPipeline(processors, nil)
	require.NoError(t, err)

	ts := &testServices{
		config:  memory.NewConfigStore(),
		content: memory.NewContentStore(),
	}
	dispatcher := services.NewDispatcher(contenttype.New(), registry, pipeline,
		services.WithReporter(services.NewLogReporter()))

	SetServices(Services{
		Extraction: dispatcher,
		Settings:   services.NewSettingsService(ts.config),
		Config:     ts.config,
		OpenContentStore: func(path string) (driven.ContentStore, func() error, error) {
			ts.openedAt = append(ts.openedAt, path)
			return ts.content, func() error { return nil }, nil
		},
	})

	return ts, func() {
		SetServices(Services{})
		extractJSON = false
		extractContentType = ""
		extractDB = ""
		watchDB = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetContext(nil)
		for _, c := range rootCmd.Commands() {
			c.SetContext(nil)
		}
	}
}
