// Package cli provides the attachtext command line interface.
// Services are injected by main with SetServices before Execute.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/core/ports/driving"
	"github.com/custodia-labs/attachtext/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// ContentStoreOpener opens the content store at path. The returned function
// releases it.
type ContentStoreOpener func(path string) (driven.ContentStore, func() error, error)

// Services holds the dependencies of the commands.
type Services struct {
	Extraction       driving.ExtractionService
	Settings         driving.SettingsService
	Config           driven.ConfigStore
	OpenContentStore ContentStoreOpener
}

var (
	extractionService driving.ExtractionService
	settingsService   driving.SettingsService
	configStore       driven.ConfigStore
	openContentStore  ContentStoreOpener
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "attachtext",
	Short: "Extract indexable text from attachments",
	Long: `attachtext turns attachments into plain text for full-text indexing.

It resolves the content type of each file from its declared type, extension
or leading bytes and extracts text from plain text, legacy and modern office
documents, PDF, archives, markup and compiled Java classes.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	extractionService = s.Extraction
	settingsService = s.Settings
	configStore = s.Config
	openContentStore = s.OpenContentStore
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
