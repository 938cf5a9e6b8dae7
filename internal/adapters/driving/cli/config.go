package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage extraction settings",
	Long: `View and change the settings used for extraction: resource limits,
the fallback charset, extension overrides, post-processors, batch workers
and logging.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Stores a configuration value and validates the result.

Examples:
  attachtext config set limits.max_depth 4
  attachtext config set text.default_charset iso-8859-2
  attachtext config set types.msg application/vnd.ms-outlook
  attachtext config set postprocessors.enabled controlchars,truncate`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Limits:")
	cmd.Printf("  Max depth:          %d\n", settings.Limits.MaxDepth)
	cmd.Printf("  Max input bytes:    %d\n", settings.Limits.MaxInputBytes)
	cmd.Printf("  Max expanded bytes: %d\n", settings.Limits.MaxExpandedBytes)
	cmd.Printf("  Max entries:        %d\n", settings.Limits.MaxEntries)
	cmd.Println()
	cmd.Printf("Default charset: %s\n", settings.Text.DefaultCharset)
	cmd.Printf("Workers:         %d\n", settings.Workers)
	cmd.Printf("Logging:         %s (%s)\n", settings.Logging.Level, settings.Logging.Format)

	names := make([]string, 0, len(settings.PostProcessors))
	for _, p := range settings.PostProcessors {
		names = append(names, p.Name)
	}
	cmd.Printf("Post-processors: %s\n", strings.Join(names, ", "))

	if len(settings.TypeOverrides) > 0 {
		cmd.Println()
		cmd.Println("Type overrides:")
		for _, ext := range slices.Sorted(maps.Keys(settings.TypeOverrides)) {
			cmd.Printf("  %-8s %s\n", ext, settings.TypeOverrides[ext])
		}
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(key, raw)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	if settingsService != nil {
		if err := settingsService.Validate(); err != nil {
			cmd.PrintErrf("Warning: %v\n", err)
		}
	}

	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

// parseConfigValue converts a command line value into the type stored in
// the config file. Lists are comma separated.
func parseConfigValue(key, raw string) any {
	if strings.HasSuffix(key, ".enabled") {
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
