package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/attachtext/internal/core/domain"
	"github.com/custodia-labs/attachtext/internal/core/ports/driven"
	"github.com/custodia-labs/attachtext/internal/logger"
)

var watchDB string

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Extract files as they appear in a directory",
	Long: `Watches a directory and extracts every file that is created or
written. Hidden files and subdirectories are ignored. Results are printed
one per line, or saved to a SQLite content database with --db.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDB, "db", "", "save results to this SQLite database")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", args[0])
	}

	var store driven.ContentStore
	if watchDB != "" {
		if openContentStore == nil {
			return errors.New("content store not configured")
		}
		s, closeStore, err := openContentStore(watchDB)
		if err != nil {
			return fmt.Errorf("open content store: %w", err)
		}
		defer closeStore()
		store = s
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(args[0]); err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}
	cmd.Printf("Watching %s\n", args[0])

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, ok := watchTarget(event)
			if !ok {
				continue
			}
			if err := extractWatched(ctx, cmd, store, path); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("extract %s: %v", path, err)
			}
		}
	}
}

// watchTarget returns the path to extract for an event. Only creates and
// writes of visible regular files qualify.
func watchTarget(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

func extractWatched(ctx context.Context, cmd *cobra.Command, store driven.ContentStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	content, err := extractionService.Extract(ctx, domain.Source{Filename: path, Reader: f})
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.Save(ctx, content); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	cmd.Printf("%s\t%s\t%s\t%d\n", path, content.ContentType, content.Status, len(content.Text))
	return nil
}
