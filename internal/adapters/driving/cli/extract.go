package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/attachtext/internal/core/domain"
)

var (
	extractJSON        bool
	extractContentType string
	extractDB          string
)

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract text from files",
	Long: `Extracts the text of each file and prints it.

Files that are unsupported or corrupt are reported with their status and
empty text; they do not stop the run. Use "-" to read from standard input.
With --db the results are also saved to a SQLite content database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output results as JSON")
	extractCmd.Flags().StringVarP(&extractContentType, "type", "t", "", "declared content type for all files")
	extractCmd.Flags().StringVar(&extractDB, "db", "", "save results to this SQLite database")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sources := make([]domain.Source, 0, len(args))
	for _, arg := range args {
		if arg == "-" {
			sources = append(sources, domain.Source{Filename: "stdin", ContentType: extractContentType, Reader: cmd.InOrStdin()})
			continue
		}
		f, err := os.Open(arg)
		if err != nil {
			return fmt.Errorf("open %s: %w", arg, err)
		}
		defer f.Close()
		sources = append(sources, domain.Source{Filename: arg, ContentType: extractContentType, Reader: f})
	}

	items, err := extractionService.ExtractBatch(ctx, sources)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractDB != "" {
		if err := saveContents(ctx, extractDB, items); err != nil {
			return err
		}
	}

	if extractJSON {
		return outputExtractJSON(cmd, items)
	}
	return outputExtractText(cmd, items)
}

// saveContents persists every successful item to the content database.
func saveContents(ctx context.Context, path string, items []domain.BatchItem) error {
	if openContentStore == nil {
		return errors.New("content store not configured")
	}
	store, closeStore, err := openContentStore(path)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer closeStore()

	for _, item := range items {
		if item.Content == nil {
			continue
		}
		if err := store.Save(ctx, item.Content); err != nil {
			return fmt.Errorf("save %s: %w", item.Filename, err)
		}
	}
	return nil
}

// extractOutput is the JSON form of one item.
type extractOutput struct {
	*domain.ExtractedContent
	Error string `json:",omitempty"`
}

func outputExtractJSON(cmd *cobra.Command, items []domain.BatchItem) error {
	out := make([]extractOutput, 0, len(items))
	for _, item := range items {
		o := extractOutput{ExtractedContent: item.Content}
		if item.Err != nil {
			o.ExtractedContent = &domain.ExtractedContent{Filename: item.Filename}
			o.Error = item.Err.Error()
		}
		out = append(out, o)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputExtractText(cmd *cobra.Command, items []domain.BatchItem) error {
	var failed int
	for _, item := range items {
		if len(items) > 1 {
			cmd.Printf("==> %s <==\n", item.Filename)
		}
		if item.Err != nil {
			failed++
			cmd.PrintErrf("%s: %v\n", item.Filename, item.Err)
			continue
		}
		if item.Content.Status.Failed() {
			cmd.PrintErrf("%s: %s (%s)\n", item.Filename, item.Content.Status, item.Content.ContentType)
		}
		cmd.Print(item.Content.Text)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(items))
	}
	return nil
}
