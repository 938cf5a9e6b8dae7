package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var mimetypeCmd = &cobra.Command{
	Use:   "mimetype [file...]",
	Short: "Print the resolved content type of files",
	Long: `Prints the content type each file would be extracted as, without
extracting it. Resolution uses the extension first and the file contents
when the extension is unknown.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMimetype,
}

func init() {
	rootCmd.AddCommand(mimetypeCmd)
}

func runMimetype(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		cmd.Printf("%s\t%s\n", path, extractionService.ResolveContentType(path, "", content))
	}
	return nil
}
