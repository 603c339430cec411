package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrlokans/commlog/internal/config"
	"github.com/mrlokans/commlog/internal/entrypoint"
	"github.com/mrlokans/commlog/internal/importers"
)

// ImportCommand previews a file and, unless DryRun is set, commits it.
type ImportCommand struct {
	Path   string
	UserID uint
	DryRun bool
}

func newImportCommand(loadConfig func() *config.Config) *cobra.Command {
	opts := &ImportCommand{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a .csv, .xlsx or .xls file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]

			app, err := entrypoint.NewApp(loadConfig())
			if err != nil {
				return err
			}
			defer app.Close()

			return opts.Run(cmd.Context(), app, cmd.OutOrStdout())
		},
	}

	cmd.Flags().UintVar(&opts.UserID, "user-id", 0, "Owner of the imported entries")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would be imported without making changes")

	return cmd
}

// Run drives one import session against app and reports to out.
func (c *ImportCommand) Run(ctx context.Context, app *entrypoint.App, out io.Writer) error {
	fmt.Fprintln(out, "Import")
	fmt.Fprintln(out, "======")
	if c.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
	}
	fmt.Fprintf(out, "File: %s\n\n", c.Path)

	file, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	session := app.Sessions.Create(c.UserID)
	defer app.Sessions.Remove(session.ID(), c.UserID)

	preview, err := session.Load(ctx, filepath.Base(c.Path), file)
	if err != nil {
		return err
	}
	printPreview(out, preview)

	if c.DryRun {
		_, sample := session.Preview()
		if len(sample) > 0 {
			fmt.Fprintln(out, "\n=== First rows ===")
			for i, entry := range sample {
				fmt.Fprintf(out, "%d. %s [%s] %s\n", i+1, entry.Date.Format("2006-01-02"), entry.Category, entry.Title)
			}
		}
		return nil
	}

	result, err := session.Commit(ctx, c.UserID)
	if err != nil {
		return err
	}
	if app.Audit != nil {
		app.Audit.LogImport(c.UserID, filepath.Base(c.Path), result.Success, result.Failed, result.Errors)
	}

	fmt.Fprintf(out, "\nImported: %d\nFailed:   %d\n", result.Success, result.Failed)
	for _, msg := range result.Errors {
		fmt.Fprintf(out, "  - %s\n", msg)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed to import", result.Failed, result.Success+result.Failed)
	}
	return nil
}

func printPreview(out io.Writer, preview importers.ImportPreview) {
	fmt.Fprintf(out, "Rows:    %d\n", preview.TotalRows)
	fmt.Fprintf(out, "Valid:   %d\n", preview.ValidCount)
	fmt.Fprintf(out, "Invalid: %d\n", preview.InvalidCount)

	if len(preview.Errors) > 0 {
		fmt.Fprintln(out, "\nErrors:")
		for _, msg := range preview.Errors {
			fmt.Fprintf(out, "  - %s\n", msg)
		}
	}
	if len(preview.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, msg := range preview.Warnings {
			fmt.Fprintf(out, "  - %s\n", msg)
		}
	}
}
