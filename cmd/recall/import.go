package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/content"
	"github.com/at-ishikawa/recall/internal/datasync"
)

func newImportCommand() *cobra.Command {
	var opts datasync.ImportOptions

	cmd := &cobra.Command{
		Use:   "import <file.yml>",
		Short: "Import a module file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				_ = f.Close()
			}()
			doc, err := datasync.ParseDocument(f)
			if err != nil {
				return fmt.Errorf("datasync.ParseDocument(%s) > %w", args[0], err)
			}

			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			importer := datasync.NewImporter(content.NewDBRepository(db), cmd.OutOrStdout())
			result, err := importer.Import(cmd.Context(), doc, opts)
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}
			printImportResult(cmd.OutOrStdout(), result, opts.DryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would change without writing")
	cmd.Flags().BoolVar(&opts.Append, "append", false, "Place new items after the existing ones")
	return cmd
}

func printImportResult(w io.Writer, result *datasync.ImportResult, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "Dry run, nothing was written")
	}
	fmt.Fprintf(w, "Module %d: %d new, %d updated, %d moved, %d skipped, %d not in file\n",
		result.ModuleID, result.ItemsNew, result.ItemsUpdated, result.ItemsMoved, result.ItemsSkipped, result.ItemsUnlisted)
	for _, key := range result.StaleProgress {
		fmt.Fprintf(w, "  [STALE] %s: progress was recorded against the previous content\n", key)
	}
}
