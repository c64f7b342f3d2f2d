package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/notium/internal"
	"github.com/iksnae/notium/internal/export"
	"github.com/spf13/cobra"
)

var (
	format        string
	outputPath    string
	exportSearch  string
	exportTag     string
	exportStarred bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes to a file",
	Long: `Export notes to various formats (jsonl, md, yaml, json).

The same filters as 'notium list' select which notes are exported.
Without --out the export is written to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter first so a bad format fails before any request
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.enter(internal.NotesPath, internal.ViewNotes); err != nil {
			return err
		}

		filter := listFilter(exportSearch, exportTag, exportStarred)
		path := exportPath(exporter, outputPath)
		var notes []internal.Note

		ctx, cancel := app.requestContext()
		defer cancel()
		steps := []internal.ProgressStep{
			{
				Message: "Loading notes",
				Fn: func() error {
					var loadErr error
					notes, loadErr = app.queries.List(ctx, filter)
					return loadErr
				},
			},
		}
		if path != "" {
			steps = append(steps, internal.ProgressStep{
				Message: fmt.Sprintf("Writing %s", path),
				Fn: func() error {
					return writeExport(exporter, notes, path)
				},
			})
		}

		if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
			return err
		}

		if path == "" {
			return exportTo(cmd.OutOrStdout(), exporter, notes, "-")
		}
		internal.PrintSuccess(fmt.Sprintf("Export complete: %d note(s) exported to %s", len(notes), path))
		return nil
	},
}

func exportTo(w io.Writer, exporter export.Exporter, notes []internal.Note, path string) error {
	if err := exporter.Export(notes, w); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

// exportPath appends the format's extension when path has none
func exportPath(exporter export.Exporter, path string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + "." + exporter.Extension()
}

// writeExport writes notes to the file at path
func writeExport(exporter export.Exporter, notes []internal.Note, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exportTo(file, exporter, notes, path); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	internal.LogDebug("exported %d note(s) to %s", len(notes), path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Only notes whose title or content contains the text")
	exportCmd.Flags().StringVarP(&exportTag, "tag", "t", "", "Only notes with the tag")
	exportCmd.Flags().BoolVar(&exportStarred, "starred", false, "Only starred notes")
}
