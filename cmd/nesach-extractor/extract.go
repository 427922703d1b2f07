// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AmitayManor/pdf-extractor/internal/archive"
	"github.com/AmitayManor/pdf-extractor/internal/batch"
	"github.com/AmitayManor/pdf-extractor/internal/export"
	"github.com/AmitayManor/pdf-extractor/internal/extract"
	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/internal/textextract"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files or directories...]",
	Short: "Extract fields from land-registry extracts and export them",
	Long: `Extract reads each document, pulls out the selected fields, and writes
one row per successfully processed document to the output file. Directories
are scanned for PDF files. Documents that cannot be read are reported and
skipped; they never stop the batch.

Press Ctrl-C to stop early: documents not yet processed are marked as
cancelled and the rows gathered so far are still exported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("recursive", false, "scan directories recursively")
	extractCmd.Flags().String("backend", "", "PDF text backend: native or pdftotext")
	extractCmd.Flags().Int("workers", 0, "documents processed at once (default 1)")
	extractCmd.Flags().String("format", "", "output format: xlsx, csv, json, or yaml")
	extractCmd.Flags().StringP("output", "o", "", "output file (default nesach-export.<format>)")
	extractCmd.Flags().Bool("no-archive", false, "do not store this run in the archive")
	addSelectionFlags(extractCmd)

	_ = viper.BindPFlag("extraction.backend", extractCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("extraction.workers", extractCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("export.format", extractCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("export.output", extractCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	recursive, _ := cmd.Flags().GetBool("recursive")
	noArchive, _ := cmd.Flags().GetBool("no-archive")

	catalog := fields.Default()
	sel, err := selectionFromFlags(cmd, catalog, cfg.Templates.Dir)
	if err != nil {
		return err
	}
	if sel.IsEmpty() {
		return fmt.Errorf("no fields selected")
	}
	warnUnknown(sel, catalog)

	paths, err := batch.Expand(args, recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found in %v", args)
	}

	runner, err := newRunner(cfg, catalog)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := runner.Run(ctx, paths, sel, func(path string, pct float64) {
		logger.Debug("progress", "path", path, "percent", fmt.Sprintf("%.0f", pct))
	})
	summary := batch.Summarize(results)
	summary.Print(os.Stdout)

	if cfg.Archive.Enabled && !noArchive {
		archiveRun(cmd.Context(), cfg.Archive.Dir, sel, results)
	}

	out := outputPath(cfg.Export)
	if err := export.Write(cfg.Export.Format, out, results, sel, catalog); err != nil {
		return fmt.Errorf("exporting results: %w", err)
	}
	fmt.Printf("Exported %d row(s) to %s\n", summary.Succeeded, out)

	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("extraction cancelled")
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
	}
	return nil
}

// newRunner wires the text backend and the pattern extractor for cfg.
func newRunner(cfg types.Config, catalog *fields.Catalog) (*batch.Runner, error) {
	text, err := textextract.New(cfg.Extraction)
	if err != nil {
		return nil, err
	}

	opts := []extract.Option{
		extract.WithLogger(logger),
		extract.WithMaxTextBytes(cfg.Extraction.MaxTextBytes),
	}
	if len(cfg.Extraction.Patterns) > 0 {
		patterns, err := extract.Override(cfg.Extraction.Patterns)
		if err != nil {
			return nil, fmt.Errorf("loading pattern overrides: %w", err)
		}
		opts = append(opts, extract.WithPatterns(patterns))
	}

	return &batch.Runner{
		Text:      text,
		Extractor: extract.New(catalog, opts...),
		Workers:   cfg.Extraction.Workers,
		Logger:    logger,
		Status:    os.Stdout,
	}, nil
}

// archiveRun stores results. Failures are logged and do not fail the
// command.
func archiveRun(ctx context.Context, dir string, sel fields.Selection, results []*types.Result) {
	store, err := archive.NewStore(dir)
	if err != nil {
		logger.Warn("archive unavailable", "dir", dir, "error", err)
		return
	}
	defer store.Close()

	info, err := store.SaveRun(ctx, sel, results)
	if err != nil {
		logger.Warn("archiving run failed", "error", err)
		return
	}
	fmt.Printf("Archived run %s\n", info.ID)
}
