// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AmitayManor/pdf-extractor/internal/archive"
	"github.com/AmitayManor/pdf-extractor/internal/export"
	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List and re-export archived batch runs",
	Long: `Runs works with the archive of past extract runs. An archived run can
be exported again, in any format and with a different field selection,
without reading the source documents again. A run can be named by a
unique prefix of its ID.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runRunsList,
}

var runsExportCmd = &cobra.Command{
	Use:   "export RUN-ID",
	Short: "Export an archived run",
	Long: `Export writes the results of an archived run. By default the run's own
field selection is used; --fields, --field-names, or --template choose
columns from the fields that were extracted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRunsExport,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete RUN-ID",
	Short: "Delete an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func archiveStore(cmd *cobra.Command) (*archive.Store, error) {
	dir, _ := cmd.Flags().GetString("archive-dir")
	if dir == "" {
		dir = loadConfig().Archive.Dir
	}
	return archive.NewStore(dir)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := archiveStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %5s  %6s  %s\n", "ID", "Created", "OK", "Failed", "Fields")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %5d  %6d  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Succeeded, r.Failed,
			strings.Join(r.Selection, ","))
	}
	return nil
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	store, err := archiveStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.LoadRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	catalog := fields.Default()
	sel := fields.NewSelection(run.Selection...)
	if selectionFlagsSet(cmd) {
		sel, err = selectionFromFlags(cmd, catalog, loadConfig().Templates.Dir)
		if err != nil {
			return err
		}
	}

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	cfg := types.ExportConfig{Format: types.ExportFormat(format), Output: output}
	if cfg.Format == "" {
		cfg.Format = loadConfig().Export.Format
	}
	if cfg.Output == "" {
		cfg.Output = loadConfig().Export.Output
	}
	out := outputPath(cfg)

	if err := export.Write(cfg.Format, out, run.Results, sel, catalog); err != nil {
		return fmt.Errorf("exporting run %s: %w", run.ID, err)
	}
	fmt.Printf("Exported run %s (%d row(s)) to %s\n", run.ID, run.Succeeded, out)
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	store, err := archiveStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", args[0])
	return nil
}

func selectionFlagsSet(cmd *cobra.Command) bool {
	for _, name := range []string{"fields", "field-names", "template"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func init() {
	runsCmd.PersistentFlags().String("archive-dir", "", "archive directory (default from config: .nesach)")

	runsListCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	runsListCmd.Flags().Bool("json", false, "output runs as JSON")

	runsExportCmd.Flags().String("format", "", "output format: xlsx, csv, json, or yaml")
	runsExportCmd.Flags().StringP("output", "o", "", "output file (default nesach-export.<format>)")
	addSelectionFlags(runsExportCmd)

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	rootCmd.AddCommand(runsCmd)
}
