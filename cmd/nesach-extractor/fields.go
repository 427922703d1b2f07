// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the extractable fields",
	Long: `Fields prints the field catalog grouped by section. The ID column is
what --fields and templates accept; the name column is the export column
label. Fields marked with * are selected when no selection is given.`,
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().Bool("json", false, "output the catalog as JSON")
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	catalog := fields.Default()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.All())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, group := range catalog.Groups() {
		fmt.Fprintf(w, "[%s]\n", group)
		for _, f := range catalog.Fields(group) {
			mark := " "
			if f.Default {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %s\t%s\n", mark, f.ID, f.Name)
		}
	}
	return w.Flush()
}
