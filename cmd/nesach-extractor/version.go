// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AmitayManor/pdf-extractor/internal/extract"
	"github.com/AmitayManor/pdf-extractor/internal/fields"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version and extraction capabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		return printVersion(cmd.OutOrStdout(), verbose)
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "also list the pattern names accepted in extraction.patterns")
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer, verbose bool) error {
	catalog := fields.Default()
	if _, err := fmt.Fprintf(w, "nesach-extractor %s (%s, %d fields in %d groups)\n",
		version, runtime.Version(), len(catalog.All()), len(catalog.Groups())); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	for _, name := range extract.PatternNames() {
		if _, err := fmt.Fprintf(w, "  pattern %s\n", name); err != nil {
			return err
		}
	}
	return nil
}
