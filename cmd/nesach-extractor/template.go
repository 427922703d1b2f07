// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AmitayManor/pdf-extractor/internal/fields"
	"github.com/AmitayManor/pdf-extractor/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage saved field selections",
	Long: `Template saves, lists, shows, and deletes named field selections.
Use a saved selection with 'extract --template NAME'.`,
}

var templateSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save a field selection under a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateSave,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	RunE:  runTemplateList,
}

var templateShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the fields of a saved template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateShow,
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateDelete,
}

func templatesDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("templates-dir")
	if dir == "" {
		dir = loadConfig().Templates.Dir
	}
	return dir
}

func templateStore(cmd *cobra.Command) (*template.Store, error) {
	return template.NewStore(templatesDir(cmd), logger)
}

func runTemplateSave(cmd *cobra.Command, args []string) error {
	store, err := templateStore(cmd)
	if err != nil {
		return err
	}
	catalog := fields.Default()
	sel, err := selectionFromFlags(cmd, catalog, templatesDir(cmd))
	if err != nil {
		return err
	}
	warnUnknown(sel, catalog)
	description, _ := cmd.Flags().GetString("description")

	t := template.Template{
		Name:             args[0],
		Description:      description,
		SelectedFieldIDs: sel.IDs(),
	}
	if err := store.Save(t); err != nil {
		return err
	}
	fmt.Printf("Saved template %q (%d fields)\n", t.Name, sel.Len())
	return nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	store, err := templateStore(cmd)
	if err != nil {
		return err
	}
	entries, err := store.List()
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No templates found.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%-24s  %3d fields  %s\n", e.Name, len(e.Data.SelectedFieldIDs), e.Description)
	}
	return nil
}

func runTemplateShow(cmd *cobra.Command, args []string) error {
	store, err := templateStore(cmd)
	if err != nil {
		return err
	}
	t, err := store.Load(args[0])
	if err != nil {
		return err
	}

	catalog := fields.Default()
	fmt.Printf("Name:        %s\n", t.Name)
	if t.Description != "" {
		fmt.Printf("Description: %s\n", t.Description)
	}
	if !t.CreatedAt.IsZero() {
		fmt.Printf("Created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println("Fields:")
	for _, id := range t.Selection().IDs() {
		fmt.Printf("  %-16s %s\n", id, catalog.DisplayName(id))
	}
	return nil
}

func runTemplateDelete(cmd *cobra.Command, args []string) error {
	store, err := templateStore(cmd)
	if err != nil {
		return err
	}
	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted template %q\n", args[0])
	return nil
}

func init() {
	templateCmd.PersistentFlags().String("templates-dir", "", "template directory (default from config: templates)")

	templateSaveCmd.Flags().String("description", "", "template description")
	addSelectionFlags(templateSaveCmd)
	templateSaveCmd.Flags().Lookup("template").Usage = "copy the selection of another template"

	templateListCmd.Flags().Bool("json", false, "output templates as JSON")

	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateDeleteCmd)

	rootCmd.AddCommand(templateCmd)
}
