package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dlsort/internal/organizer"
)

type categoryView struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	CatchAll   bool     `json:"catch_all,omitempty"`
}

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List category folders and the extensions they receive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			index := organizer.BuildIndex(cfg.CategoryList())

			views := make([]categoryView, 0, len(index.Categories())+1)
			for _, name := range index.Categories() {
				views = append(views, categoryView{Name: name, Extensions: index.Extensions(name)})
			}
			views = append(views, categoryView{
				Name:       cfg.Organize.OtherFolder,
				Extensions: []string{},
				CatchAll:   true,
			})
			if jsonOutput {
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{v.Name, describeExtensions(v)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Folder", "Extensions"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output categories as JSON")
	return cmd
}

func describeExtensions(v categoryView) string {
	if v.CatchAll {
		return "(anything unmatched)"
	}
	labels := make([]string, 0, len(v.Extensions))
	for _, ext := range v.Extensions {
		if ext == "" {
			labels = append(labels, "(no extension)")
			continue
		}
		labels = append(labels, ext)
	}
	return strings.Join(labels, " ")
}
