package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dlsort/internal/logging"
	"dlsort/internal/organizer"
)

type classification struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Destination string `json:"destination"`
	Present     bool   `json:"present"`
	Eligible    bool   `json:"eligible"`
	Reason      string `json:"reason,omitempty"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "classify NAME...",
		Short: "Show which category folder each file name would go to",
		Long: "Classify file names against the configured categories. Names that exist\n" +
			"(as given or inside the watched directory) also report whether they are\n" +
			"ready to be moved.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			org := organizer.New(ctx.configValue(), logging.NewNop())
			results := make([]classification, 0, len(args))
			for _, arg := range args {
				results = append(results, classifyOne(org, arg))
			}
			if jsonOutput {
				return writeJSON(cmd, results)
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "not present"
				switch {
				case r.Present && r.Eligible:
					status = "ready"
				case r.Present:
					status = r.Reason
				}
				rows = append(rows, []string{r.Name, r.Category, r.Destination, status})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Category", "Destination", "Status"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output classifications as JSON")
	return cmd
}

func classifyOne(org *organizer.Organizer, arg string) classification {
	name := filepath.Base(arg)
	path := locate(org.WatchDir(), arg)
	present := path != ""
	if !present {
		path = filepath.Join(org.WatchDir(), name)
	}
	decision := org.Decide(path)
	result := classification{
		Name:        name,
		Category:    decision.Category,
		Destination: filepath.Join(decision.DestinationDir, name),
		Present:     present,
	}
	if result.Present {
		result.Eligible = decision.Eligible
		result.Reason = decision.Reason
	}
	return result
}

// locate returns arg when it names an existing entry, else the same name
// inside watchDir when that exists, else "".
func locate(watchDir, arg string) string {
	if exists(arg) {
		abs, err := filepath.Abs(arg)
		if err == nil {
			return abs
		}
		return arg
	}
	candidate := filepath.Join(watchDir, filepath.Base(arg))
	if exists(candidate) {
		return candidate
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
