package preflight

import (
	"dlsort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Watched directory", cfg.Paths.WatchDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	if results[0].Passed {
		folders := make([]string, 0, len(cfg.Categories)+1)
		for _, cat := range cfg.CategoryList() {
			folders = append(folders, cat.Name)
		}
		folders = append(folders, cfg.Organize.OtherFolder)
		results = append(results, CheckCategoryFolders(cfg.Paths.WatchDir, folders))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
