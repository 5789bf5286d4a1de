package organizer

import (
	"sort"
	"strings"

	"dlsort/internal/config"
)

// IndexConflict records an extension claimed by more than one category.
type IndexConflict struct {
	Extension string
	Previous  string
	Winner    string
}

// Index maps normalized extensions to category names. It is read-only after
// BuildIndex returns and safe for concurrent use.
type Index struct {
	byExt      map[string]string
	categories []string
	conflicts  []IndexConflict
}

// BuildIndex inserts every extension of every category in list order. When
// two categories claim the same extension the later one wins and the
// override is recorded in Conflicts.
func BuildIndex(categories []config.Category) *Index {
	idx := &Index{byExt: make(map[string]string)}
	seen := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		if _, ok := seen[cat.Name]; !ok {
			seen[cat.Name] = struct{}{}
			idx.categories = append(idx.categories, cat.Name)
		}
		for _, raw := range cat.Extensions {
			ext := config.NormalizeExtension(raw)
			if prev, ok := idx.byExt[ext]; ok && prev != cat.Name {
				idx.conflicts = append(idx.conflicts, IndexConflict{Extension: ext, Previous: prev, Winner: cat.Name})
			}
			idx.byExt[ext] = cat.Name
		}
	}
	return idx
}

// Lookup returns the category registered for ext, normalizing it first.
func (idx *Index) Lookup(ext string) (string, bool) {
	category, ok := idx.byExt[config.NormalizeExtension(ext)]
	return category, ok
}

// Len reports the number of indexed extensions.
func (idx *Index) Len() int { return len(idx.byExt) }

// Categories returns category names in insertion order.
func (idx *Index) Categories() []string {
	return append([]string(nil), idx.categories...)
}

// Conflicts returns every override that happened while building the index.
func (idx *Index) Conflicts() []IndexConflict {
	return append([]IndexConflict(nil), idx.conflicts...)
}

// Extensions returns the indexed extensions of category, sorted.
func (idx *Index) Extensions(category string) []string {
	var out []string
	for ext, name := range idx.byExt {
		if name == category {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

// Candidates lists the extension candidates of a file name, longest first:
//
//	"archive.tar.gz" -> [".tar.gz", ".gz"]
//	"README"         -> [""]
//
// Leading dots belong to the stem, so ".bashrc" has no extension, and empty
// components ("a..b") are dropped.
func (idx *Index) Candidates(name string) []string {
	suffixes := suffixComponents(name)
	if len(suffixes) == 0 {
		return []string{""}
	}
	out := make([]string, 0, len(suffixes))
	for i := range suffixes {
		out = append(out, "."+strings.Join(suffixes[i:], "."))
	}
	return out
}

// Classify returns the category for name. The first candidate found in the
// index wins, then the wildcard "" entry, then catchAll.
func (idx *Index) Classify(name, catchAll string) string {
	for _, candidate := range idx.Candidates(name) {
		if category, ok := idx.Lookup(candidate); ok {
			return category
		}
	}
	if category, ok := idx.byExt[""]; ok {
		return category
	}
	return catchAll
}

// suffixComponents returns the non-empty dot-separated components that
// follow the stem.
func suffixComponents(name string) []string {
	trimmed := strings.TrimLeft(name, ".")
	parts := strings.Split(trimmed, ".")
	if len(parts) < 2 {
		return nil
	}
	out := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitName separates the stem from the full compound extension so
// collision suffixes land before it: "archive.tar.gz" -> "archive", ".tar.gz".
func splitName(name string) (string, string) {
	lead := len(name) - len(strings.TrimLeft(name, "."))
	rest := name[lead:]
	dot := strings.IndexByte(rest, '.')
	if dot <= 0 || strings.Trim(rest[dot:], ".") == "" {
		return name, ""
	}
	return name[:lead+dot], rest[dot:]
}
