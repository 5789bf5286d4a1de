package config

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeExtension returns the canonical form of a configured or observed
// extension: trimmed, lower-cased, with exactly one leading dot. The empty
// string stays empty and acts as the wildcard entry.
//
//	"PDF"     -> ".pdf"
//	"..TAR.GZ" -> ".tar.gz"
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	// Caser values carry state and must not be shared across goroutines.
	return "." + cases.Lower(language.Und).String(ext)
}
