package organizer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dlsort/internal/config"
)

// Reasons reported by Filter.Check for ineligible entries.
const (
	ReasonSkipName   = "system file"
	ReasonHidden     = "hidden file"
	ReasonTransient  = "download in progress"
	ReasonNotRegular = "not a regular file"
	ReasonVanished   = "vanished"
	ReasonSettling   = "modified too recently"
)

var skipNames = map[string]struct{}{
	".DS_Store":   {},
	"Thumbs.db":   {},
	"desktop.ini": {},
}

var transientExtensions = map[string]struct{}{
	".download":   {},
	".crdownload": {},
	".part":       {},
	".partial":    {},
	".tmp":        {},
}

// Filter decides whether a watched entry is ready to be moved.
type Filter struct {
	IgnoreHidden bool
	MinAge       time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewFilter builds a Filter from the organize section of cfg.
func NewFilter(cfg *config.Config) Filter {
	return Filter{IgnoreHidden: cfg.Organize.IgnoreHidden, MinAge: cfg.MinAge(), Now: time.Now}
}

// Check reports whether path is eligible; when it is not, the second value
// says why. A path that disappeared is ineligible, not an error.
func (f Filter) Check(path string) (bool, string) {
	name := filepath.Base(path)
	if _, skip := skipNames[name]; skip {
		return false, ReasonSkipName
	}
	if f.IgnoreHidden && strings.HasPrefix(name, ".") {
		return false, ReasonHidden
	}
	if IsTransient(name) {
		return false, ReasonTransient
	}
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, ReasonVanished
		}
		return false, err.Error()
	}
	// Symlinks stay put, matching ScanOnce.
	if !info.Mode().IsRegular() {
		return false, ReasonNotRegular
	}
	if f.Remaining(info.ModTime()) > 0 {
		return false, ReasonSettling
	}
	return true, ""
}

// Remaining returns how long a file modified at modTime still has to wait
// before it counts as settled.
func (f Filter) Remaining(modTime time.Time) time.Duration {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	age := now().Sub(modTime)
	if age >= f.MinAge {
		return 0
	}
	return f.MinAge - age
}

// IsTransient reports whether name carries a partial-download extension.
func IsTransient(name string) bool {
	_, ok := transientExtensions[config.NormalizeExtension(filepath.Ext(name))]
	return ok
}
