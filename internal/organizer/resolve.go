package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dlsort/internal/faults"
)

const maxCollisionAttempts = 100000

// Resolver picks collision-free destination names of the form
// "stem-N.ext", where ext is the full compound extension.
type Resolver struct {
	// MaxAttempts bounds the counter; zero selects the default.
	MaxAttempts int
}

// Resolve returns the first free candidate without claiming it. Dry runs use
// it to preview a destination.
func (r Resolver) Resolve(dir, name string) (string, error) {
	return r.walk(dir, name, func(candidate string) (bool, error) {
		_, err := os.Lstat(candidate)
		switch {
		case err == nil:
			return false, nil
		case errors.Is(err, fs.ErrNotExist):
			return true, nil
		default:
			return false, err
		}
	})
}

// Reserve claims the first free candidate by creating an empty placeholder
// with O_EXCL, so concurrent movers never pick the same name. The caller
// must replace or remove the placeholder.
func (r Resolver) Reserve(dir, name string) (string, error) {
	return r.walk(dir, name, func(candidate string) (bool, error) {
		file, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		switch {
		case err == nil:
			return true, file.Close()
		case errors.Is(err, fs.ErrExist):
			return false, nil
		default:
			return false, err
		}
	})
}

func (r Resolver) walk(dir, name string, claim func(string) (bool, error)) (string, error) {
	limit := r.MaxAttempts
	if limit <= 0 {
		limit = maxCollisionAttempts
	}
	stem, ext := splitName(name)
	for attempt := 0; attempt <= limit; attempt++ {
		candidate := filepath.Join(dir, name)
		if attempt > 0 {
			candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, attempt, ext))
		}
		ok, err := claim(candidate)
		if err != nil {
			return "", faults.Wrap(faults.ErrFile, "organizer", "resolve destination", candidate, err)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", faults.Wrap(faults.ErrExhausted, "organizer", "resolve destination",
		fmt.Sprintf("%d names taken for %s in %s", limit, name, dir), nil)
}
