package organizer

import (
	"context"
	"os"
	"path/filepath"

	"dlsort/internal/faults"
	"dlsort/internal/logging"
)

// Summary counts the outcome of one sweep.
type Summary struct {
	Scanned int
	Moved   int
	Skipped int
}

// ScanOnce passes every regular file directly inside the watched directory
// through Organize. Directories and symlinks are ignored. The only errors
// are a failure to list the directory and cancellation.
func (o *Organizer) ScanOnce(ctx context.Context) (Summary, error) {
	var summary Summary
	entries, err := os.ReadDir(o.watchDir)
	if err != nil {
		return summary, faults.Wrap(faults.ErrFile, "organizer", "list watched directory", o.watchDir, err)
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		summary.Scanned++
		if _, moved := o.Organize(ctx, filepath.Join(o.watchDir, entry.Name())); moved {
			summary.Moved++
		} else {
			summary.Skipped++
		}
	}
	o.logger.Debug("scan complete",
		logging.Int("scanned", summary.Scanned),
		logging.Int("moved", summary.Moved),
		logging.Int("skipped", summary.Skipped),
		logging.String(logging.FieldEventType, "scan_complete"),
	)
	return summary, nil
}
