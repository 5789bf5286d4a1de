package organizer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"dlsort/internal/config"
	"dlsort/internal/faults"
	"dlsort/internal/logging"
)

// Decision describes what Organize would do with one entry.
type Decision struct {
	Source         string
	DestinationDir string
	Category       string
	Eligible       bool
	Reason         string
}

// Organizer moves settled entries of the watched directory into category
// folders. It is safe for concurrent use.
type Organizer struct {
	watchDir string
	catchAll string
	dryRun   bool
	index    *Index
	filter   Filter
	resolver Resolver
	logger   *slog.Logger
}

// Option customizes an Organizer.
type Option func(*Organizer)

// WithClock replaces the clock used for settle-age checks.
func WithClock(now func() time.Time) Option {
	return func(o *Organizer) {
		if now != nil {
			o.filter.Now = now
		}
	}
}

// WithDryRun overrides the configured dry-run flag.
func WithDryRun(dryRun bool) Option {
	return func(o *Organizer) { o.dryRun = dryRun }
}

// WithResolver replaces the destination resolver.
func WithResolver(r Resolver) Option {
	return func(o *Organizer) { o.resolver = r }
}

// New constructs an Organizer for cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Organizer {
	o := &Organizer{
		watchDir: cfg.Paths.WatchDir,
		catchAll: cfg.Organize.OtherFolder,
		dryRun:   cfg.Organize.DryRun,
		index:    BuildIndex(cfg.CategoryList()),
		filter:   NewFilter(cfg),
		logger:   logging.NewComponentLogger(logger, "organizer"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Index returns the extension index in use.
func (o *Organizer) Index() *Index { return o.index }

// Filter returns the settle filter in use.
func (o *Organizer) Filter() Filter { return o.filter }

// WatchDir returns the directory being organized.
func (o *Organizer) WatchDir() string { return o.watchDir }

// DryRun reports whether moves are only logged.
func (o *Organizer) DryRun() bool { return o.dryRun }

// Decide classifies path and applies the settle filter without touching the
// filesystem.
func (o *Organizer) Decide(path string) Decision {
	name := filepath.Base(path)
	category := o.index.Classify(name, o.catchAll)
	eligible, reason := o.filter.Check(path)
	return Decision{
		Source:         path,
		DestinationDir: filepath.Join(o.watchDir, category),
		Category:       category,
		Eligible:       eligible,
		Reason:         reason,
	}
}

// Organize moves one entry into its category folder and returns the final
// path. It returns false when the entry was skipped or the move failed;
// failures are logged, never returned.
func (o *Organizer) Organize(ctx context.Context, path string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	name := filepath.Base(path)
	decision := o.Decide(path)
	if !decision.Eligible {
		o.logger.Debug("skipped",
			logging.String(logging.FieldFile, name),
			logging.String(logging.FieldReason, decision.Reason),
			logging.String(logging.FieldEventType, "file_skipped"),
		)
		return "", false
	}
	if filepath.Clean(filepath.Dir(path)) == filepath.Clean(decision.DestinationDir) {
		return "", false
	}

	if o.dryRun {
		target, err := o.resolver.Resolve(decision.DestinationDir, name)
		if err != nil {
			o.warnFailed(name, decision.Category, err)
			return "", false
		}
		o.logger.Info("dry run: would move",
			logging.String(logging.FieldFile, name),
			logging.String(logging.FieldCategory, decision.Category),
			logging.String(logging.FieldDestination, decision.Category+string(filepath.Separator)+filepath.Base(target)),
			logging.String(logging.FieldEventType, "file_move_planned"),
		)
		return target, true
	}

	if err := os.MkdirAll(decision.DestinationDir, 0o755); err != nil {
		o.warnFailed(name, decision.Category, faults.Wrap(faults.ErrFile, "organizer", "create category folder", decision.DestinationDir, err))
		return "", false
	}
	target, err := o.resolver.Reserve(decision.DestinationDir, name)
	if err != nil {
		o.warnFailed(name, decision.Category, err)
		return "", false
	}
	if err := o.moveFile(path, target); err != nil {
		_ = os.Remove(target)
		o.warnFailed(name, decision.Category, err)
		return "", false
	}

	o.logger.Info("moved",
		logging.String(logging.FieldFile, name),
		logging.String(logging.FieldCategory, decision.Category),
		logging.String(logging.FieldDestination, decision.Category+string(filepath.Separator)+filepath.Base(target)),
		logging.String(logging.FieldEventType, "file_moved"),
	)
	return target, true
}

// renameFile is swapped in tests to simulate cross-device moves.
var renameFile = os.Rename

// moveFile renames source over the reserved placeholder, falling back to a
// verified copy when the destination is on another device.
func (o *Organizer) moveFile(source, target string) error {
	renameErr := renameFile(source, target)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return faults.Wrap(faults.ErrFile, "organizer", "rename", "", renameErr)
	}
	if err := copyFile(source, target); err != nil {
		return faults.Wrap(faults.ErrFile, "organizer", "copy across devices", "", err)
	}
	if err := os.Remove(source); err != nil {
		logging.WarnWithContext(o.logger, "source not removed after copy", "source_cleanup_failed",
			logging.String(logging.FieldFile, filepath.Base(source)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the original manually"),
			logging.String(logging.FieldImpact, "file exists in both locations"),
		)
	}
	return nil
}

func (o *Organizer) warnFailed(name, category string, err error) {
	logging.WarnWithContext(o.logger, "move failed", "file_move_failed",
		logging.String(logging.FieldFile, name),
		logging.String(logging.FieldCategory, category),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions and free space in the watched directory"),
		logging.String(logging.FieldImpact, "file left in place; it is retried on the next scan"),
	)
}
