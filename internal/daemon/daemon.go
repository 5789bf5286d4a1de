package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/gofrs/flock"

	"dlsort/internal/config"
	"dlsort/internal/faults"
	"dlsort/internal/logging"
	"dlsort/internal/organizer"
	"dlsort/internal/preflight"
	"dlsort/internal/watch"
)

// Daemon organizes one watched directory until its context ends.
type Daemon struct {
	cfg      *config.Config
	base     *slog.Logger
	logger   *slog.Logger
	org      *organizer.Organizer
	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon for cfg. Organizer options are forwarded to the
// organizer it drives.
func New(cfg *config.Config, logger *slog.Logger, opts ...organizer.Option) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.StateDir, lockName(cfg.Paths.WatchDir))
	return &Daemon{
		cfg:      cfg,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		org:      organizer.New(cfg, logger, opts...),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the single-instance lock file for the watched directory.
func (d *Daemon) LockPath() string { return d.lockPath }

// Running reports whether Run is in progress.
func (d *Daemon) Running() bool { return d.running.Load() }

// Run performs setup, the optional startup sweep, and the watch loop. It
// returns nil on cancellation and a faults.ErrSetup error when the daemon
// cannot start.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	if err := CheckWatchDir(d.cfg.Paths.WatchDir); err != nil {
		return err
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return faults.Wrap(faults.ErrSetup, "daemon", "prepare state directory", "", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return faults.Wrap(faults.ErrSetup, "daemon", "acquire lock", d.lockPath, err)
	}
	if !ok {
		return faults.Wrap(faults.ErrSetup, "daemon", "acquire lock",
			fmt.Sprintf("another dlsort instance is already organizing %s", d.cfg.Paths.WatchDir), nil)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	d.reportPreflight()
	d.logger.Info("organizing downloads",
		logging.String("watch_dir", d.cfg.Paths.WatchDir),
		logging.Bool("dry_run", d.org.DryRun()),
		logging.Int("categories", len(d.org.Index().Categories())),
		logging.String(logging.FieldEventType, "daemon_started"),
	)

	if d.cfg.Organize.ScanExisting {
		d.sweep(ctx)
	}
	if !d.cfg.Watch.Enabled || ctx.Err() != nil {
		d.logger.Info("daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
		return nil
	}

	feed, err := watch.Select(d.cfg, d.org, d.base)
	if err != nil {
		return err
	}
	if err := feed.Run(ctx); err != nil {
		return err
	}
	d.logger.Info("daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
	return nil
}

// sweep organizes files already present. A listing failure is logged and
// does not stop the daemon.
func (d *Daemon) sweep(ctx context.Context) {
	started := time.Now()
	summary, err := d.org.ScanOnce(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		logging.WarnWithContext(d.logger, "startup scan failed", "startup_scan_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the watched directory is readable"),
			logging.String(logging.FieldImpact, "existing files were not organized"),
		)
		return
	}
	d.logger.Info("startup scan complete",
		logging.Int("scanned", summary.Scanned),
		logging.Int("moved", summary.Moved),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("scan_duration", time.Since(started)),
		logging.String(logging.FieldEventType, "startup_scan_complete"),
	)
}

// CheckWatchDir returns a faults.ErrSetup error unless dir is an existing
// directory.
func CheckWatchDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return faults.Wrap(faults.ErrSetup, "daemon", "check watched directory",
			fmt.Sprintf("watch folder does not exist: %s", dir), err)
	}
	if !info.IsDir() {
		return faults.Wrap(faults.ErrSetup, "daemon", "check watched directory",
			fmt.Sprintf("watch path is not a directory: %s", dir), nil)
	}
	return nil
}

func (d *Daemon) reportPreflight() {
	for _, result := range preflight.Failed(preflight.RunAll(d.cfg)) {
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldErrorHint, "fix permissions or rename the conflicting entry"),
			logging.String(logging.FieldImpact, "moves into affected folders will fail"),
		)
	}
}

// lockName derives a stable lock file name from the watched directory.
func lockName(watchDir string) string {
	return "dlsort-" + sanitizeSlug(watchDir, 64) + ".lock"
}

func sanitizeSlug(input string, maxLen int) string {
	var slug strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(input) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			slug.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			slug.WriteRune('-')
			lastHyphen = true
		}
	}
	result := strings.Trim(slug.String(), "-")
	if maxLen > 0 && len(result) > maxLen {
		result = strings.Trim(result[len(result)-maxLen:], "-")
	}
	if result == "" {
		return "root"
	}
	return result
}
