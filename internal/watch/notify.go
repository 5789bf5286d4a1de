package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"dlsort/internal/logging"
)

// NotifyOptions tunes a NotifyFeed.
type NotifyOptions struct {
	Workers         int
	SettleAttempts  int
	EventsPerSecond float64
}

// NotifyFeed reacts to files created in or moved into the watched directory.
// Each event path is rate limited, deduplicated against paths already being
// settled, and handed to a bounded pool of settle tasks.
type NotifyFeed struct {
	sorter   Sorter
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	workers  int
	attempts int
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewNotifyFeed subscribes to the watched directory. It fails when the
// platform cannot deliver notifications for it.
func NewNotifyFeed(s Sorter, opts NotifyOptions, logger *slog.Logger) (*NotifyFeed, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.WatchDir()); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.SettleAttempts <= 0 {
		opts.SettleAttempts = 1
	}
	limit := rate.Inf
	if opts.EventsPerSecond > 0 {
		limit = rate.Limit(opts.EventsPerSecond)
	}
	return &NotifyFeed{
		sorter:   s,
		watcher:  watcher,
		limiter:  rate.NewLimiter(limit, opts.Workers),
		workers:  opts.Workers,
		attempts: opts.SettleAttempts,
		logger:   logging.NewComponentLogger(logger, "watch"),
		inflight: make(map[string]struct{}),
	}, nil
}

func (f *NotifyFeed) Kind() Kind { return KindNotify }

func (f *NotifyFeed) Run(ctx context.Context) error {
	defer f.watcher.Close()

	var group errgroup.Group
	group.SetLimit(f.workers)

	f.logger.Info("watching with filesystem notifications",
		logging.String(logging.FieldMode, string(KindNotify)),
		logging.Int("workers", f.workers),
		logging.String(logging.FieldEventType, "watch_started"),
	)

	f.loop(ctx, &group)
	_ = group.Wait()
	return nil
}

func (f *NotifyFeed) loop(ctx context.Context, group *errgroup.Group) {
	watchDir := filepath.Clean(f.sorter.WatchDir())
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			if filepath.Dir(path) != watchDir {
				continue
			}
			if err := f.limiter.Wait(ctx); err != nil {
				return
			}
			if !f.claim(path) {
				continue
			}
			group.Go(func() error {
				defer f.release(path)
				f.settle(ctx, path)
				return nil
			})
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			logging.WarnWithContext(f.logger, "filesystem notification error", "notify_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "events may have been dropped; restart to rescan the directory"),
				logging.String(logging.FieldImpact, "some new files may wait until the next start"),
			)
		}
	}
}

// settle waits until path is old enough, checking up to attempts times, then
// hands it to the organizer, whose filter re-checks everything.
func (f *NotifyFeed) settle(ctx context.Context, path string) {
	filter := f.sorter.Filter()
	for attempt := 0; attempt < f.attempts; attempt++ {
		info, err := os.Stat(path)
		if err != nil {
			f.logger.Debug("entry vanished before settling",
				logging.String(logging.FieldFile, filepath.Base(path)),
				logging.String(logging.FieldEventType, "settle_vanished"),
			)
			return
		}
		wait := filter.Remaining(info.ModTime())
		if wait <= 0 {
			break
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
	f.sorter.Organize(ctx, path)
}

func (f *NotifyFeed) claim(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.inflight[path]; busy {
		return false
	}
	f.inflight[path] = struct{}{}
	return true
}

func (f *NotifyFeed) release(path string) {
	f.mu.Lock()
	delete(f.inflight, path)
	f.mu.Unlock()
}
