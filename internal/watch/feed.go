package watch

import (
	"context"
	"log/slog"

	"dlsort/internal/config"
	"dlsort/internal/faults"
	"dlsort/internal/logging"
	"dlsort/internal/organizer"
)

// Kind names a Feed variant.
type Kind string

const (
	KindNotify Kind = "notify"
	KindPoll   Kind = "poll"
)

// Feed delivers candidate entries to the organizer until its context ends.
type Feed interface {
	Kind() Kind
	// Run blocks until ctx is cancelled and returns nil once in-flight work
	// has finished.
	Run(ctx context.Context) error
}

// Sorter is the part of organizer.Organizer that feeds drive.
type Sorter interface {
	WatchDir() string
	Filter() organizer.Filter
	Organize(ctx context.Context, path string) (string, bool)
	ScanOnce(ctx context.Context) (organizer.Summary, error)
}

// Select chooses the feed for cfg.Watch.Mode. In auto mode a notification
// feed is preferred and polling is the fallback; notify mode fails with a
// setup error instead of falling back.
func Select(cfg *config.Config, s Sorter, logger *slog.Logger) (Feed, error) {
	if cfg.Watch.Mode == config.WatchModePoll {
		return NewPollFeed(s, cfg.PollInterval(), logger), nil
	}

	feed, err := NewNotifyFeed(s, NotifyOptions{
		Workers:         cfg.Watch.Workers,
		SettleAttempts:  cfg.Watch.SettleAttempts,
		EventsPerSecond: cfg.Watch.MaxEventsPerSecond,
	}, logger)
	if err == nil {
		return feed, nil
	}
	if cfg.Watch.Mode == config.WatchModeNotify {
		return nil, faults.Wrap(faults.ErrSetup, "watch", "subscribe", s.WatchDir(), err)
	}
	logging.WarnWithContext(logging.NewComponentLogger(logger, "watch"), "filesystem notifications unavailable; falling back to polling", "notify_unavailable",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "raise fs.inotify.max_user_watches or set watch.mode = \"poll\""),
		logging.String(logging.FieldImpact, "new files are picked up on the next poll instead of immediately"),
	)
	return NewPollFeed(s, cfg.PollInterval(), logger), nil
}
