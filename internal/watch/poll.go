package watch

import (
	"context"
	"log/slog"
	"time"

	"dlsort/internal/logging"
)

const minPollInterval = 10 * time.Millisecond

// PollFeed rescans the watched directory on a fixed interval.
type PollFeed struct {
	sorter   Sorter
	interval time.Duration
	logger   *slog.Logger
}

// NewPollFeed constructs a polling feed.
func NewPollFeed(s Sorter, interval time.Duration, logger *slog.Logger) *PollFeed {
	if interval < minPollInterval {
		interval = minPollInterval
	}
	return &PollFeed{sorter: s, interval: interval, logger: logging.NewComponentLogger(logger, "watch")}
}

func (f *PollFeed) Kind() Kind { return KindPoll }

func (f *PollFeed) Run(ctx context.Context) error {
	f.logger.Info("polling for new files",
		logging.String(logging.FieldMode, string(KindPoll)),
		logging.Duration("interval", f.interval),
		logging.String(logging.FieldEventType, "watch_started"),
	)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := f.sorter.ScanOnce(ctx); err != nil && ctx.Err() == nil {
				logging.WarnWithContext(f.logger, "poll scan failed", "poll_scan_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check that the watched directory still exists and is readable"),
					logging.String(logging.FieldImpact, "new files wait for the next successful poll"),
				)
			}
		}
	}
}
