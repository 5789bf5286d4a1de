package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dlsort/internal/config"
)

const (
	runLogPrefix = "dlsort-"
	// RunLogPattern matches per-run daemon logs for retention.
	RunLogPattern = runLogPrefix + "*.log"
	// CurrentLogName is the symlink pointing at the active run log.
	CurrentLogName = "dlsort.log"
)

// RunLog is the file sink of one daemon run.
type RunLog struct {
	Path  string
	RunID string
	file  *os.File
}

// Close flushes and closes the run log file.
func (r *RunLog) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// RunLogPath returns the per-run log path for a run started at started.
func RunLogPath(cfg *config.Config, started time.Time) string {
	stamp := started.UTC().Format("20060102T150405.000Z")
	return filepath.Join(cfg.LogDir(), runLogPrefix+stamp+".log")
}

// OpenRunLog returns a logger that writes to console (per configuration,
// stdout when nil) and to a JSON file in the state directory. Every record
// carries runID. The file is also pointed to by the dlsort.log symlink.
func OpenRunLog(cfg *config.Config, console io.Writer, runID string, started time.Time) (*slog.Logger, *RunLog, error) {
	consoleLogger, err := NewFromConfig(cfg, console)
	if err != nil {
		return nil, nil, err
	}
	path := RunLogPath(cfg, started)
	file, err := openLogFile(path)
	if err != nil {
		return nil, nil, err
	}
	fileHandler := newJSONHandler(file, levelOf(cfg), false)
	logger := WithRunID(TeeLogger(consoleLogger, fileHandler), runID)

	if err := pointCurrentLog(cfg.LogDir(), path); err != nil {
		WarnWithContext(logger, "current log pointer not updated", "log_pointer_failed",
			String("path", filepath.Join(cfg.LogDir(), CurrentLogName)),
			Error(err),
			String(FieldErrorHint, "check permissions on the state directory"),
			String(FieldImpact, "dlsort.log may point at an older run"),
		)
	}
	return logger, &RunLog{Path: path, RunID: runID, file: file}, nil
}

func levelOf(cfg *config.Config) slog.Leveler {
	return parseLevel(cfg.Logging.Level)
}

func pointCurrentLog(dir, target string) error {
	link := filepath.Join(dir, CurrentLogName)
	if err := os.Remove(link); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove old pointer: %w", err)
	}
	if err := os.Symlink(filepath.Base(target), link); err != nil {
		return fmt.Errorf("create pointer: %w", err)
	}
	return nil
}
