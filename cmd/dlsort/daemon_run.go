package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dlsort/internal/daemon"
	"dlsort/internal/logging"
	"dlsort/internal/organizer"
)

func runDaemon(cmd *cobra.Command, ctx *commandContext, opts ...organizer.Option) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, loadErr := ctx.ensureConfig()
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare state directory: %w", err)
	}

	logger, runLog, err := logging.OpenRunLog(cfg, cmd.OutOrStdout(), logging.NewRunID(), time.Now())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer runLog.Close()

	if loadErr != nil {
		logging.WarnWithContext(logger, "configuration rejected", "config_fallback",
			logging.String("config_path", ctx.configPath),
			logging.Error(loadErr),
			logging.String(logging.FieldErrorHint, "run `dlsort config validate` for details"),
			logging.String(logging.FieldImpact, "built-in defaults are in effect"),
		)
	}
	if removed := logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.LogDir(),
		Pattern: logging.RunLogPattern,
		Exclude: []string{runLog.Path},
	}); removed > 0 {
		logger.Debug("pruned old run logs", logging.Int("removed", removed))
	}

	d, err := daemon.New(cfg, logger, opts...)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Run(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon stopped with error", "daemon_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.watch_dir and that no other dlsort instance is running"),
		)
		return err
	}
	return nil
}
