package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"dlsort/internal/daemon"
	"dlsort/internal/logging"
	"dlsort/internal/organizer"
)

type scanResult struct {
	WatchDir string `json:"watch_dir"`
	DryRun   bool   `json:"dry_run"`
	Scanned  int    `json:"scanned"`
	Moved    int    `json:"moved"`
	Skipped  int    `json:"skipped"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Organize the watched directory once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg := ctx.configValue()
			if err := daemon.CheckWatchDir(cfg.Paths.WatchDir); err != nil {
				return err
			}

			logger := logging.NewNop()
			if !jsonOutput {
				var err error
				if logger, err = logging.NewFromConfig(cfg, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
			}

			org := organizer.New(cfg, logger, dryRunOptions(cmd, dryRun)...)
			summary, err := org.ScanOnce(signalCtx)
			if err != nil {
				return err
			}

			result := scanResult{
				WatchDir: org.WatchDir(),
				DryRun:   org.DryRun(),
				Scanned:  summary.Scanned,
				Moved:    summary.Moved,
				Skipped:  summary.Skipped,
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}
			printScanSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intended moves without touching any file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the summary as JSON")
	return cmd
}

func printScanSummary(cmd *cobra.Command, result scanResult) {
	movedLabel := "Moved"
	if result.DryRun {
		movedLabel = "Would move"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Directory", "Scanned", movedLabel, "Skipped"},
		[][]string{{
			result.WatchDir,
			strconv.Itoa(result.Scanned),
			strconv.Itoa(result.Moved),
			strconv.Itoa(result.Skipped),
		}},
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	if result.DryRun {
		fmt.Fprintln(out, "Dry run: no files were moved.")
	}
}
