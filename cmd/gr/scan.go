package main

import (
	"fmt"
	"time"

	"github.com/goalraiders/goalraiders/internal/config"
	"github.com/goalraiders/goalraiders/internal/db"
	"github.com/goalraiders/goalraiders/internal/notify"
	"github.com/goalraiders/goalraiders/internal/scanner"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var (
		configPath string
		daemon     bool
		dryRun     bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Reopen recurring tasks that are due again",
		Long: `Runs the recurrence scan once and exits. A completed task with
recurrenceDays N is reopened when N days have passed since its completion
date. With --daemon the scan repeats on the configured cron schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, configPath, daemon, dryRun, quiet)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "goalraiders.yaml", "path to GoalRaiders config file")
	cmd.Flags().BoolVar(&daemon, "daemon", false, "keep running on the configured schedule")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list tasks that would reopen without changing them")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress notifications, only update state")
	return cmd
}

func runScan(cmd *cobra.Command, configPath string, daemon, dryRun, quiet bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if dryRun {
		due, err := scanner.ListDue(cmd.Context(), gormDB, time.Now())
		if err != nil {
			return err
		}
		for _, t := range due {
			fmt.Fprintf(out, "Would reopen %s (%s, every %d days)\n", t.ID, t.Title, t.RecurrenceDays)
		}
		fmt.Fprintf(out, "Dry run: %d task(s) would reopen\n", len(due))
		return nil
	}

	var notifier notify.Notifier
	if !quiet {
		notifier, err = notify.Build(cfg.Notify)
		if err != nil {
			return err
		}
	}

	if daemon {
		return scanner.RunDaemon(cmd.Context(), gormDB, scanner.DaemonOpts{
			Schedule: cfg.Scanner.Schedule,
			Notifier: notifier,
			Out:      out,
		})
	}

	n, err := scanner.ScanOnce(cmd.Context(), gormDB, time.Now(), notifier, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Scan complete: %d task(s) reopened\n", n)
	return nil
}
