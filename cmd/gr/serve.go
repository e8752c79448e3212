package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/goalraiders/goalraiders/internal/config"
	"github.com/goalraiders/goalraiders/internal/db"
	"github.com/goalraiders/goalraiders/internal/notify"
	"github.com/goalraiders/goalraiders/internal/scanner"
	"github.com/goalraiders/goalraiders/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		noScanner  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the GoalRaiders API server",
		Long: `Starts the REST API and, unless --no-scanner is given, the recurrence
scanner daemon alongside it. Shuts down cleanly on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, noScanner)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "goalraiders.yaml", "path to GoalRaiders config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&noScanner, "no-scanner", false, "run the API without the recurrence scanner")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, noScanner bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !noScanner {
		notifier, err := notify.Build(cfg.Notify)
		if err != nil {
			return err
		}
		go func() {
			if err := scanner.RunDaemon(ctx, gormDB, scanner.DaemonOpts{
				Schedule: cfg.Scanner.Schedule,
				Notifier: notifier,
				Out:      out,
			}); err != nil {
				fmt.Fprintf(out, "scanner: %v\n", err)
			}
		}()
	}

	return server.Start(ctx, server.StartOpts{
		DB:     gormDB,
		Tables: cfg.Tables(),
		Secret: []byte(cfg.Auth.JWTSecret),
		Port:   port,
		Out:    out,
	})
}
