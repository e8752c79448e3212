package main

import (
	"fmt"
	"time"

	"github.com/goalraiders/goalraiders/internal/config"
	"github.com/goalraiders/goalraiders/internal/ident"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		configPath string
		ttlHours   int
	)

	cmd := &cobra.Command{
		Use:   "token <uid>",
		Short: "Mint a bearer token for a user",
		Long: `Signs a bearer token for the given user ID using the configured secret.
Intended for development and scripting; production clients obtain tokens
from the identity provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, configPath, args[0], ttlHours)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "goalraiders.yaml", "path to GoalRaiders config file")
	cmd.Flags().IntVar(&ttlHours, "ttl", 0, "token lifetime in hours (default: config token_ttl_hours)")
	return cmd
}

func runToken(cmd *cobra.Command, configPath, uid string, ttlHours int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if ttlHours == 0 {
		ttlHours = cfg.Auth.TokenTTLHours
	}

	token, err := ident.Mint([]byte(cfg.Auth.JWTSecret), uid, time.Duration(ttlHours)*time.Hour)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
