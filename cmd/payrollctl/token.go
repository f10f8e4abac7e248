package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"payroll/internal/domain/auth"
	"payroll/internal/platform/config"
)

func newTokenCommand() *cobra.Command {
	var (
		subject, role string
		ttl           time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !auth.KnownRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg := config.Load()
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, usually the operator's email")
	cmd.Flags().StringVar(&role, "role", auth.RoleHR, "role claim (HR, Manager, SystemAdmin)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
