package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"supplyplan/internal/config"
	"supplyplan/internal/domain"
	"supplyplan/internal/service"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(domain.RoleOperator), "role: operator or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
}

func runToken(cmd *cobra.Command, _ []string) error {
	role := domain.Role(tokenRole)
	if !domain.ValidRoles[role] {
		return fmt.Errorf("unknown role %q", tokenRole)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	token, expires, err := service.NewTokenService(cfg.Auth).Issue(tokenSubject, role, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
	return nil
}
