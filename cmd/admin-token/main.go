package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pesokrava/review_moderation/internal/config"
	"github.com/Pesokrava/review_moderation/internal/pkg/auth"
)

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

// command returns the cobra command that signs a moderator bearer token
func command() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Issue a moderator bearer token for the admin API",
		Long: `Issue a moderator bearer token signed with AUTH_JWT_SECRET.

Examples:
  # Token for the configured AUTH_TOKEN_TTL
  admin-token --subject=ops@example.com

  # Short lived token
  admin-token --subject=ops@example.com --ttl=15m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Auth.EphemeralSecret {
				return errors.New("AUTH_JWT_SECRET is not set; a token signed with a generated secret would not be accepted by the API")
			}

			token, err := auth.NewAuthenticator(cfg.Auth).Issue(subject, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Moderator identity recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to AUTH_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
