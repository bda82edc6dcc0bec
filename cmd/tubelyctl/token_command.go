package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tubely/internal/service"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var userFlag string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		Long: `Issue a signed access token whose subject is the given user ID.

The token is signed with TUBELY_JWT_SECRET and can be passed to the API as
"Authorization: Bearer <token>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			userID := uuid.New()
			if userFlag != "" {
				if userID, err = uuid.Parse(userFlag); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			token, err := service.NewAuthService(cfg.JWT).IssueToken(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "User ID to issue the token for (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
