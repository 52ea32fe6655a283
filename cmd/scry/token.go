package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a learner",
		Long: "Issue a signed bearer token for a learner ID using the configured secret.\n" +
			"A random learner ID is used when --user is omitted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil || id == uuid.Nil {
					return fmt.Errorf("invalid --user %q: must be a non-nil UUID", userID)
				}
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			token, err := jwtService.GenerateToken(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user_id: %s\ntoken: %s\n", id, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "learner UUID to embed in the token")
	return cmd
}
