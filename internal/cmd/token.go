package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"msts/internal/auth"
	corelog "msts/internal/core/log"
)

func newTokenCommand(root *rootOptions) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
	}
	tokenCmd.AddCommand(newTokenIssueCommand(root))
	return tokenCmd
}

func newTokenIssueCommand(root *rootOptions) *cobra.Command {
	var ttl time.Duration

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for the administrator",
		Long: `Issue a bearer token for the configured administrator and print it to
stdout. Without --ttl the token_auth.expire_minutes setting is used.

Example:
  msts token issue
  curl -H "Authorization: Bearer $(msts token issue --ttl 5m)" http://127.0.0.1:8000/menu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.openConfig(cmd)
			if err != nil {
				return err
			}

			svc, err := auth.NewService(cfg, auth.WithLogger(corelog.NewNopLogger()), auth.WithCacheSize(0))
			if err != nil {
				return err
			}

			if ttl == 0 {
				ttl = cfg.TokenAuth.Expiration()
			}
			if ttl < 0 {
				return fmt.Errorf("ttl must be positive, got %s", ttl)
			}
			token, err := svc.IssueTokenTTL(svc.AdminName(), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	issueCmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime, e.g. 30m (default from config)")
	return issueCmd
}
