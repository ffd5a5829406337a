package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/terraincognita07/lunacycle/internal/api"
	"github.com/terraincognita07/lunacycle/internal/config"
)

func newTokenCommand(options *rootOptions) *cobra.Command {
	var (
		userKey string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a user key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(options.configPath)
			if err != nil {
				return err
			}
			secretKey, err := cfg.ResolveSecretKey()
			if err != nil {
				return err
			}

			token, err := api.IssueToken([]byte(secretKey), userKey, ttl, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVarP(&userKey, "user", "u", "", "user key to put in the uid claim")
	cmd.Flags().DurationVar(&ttl, "ttl", api.DefaultTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
