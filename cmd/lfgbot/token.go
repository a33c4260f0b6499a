package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/knufflepuffle/lfg-bot/internal/config"
	"github.com/knufflepuffle/lfg-bot/internal/lib/jwt"
	"github.com/spf13/cobra"
)

func tokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the private status api",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errors.New("no config found in context")
			}
			if ttl <= 0 {
				ttl = cfg.HTTP.TokenTTL
			}

			token, err := jwt.NewToken(subject, cfg.HTTP.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "ops", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, defaults to http.token_ttl")

	return cmd
}
