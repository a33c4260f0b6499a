package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/knufflepuffle/lfg-bot/internal/app"
	"github.com/knufflepuffle/lfg-bot/internal/config"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveRun(cmd *cobra.Command, cfg *config.Config) error {
	log := commonRun(cfg)

	application, err := app.NewApp(log, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		_ = application.Stop(context.Background())
		return err
	}

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- application.HTTPServer.Run()
	}()

	log.Info("lfg bot started", slog.String("env", cfg.Env), slog.Int("port", cfg.HTTP.Port))

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-httpErr:
		if runErr != nil {
			log.Error("http server failed", sl.Err(runErr))
		}
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop application", sl.Err(err))
		return errors.Join(runErr, err)
	}
	return runErr
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the status api",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errors.New("no config found in context")
			}
			return serveRun(cmd, cfg)
		},
	}
}
