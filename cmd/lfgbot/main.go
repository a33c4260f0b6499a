package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/knufflepuffle/lfg-bot/internal/config"
	"github.com/knufflepuffle/lfg-bot/internal/lib/logger"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const (
	programName       = "lfgbot"
	defaultConfigPath = "config/local.yaml"
)

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

var (
	globalFlags = struct {
		debug bool
	}{}
	configFile string
)

func commonRun(cfg *config.Config) *slog.Logger {
	env := cfg.Env
	if globalFlags.debug && env == logger.EnvProd {
		env = logger.EnvDev
	}
	log := logger.New(env).With(slog.String("component", programName))
	slog.SetDefault(log)

	// toss the undo func, the process exits with the command
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	return log
}

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Discord bot that schedules tabletop sessions and plot point votes",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", defaultConfigPath, "path to config file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(tokenCommand())
	rootCmd.AddCommand(hashPasswordCommand())

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
