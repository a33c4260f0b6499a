package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/knufflepuffle/lfg-bot/internal/config"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func migrateRun(cmd *cobra.Command, cfg *config.Config, action string, steps int, source string) error {
	log := commonRun(cfg)

	db, err := sql.Open("postgres", cfg.StoragePath)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return err
	}

	switch action {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "force":
		err = m.Force(steps)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %d, Dirty: %v\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown action: %s", action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	log.Info("migration applied", slog.String("action", action), slog.Int("steps", steps))
	return nil
}

func migrateCommand() *cobra.Command {
	var (
		action string
		steps  int
		source string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errors.New("no config found in context")
			}
			return migrateRun(cmd, cfg, action, steps, source)
		},
	}

	cmd.Flags().StringVar(&action, "action", "up", "migration action: up, down, force, version")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps for up/down, target version for force")
	cmd.Flags().StringVar(&source, "path", "file://migrations", "migrations source url")

	return cmd
}
