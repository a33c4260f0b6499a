package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	httpapp "github.com/knufflepuffle/lfg-bot/internal/app/http"
	"github.com/knufflepuffle/lfg-bot/internal/config"
	"github.com/knufflepuffle/lfg-bot/internal/discord"
	"github.com/knufflepuffle/lfg-bot/internal/handlers"
	"github.com/knufflepuffle/lfg-bot/internal/middleware"
	"github.com/knufflepuffle/lfg-bot/internal/repo/postgres"
	"github.com/knufflepuffle/lfg-bot/internal/routes"
	"github.com/knufflepuffle/lfg-bot/internal/services/plotvote"
	"github.com/knufflepuffle/lfg-bot/internal/services/poll"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const eventTimeout = 15 * time.Second

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.App
	Polls      *poll.Controller
	Votes      *plotvote.Controller
	bot        *discordgo.Session
	storage    *postgres.Storage
}

func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.NewApp"

	loc, err := cfg.Discord.Location()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bot, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	surface := discord.NewSurface(bot)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	polls := poll.NewController(log, poll.NewStore(), surface, storage, storage, reg, poll.Options{
		Duration:     cfg.Poll.Duration,
		DefaultWeeks: cfg.Poll.DefaultWeeks,
		Location:     loc,
	})
	votes := plotvote.NewController(log, plotvote.NewStore(), surface, storage, storage, reg, plotvote.Options{
		Duration: cfg.Vote.Duration,
		Location: loc,
	})

	commands := handlers.NewCommandHandler(log, cfg.Discord.Prefix, polls, votes, storage, cfg.Poll.DefaultMinPlayers, cfg.Poll.DefaultMaxPlayers)
	interactions := handlers.NewInteractionHandler(log, polls, votes)
	routes.RegisterBotHandlers(bot, log, commands, interactions, eventTimeout)

	status := handlers.NewStatusHandler(log, polls, votes, storage)
	login := handlers.NewAuthHandler(log, cfg.HTTP.AdminPasswordHash, cfg.HTTP.JWTSecret, cfg.HTTP.TokenTTL)
	authMiddleware := middleware.NewAuthMiddleware(log, cfg.HTTP.JWTSecret)
	httpApp := httpapp.NewApp(log, cfg.HTTP.Port, status, login, authMiddleware.Middleware(), reg)

	return &App{
		log:        log,
		HTTPServer: httpApp,
		Polls:      polls,
		Votes:      votes,
		bot:        bot,
		storage:    storage,
	}, nil
}

// Start checks the database and opens the gateway connection.
func (a *App) Start(ctx context.Context) error {
	const op = "app.App.Start"

	if err := a.storage.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := a.bot.Open(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Stop halts the timers before closing the connections their callbacks use.
func (a *App) Stop(ctx context.Context) error {
	a.Polls.Close()
	a.Votes.Close()

	return errors.Join(
		a.HTTPServer.Stop(ctx),
		a.bot.Close(),
		a.storage.Close(),
	)
}
