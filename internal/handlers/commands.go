package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/knufflepuffle/lfg-bot/internal/repo"
	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/knufflepuffle/lfg-bot/internal/services/plotvote"
	"github.com/knufflepuffle/lfg-bot/internal/services/poll"
)

// Command is a chat message addressed to the bot.
type Command struct {
	ChannelID string
	UserID    string
	Content   string
}

type CommandHandler struct {
	log        *slog.Logger
	prefix     string
	polls      *poll.Controller
	votes      *plotvote.Controller
	plotPoints services.PlotPointProvider
	minPlayers int
	maxPlayers int
}

func NewCommandHandler(
	log *slog.Logger,
	prefix string,
	polls *poll.Controller,
	votes *plotvote.Controller,
	plotPoints services.PlotPointProvider,
	minPlayers, maxPlayers int,
) *CommandHandler {
	return &CommandHandler{
		log:        log,
		prefix:     prefix,
		polls:      polls,
		votes:      votes,
		plotPoints: plotPoints,
		minPlayers: minPlayers,
		maxPlayers: maxPlayers,
	}
}

// Handle runs a chat command and returns the reply for its author. It reports false
// when the message is not a known command. An empty reply means the command posted
// its own output.
func (h *CommandHandler) Handle(ctx context.Context, cmd Command) (string, bool) {
	name, args, ok := splitCommand(h.prefix, cmd.Content)
	if !ok {
		return "", false
	}

	var (
		reply string
		err   error
	)
	switch name {
	case "create_poll":
		reply, err = h.createPoll(ctx, cmd, args)
	case "set_gamemaster":
		reply, err = h.setGameMaster(ctx, cmd, args)
	case "suggest_dates":
		reply, err = h.suggestDates(ctx, cmd, args)
	case "end_poll":
		err = h.polls.EndPoll(ctx, cmd.UserID, cmd.ChannelID)
	case "cancel_poll":
		err = h.polls.CancelPoll(ctx, cmd.UserID, cmd.ChannelID)
	case "plot_vote":
		reply, err = h.plotVote(ctx, cmd, args)
	case "end_vote":
		_, err = h.votes.EndVote(ctx, cmd.UserID, cmd.ChannelID)
	case "help_lfg":
		reply = h.help()
	default:
		return "", false
	}

	if err != nil {
		return h.fail(name, cmd, err), true
	}
	return reply, true
}

func (h *CommandHandler) createPoll(ctx context.Context, cmd Command, args []string) (string, error) {
	if len(args) == 0 {
		return "", services.Invalid(fmt.Sprintf("usage: %screate_poll <plot point id> [min players] [max players]", h.prefix))
	}

	minPlayers, maxPlayers, err := parsePlayers(args[1:], h.minPlayers, h.maxPlayers)
	if err != nil {
		return "", err
	}

	plotPoint, err := h.plotPoints.GetPlotPointByID(ctx, args[0])
	if err != nil {
		if errors.Is(err, repo.ErrPlotPointNotFound) {
			return "", services.Invalid(fmt.Sprintf("plot point with ID %s not found", args[0]))
		}
		return "", err
	}

	_, err = h.polls.CreatePoll(ctx, poll.CreateRequest{
		ChannelID:    cmd.ChannelID,
		CreatorID:    cmd.UserID,
		SubjectID:    plotPoint.ID,
		SubjectTitle: plotPoint.Title,
		MinPlayers:   minPlayers,
		MaxPlayers:   maxPlayers,
		GameMasterID: cmd.UserID,
	})
	return "", err
}

func (h *CommandHandler) setGameMaster(ctx context.Context, cmd Command, args []string) (string, error) {
	if len(args) == 0 {
		return "", services.Invalid(fmt.Sprintf("usage: %sset_gamemaster @user", h.prefix))
	}
	gmID, ok := ParseMention(args[0])
	if !ok {
		return "", services.Invalid("mention the user who should become game master")
	}

	if err := h.polls.SetGameMaster(ctx, cmd.UserID, cmd.ChannelID, gmID); err != nil {
		return "", err
	}
	return poll.Mention(gmID) + " is now the game master.", nil
}

func (h *CommandHandler) suggestDates(ctx context.Context, cmd Command, args []string) (string, error) {
	dates, err := ParseDates(args, h.polls.Location())
	if err != nil {
		return "", err
	}

	added, err := h.polls.SuggestDates(ctx, cmd.UserID, cmd.ChannelID, dates)
	if err != nil {
		return "", err
	}
	if added == 0 {
		return "All of those dates are already part of the poll.", nil
	}
	return fmt.Sprintf("Added %d date(s) to the poll.", added), nil
}

func (h *CommandHandler) plotVote(ctx context.Context, cmd Command, args []string) (string, error) {
	duration, err := parseHours(args)
	if err != nil {
		return "", err
	}

	snap, err := h.votes.CreatePlotVote(ctx, cmd.UserID, cmd.ChannelID, duration)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Vote started for %d inactive plot points!", len(snap.Candidates)), nil
}

func (h *CommandHandler) help() string {
	p := h.prefix
	lines := []string{
		"# Plot Point LFG Bot Commands",
		"",
		fmt.Sprintf("**%screate_poll <ID> [min] [max]**", p),
		"Start a session poll for a plot point. Defaults: " + fmt.Sprintf("%d to %d players.", h.minPlayers, h.maxPlayers),
		fmt.Sprintf("**%sset_gamemaster @user**", p),
		"Make someone the game master of the running poll.",
		fmt.Sprintf("**%ssuggest_dates YYYY-MM-DD HH:MM [...]**", p),
		"Add more dates to the running poll.",
		fmt.Sprintf("**%send_poll** / **%scancel_poll**", p, p),
		"End the poll early with a summary, or drop it.",
		fmt.Sprintf("**%splot_vote [hours]**", p),
		"Vote on which inactive plot point to play next.",
		fmt.Sprintf("**%send_vote**", p),
		"End the running plot point vote.",
		fmt.Sprintf("**%shelp_lfg**", p),
		"Show this help message.",
	}
	return strings.Join(lines, "\n")
}

func (h *CommandHandler) fail(name string, cmd Command, err error) string {
	log := h.log.With(
		slog.String("command", name),
		slog.String("channelID", cmd.ChannelID),
		slog.String("userID", cmd.UserID),
	)

	switch {
	case errors.Is(err, services.ErrRemoteFailure):
		log.Warn("command failed", sl.Err(err))
	case isUserError(err):
		log.Debug("command rejected", sl.Err(err))
	default:
		log.Error("command failed", sl.Err(err))
	}
	return services.Notice(err)
}
