package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/knufflepuffle/lfg-bot/internal/discord"
	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/knufflepuffle/lfg-bot/internal/services/plotvote"
	"github.com/knufflepuffle/lfg-bot/internal/services/poll"
	"github.com/knufflepuffle/lfg-bot/internal/services/schedule"
)

// Interaction is a button press or select menu submission.
type Interaction struct {
	ChannelID string
	UserID    string
	CustomID  string
	Values    []string
}

// Response is shown only to the acting user. With Update set it replaces the
// message the component belongs to. Nil Components leave the existing ones alone;
// an empty slice removes them.
type Response struct {
	Content    string
	Components []discordgo.MessageComponent
	Update     bool
}

type InteractionHandler struct {
	log   *slog.Logger
	polls *poll.Controller
	votes *plotvote.Controller
}

func NewInteractionHandler(log *slog.Logger, polls *poll.Controller, votes *plotvote.Controller) *InteractionHandler {
	return &InteractionHandler{
		log:   log,
		polls: polls,
		votes: votes,
	}
}

// UpdatesMessage reports whether customID answers by editing its own message
// rather than with a new one.
func UpdatesMessage(customID string) bool {
	switch customID {
	case discord.IDPollFinalizeDate, discord.IDPollCancelConfirm, discord.IDPollCancelAbort:
		return true
	}
	return strings.HasPrefix(customID, discord.IDPollDatesPrefix)
}

// Handle dispatches a component interaction. It reports false for custom ids it
// does not own.
func (h *InteractionHandler) Handle(ctx context.Context, in Interaction) (Response, bool) {
	var (
		resp Response
		err  error
	)

	switch {
	case in.CustomID == discord.IDPollAvailability:
		resp, err = h.availability(in)
	case strings.HasPrefix(in.CustomID, discord.IDPollDatesPrefix):
		resp, err = h.selectDates(ctx, in)
	case in.CustomID == discord.IDPollFinalize:
		resp, err = h.finalize(ctx, in)
	case in.CustomID == discord.IDPollFinalizeDate:
		resp, err = h.finalizeDate(ctx, in)
	case in.CustomID == discord.IDPollCancel:
		resp, err = h.cancel(ctx, in)
	case in.CustomID == discord.IDPollCancelConfirm:
		resp, err = h.cancelConfirm(ctx, in)
	case in.CustomID == discord.IDPollCancelAbort:
		resp = Response{Content: "The poll stays open.", Components: []discordgo.MessageComponent{}}
	case strings.HasPrefix(in.CustomID, discord.IDVoteSelectPrefix):
		resp, err = h.castVote(ctx, in)
	case in.CustomID == discord.IDVoteEnd:
		resp, err = h.endVote(ctx, in)
	default:
		return Response{}, false
	}

	if err != nil {
		resp = Response{Content: h.fail(in, err)}
	}
	resp.Update = UpdatesMessage(in.CustomID)
	return resp, true
}

func (h *InteractionHandler) availability(in Interaction) (Response, error) {
	choices, err := h.polls.DateChoices(in.ChannelID, in.UserID)
	if err != nil {
		return Response{}, err
	}
	if len(choices) == 0 {
		if snap, ok := h.polls.Snapshot(in.ChannelID); ok {
			if notice, ok := poll.GMNoDatesNotice(snap, in.UserID); ok {
				return Response{Content: notice}, nil
			}
		}
		return Response{Content: "There are no dates to choose from yet."}, nil
	}

	return Response{
		Content:    withHidden("Select every date you can attend. Leave a menu empty to clear it.", len(choices)),
		Components: discord.DatePicker(choices),
	}, nil
}

func (h *InteractionHandler) selectDates(ctx context.Context, in Interaction) (Response, error) {
	pageIdx, ok := discord.PageIndex(in.CustomID, discord.IDPollDatesPrefix)
	if !ok {
		return Response{}, services.Invalid("unknown date menu")
	}

	snap, ok := h.polls.Snapshot(in.ChannelID)
	if !ok {
		return Response{}, services.ErrNotFound
	}
	choices, err := h.polls.DateChoices(in.ChannelID, in.UserID)
	if err != nil {
		return Response{}, err
	}

	pages := poll.Paginate(len(choices), poll.SelectPageSize)
	if pageIdx >= len(pages) {
		return Response{}, services.Invalid("the list of dates changed, open the date picker again")
	}
	page := pages[pageIdx]

	pageDates := make([]time.Time, 0, page.End-page.Start)
	for _, c := range choices[page.Start:page.End] {
		pageDates = append(pageDates, c.Date)
	}

	selected := make([]time.Time, 0, len(in.Values))
	for _, v := range in.Values {
		d, err := schedule.ParseDateKey(v)
		if err != nil {
			return Response{}, services.Invalid("unknown date " + v)
		}
		selected = append(selected, d)
	}

	merged := poll.MergePageSelection(snap.AvailableDates(in.UserID), pageDates, selected)
	if _, err := h.polls.RegisterAvailability(ctx, in.UserID, in.ChannelID, merged); err != nil {
		return Response{}, err
	}

	refreshed, err := h.polls.DateChoices(in.ChannelID, in.UserID)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Content:    withHidden(fmt.Sprintf("Your availability was saved: %d date(s).", len(merged)), len(refreshed)),
		Components: discord.DatePicker(refreshed),
	}, nil
}

func (h *InteractionHandler) finalize(ctx context.Context, in Interaction) (Response, error) {
	choices, err := h.polls.FinalizeChoices(ctx, in.UserID, in.ChannelID)
	if err != nil {
		return Response{}, err
	}
	if len(choices) == 0 {
		snap, _ := h.polls.Snapshot(in.ChannelID)
		if notice, ok := poll.GMNoDatesNotice(snap, ""); ok {
			return Response{Content: notice}, nil
		}
		return Response{Content: fmt.Sprintf("No date has reached the minimum of %d players yet.", snap.MinPlayers)}, nil
	}

	return Response{
		Content:    "Which date should the session take place on?",
		Components: discord.FinalizePicker(choices),
	}, nil
}

func (h *InteractionHandler) finalizeDate(ctx context.Context, in Interaction) (Response, error) {
	if len(in.Values) != 1 {
		return Response{}, services.Invalid("pick exactly one date")
	}
	date, err := schedule.ParseDateKey(in.Values[0])
	if err != nil {
		return Response{}, services.Invalid("unknown date " + in.Values[0])
	}

	conf, err := h.polls.FinalizeSession(ctx, in.UserID, in.ChannelID, date)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Content:    "Session scheduled for " + poll.FormatLong(conf.Date, h.polls.Location()) + ".",
		Components: []discordgo.MessageComponent{},
	}, nil
}

func (h *InteractionHandler) cancel(ctx context.Context, in Interaction) (Response, error) {
	if err := h.polls.AuthorizeCancel(ctx, in.UserID, in.ChannelID); err != nil {
		return Response{}, err
	}

	return Response{
		Content:    "Do you really want to cancel this poll?",
		Components: discord.CancelConfirm(),
	}, nil
}

func (h *InteractionHandler) cancelConfirm(ctx context.Context, in Interaction) (Response, error) {
	if err := h.polls.CancelPoll(ctx, in.UserID, in.ChannelID); err != nil {
		return Response{}, err
	}
	return Response{Content: "The poll was cancelled.", Components: []discordgo.MessageComponent{}}, nil
}

func (h *InteractionHandler) castVote(ctx context.Context, in Interaction) (Response, error) {
	if len(in.Values) != 1 {
		return Response{}, services.Invalid("pick exactly one plot point")
	}
	plotID := in.Values[0]

	if err := h.votes.CastVote(ctx, in.UserID, in.ChannelID, plotID); err != nil {
		return Response{}, err
	}

	title := plotID
	if snap, ok := h.votes.Snapshot(in.ChannelID); ok {
		for _, c := range snap.Candidates {
			if c.ID == plotID {
				title = c.Title
				break
			}
		}
	}
	return Response{Content: fmt.Sprintf("Your vote for **%s** was recorded.", title)}, nil
}

func (h *InteractionHandler) endVote(ctx context.Context, in Interaction) (Response, error) {
	if _, err := h.votes.EndVote(ctx, in.UserID, in.ChannelID); err != nil {
		return Response{}, err
	}
	return Response{Content: "The vote was ended."}, nil
}

func (h *InteractionHandler) fail(in Interaction, err error) string {
	log := h.log.With(
		slog.String("customID", in.CustomID),
		slog.String("channelID", in.ChannelID),
		slog.String("userID", in.UserID),
	)

	switch {
	case errors.Is(err, services.ErrRemoteFailure):
		log.Warn("interaction failed", sl.Err(err))
	case isUserError(err):
		log.Debug("interaction rejected", sl.Err(err))
	default:
		log.Error("interaction failed", sl.Err(err))
	}
	return services.Notice(err)
}

func isUserError(err error) bool {
	for _, target := range []error{
		services.ErrInvalidInput,
		services.ErrUnauthorized,
		services.ErrNotFound,
		services.ErrConflict,
		services.ErrThresholdNotMet,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// withHidden appends a note when the date picker cannot show every date.
func withHidden(content string, total int) string {
	hidden := discord.Hidden(total)
	if hidden == 0 {
		return content
	}
	return fmt.Sprintf("%s\nOnly the first %d dates fit in the picker, %d later date(s) are not shown.",
		content, discord.MaxSelectOptions, hidden)
}
