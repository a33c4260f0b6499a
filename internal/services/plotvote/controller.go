package plotvote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/google/uuid"
	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultDuration        = 48 * time.Hour
	defaultCallbackTimeout = 30 * time.Second
)

type Options struct {
	// Duration is used when CreatePlotVote is given no duration.
	Duration        time.Duration
	Location        *time.Location
	Now             func() time.Time
	CallbackTimeout time.Duration
}

// Controller runs plot point votes, one per channel.
type Controller struct {
	log        *slog.Logger
	store      *Store
	surface    services.Surface
	plotPoints services.PlotPointProvider
	logs       services.LogStorage
	metrics    *metrics
	opts       Options

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func NewController(
	log *slog.Logger,
	store *Store,
	surface services.Surface,
	plotPoints services.PlotPointProvider,
	logs services.LogStorage,
	promRegistry prometheus.Registerer,
	opts Options,
) *Controller {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CallbackTimeout <= 0 {
		opts.CallbackTimeout = defaultCallbackTimeout
	}

	return &Controller{
		log:        log,
		store:      store,
		surface:    surface,
		plotPoints: plotPoints,
		logs:       logs,
		metrics:    newMetrics(promRegistry),
		opts:       opts,
		timers:     make(map[string]*time.Timer),
	}
}

// CreatePlotVote starts a vote over every inactive plot point.
func (c *Controller) CreatePlotVote(ctx context.Context, actorID, channelID string, duration time.Duration) (Snapshot, error) {
	const op = "plotvote.Controller.CreatePlotVote"

	log := c.log.With(slog.String("op", op), slog.String("channelID", channelID))

	if _, ok := c.store.Get(channelID); ok {
		return Snapshot{}, fmt.Errorf("%s: %w", op, services.ErrConflict)
	}
	if duration <= 0 {
		duration = c.opts.Duration
	}

	candidates, err := c.plotPoints.GetPlotPointsByStatus(ctx, entity.PlotPointStatusInactive)
	if err != nil {
		log.Error("failed to load inactive plot points", sl.Err(err))
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(candidates) == 0 {
		return Snapshot{}, fmt.Errorf("%s: %w", op, services.Invalid("there are no inactive plot points to vote on"))
	}

	now := c.opts.Now()
	v := &Vote{
		id:         uuid.NewString(),
		channelID:  channelID,
		createdBy:  actorID,
		candidates: candidates,
		ballots:    make(map[string]string),
		startAt:    now,
		endAt:      now.Add(duration),
		open:       true,
	}

	if err := c.store.Create(v); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	snap := v.Snapshot()
	messageID, err := c.surface.Send(ctx, channelID, VoteMessage(snap))
	if err != nil {
		c.store.RemoveIf(channelID, v.id)
		log.Error("failed to post vote", sl.Err(err))
		return Snapshot{}, fmt.Errorf("%s: %w: %w", op, services.ErrRemoteFailure, err)
	}

	resultsID, err := c.surface.Send(ctx, channelID, ResultsMessage(snap, c.opts.Location))
	if err != nil {
		log.Warn("failed to post vote results", sl.Err(err))
	}
	controlID, err := c.surface.Send(ctx, channelID, EndControlMessage())
	if err != nil {
		log.Warn("failed to post end vote control", sl.Err(err))
	}
	v.setMessages(messageID, resultsID, controlID)

	c.schedule(v, duration)
	c.metrics.created.Inc()
	c.metrics.active.Inc()
	c.saveLog(ctx, channelID, actorID, op, "")

	log.Info("plot vote started", slog.String("voteID", v.id), slog.Int("candidates", len(candidates)))

	return v.Snapshot(), nil
}

// CastVote records userID's choice, replacing any earlier one.
func (c *Controller) CastVote(ctx context.Context, userID, channelID, plotID string) error {
	const op = "plotvote.Controller.CastVote"

	v, ok := c.store.Get(channelID)
	if !ok {
		return fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	if _, err := v.cast(userID, plotID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.metrics.ballots.Inc()
	c.refresh(ctx, v)
	c.saveLog(ctx, channelID, userID, op, plotID)

	return nil
}

// EndVote closes the vote early and announces the outcome. Only the vote's creator
// or an admin may do it; the expiry timer goes through Expire.
func (c *Controller) EndVote(ctx context.Context, actorID, channelID string) (Outcome, error) {
	const op = "plotvote.Controller.EndVote"

	v, ok := c.store.Get(channelID)
	if !ok {
		return Outcome{}, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	if err := c.authorize(ctx, v.Snapshot(), actorID); err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	out, ok := c.end(ctx, v, actorID, true)
	if !ok {
		return Outcome{}, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}
	return out, nil
}

// Expire is the timer path; it ignores votes that were replaced or already ended.
func (c *Controller) Expire(ctx context.Context, channelID, voteID string) {
	const op = "plotvote.Controller.Expire"

	v, ok := c.store.Get(channelID)
	if !ok || v.ID() != voteID {
		c.log.Debug("ignoring expiry of a vote that is gone",
			slog.String("op", op),
			slog.String("channelID", channelID),
			slog.String("voteID", voteID),
		)
		c.unschedule(voteID)
		return
	}

	c.end(ctx, v, "", false)
}

func (c *Controller) end(ctx context.Context, v *Vote, actorID string, forced bool) (Outcome, bool) {
	const op = "plotvote.Controller.end"

	snap, ok := v.close()
	if !ok {
		return Outcome{}, false
	}

	log := c.log.With(slog.String("op", op), slog.String("channelID", snap.ChannelID))

	c.store.RemoveIf(snap.ChannelID, snap.ID)
	c.unschedule(snap.ID)

	out := snap.Outcome(forced)
	c.metrics.voteEnded(out)

	if snap.MessageID != "" {
		if err := c.surface.Edit(ctx, snap.ChannelID, snap.MessageID, ClosedVoteMessage(snap)); err != nil {
			log.Warn("failed to close vote message", sl.Err(err))
		}
	}
	if snap.ControlID != "" {
		if err := c.surface.Delete(ctx, snap.ChannelID, snap.ControlID); err != nil {
			log.Warn("failed to remove end vote control", sl.Err(err))
		}
	}
	if _, err := c.surface.Send(ctx, snap.ChannelID, OutcomeMessage(out)); err != nil {
		log.Error("failed to announce vote outcome", sl.Err(err))
	}

	c.saveLog(ctx, snap.ChannelID, actorID, op, "")
	log.Info("plot vote ended",
		slog.String("voteID", snap.ID),
		slog.Int("ballots", out.TotalVotes),
		slog.Int("winners", len(out.Winners)),
		slog.Bool("forced", forced),
	)

	return out, true
}

func (c *Controller) Snapshot(channelID string) (Snapshot, bool) {
	v, ok := c.store.Get(channelID)
	if !ok {
		return Snapshot{}, false
	}
	return v.Snapshot(), true
}

func (c *Controller) Active() []Snapshot {
	votes := c.store.List()
	snaps := make([]Snapshot, 0, len(votes))
	for _, v := range votes {
		snaps = append(snaps, v.Snapshot())
	}
	return snaps
}

// Close stops every pending end-of-vote timer.
func (c *Controller) Close() {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}

func (c *Controller) authorize(ctx context.Context, s Snapshot, actorID string) error {
	if actorID != "" && actorID == s.CreatedBy {
		return nil
	}
	isAdmin, err := c.surface.IsAdmin(ctx, s.ChannelID, actorID)
	if err != nil {
		return fmt.Errorf("failed to check admin rights: %w: %w", services.ErrRemoteFailure, err)
	}
	if !isAdmin {
		return services.ErrUnauthorized
	}
	return nil
}

// refresh redraws the results message; a vanished message is posted again.
func (c *Controller) refresh(ctx context.Context, v *Vote) {
	const op = "plotvote.Controller.refresh"

	v.renderMu.Lock()
	defer v.renderMu.Unlock()

	snap := v.Snapshot()
	if !snap.Open {
		return
	}

	log := c.log.With(slog.String("op", op), slog.String("channelID", snap.ChannelID))
	msg := ResultsMessage(snap, c.opts.Location)

	if snap.ResultsID != "" {
		err := c.surface.Fetch(ctx, snap.ChannelID, snap.ResultsID)
		if err == nil {
			if err := c.surface.Edit(ctx, snap.ChannelID, snap.ResultsID, msg); err != nil {
				log.Error("failed to update vote results", sl.Err(err))
			}
			return
		}
		if !errors.Is(err, services.ErrNotFound) {
			log.Warn("failed to fetch vote results", sl.Err(err))
			return
		}
	}

	id, err := c.surface.Send(ctx, snap.ChannelID, msg)
	if err != nil {
		log.Error("failed to post vote results", sl.Err(err))
		return
	}
	v.setResultsID(id)
}

func (c *Controller) schedule(v *Vote, d time.Duration) {
	channelID, voteID := v.channelID, v.id

	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	c.timers[voteID] = time.AfterFunc(d, func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.CallbackTimeout)
		defer cancel()
		c.Expire(ctx, channelID, voteID)
	})
}

func (c *Controller) unschedule(voteID string) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	if t, ok := c.timers[voteID]; ok {
		t.Stop()
		delete(c.timers, voteID)
	}
}

func (c *Controller) pendingTimers() int {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	return len(c.timers)
}

func (c *Controller) saveLog(ctx context.Context, channelID, userID, action, subjectID string) {
	log := &entity.Log{
		ChannelID: channelID,
		UserID:    userID,
		Action:    action,
	}
	if subjectID != "" {
		log.SubjectID = &subjectID
	}

	if _, err := c.logs.SaveLog(ctx, log); err != nil {
		c.log.Warn("failed to save action log", slog.String("action", action), sl.Err(err))
	}
}
