package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/google/uuid"
	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/knufflepuffle/lfg-bot/internal/services/schedule"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultDuration        = 72 * time.Hour
	DefaultMinPlayers      = 2
	DefaultMaxPlayers      = 6
	defaultCallbackTimeout = 30 * time.Second
)

type Options struct {
	// Duration is how long a poll stays open before it expires.
	Duration time.Duration
	// DefaultWeeks is the proposal window used when no dates are given.
	DefaultWeeks int
	// Location is the canonical zone candidate dates are generated and shown in.
	Location *time.Location
	Now      func() time.Time
	// CallbackTimeout bounds the remote calls made when a poll expires.
	CallbackTimeout time.Duration
}

type CreateRequest struct {
	ChannelID    string
	CreatorID    string
	SubjectID    string
	SubjectTitle string
	MinPlayers   int
	MaxPlayers   int
	GameMasterID string
	// Dates overrides the generated proposals when not nil.
	Dates []time.Time
}

// DateChoice is one option of a date picker.
type DateChoice struct {
	Date      time.Time
	Label     string
	Headcount int
	Selected  bool
}

type role int

const (
	roleCreator role = 1 << iota
	roleGM
	roleAdmin
)

// Controller drives the poll lifecycle. Every exported method is safe for concurrent
// use; state is changed fully before any remote call is made.
type Controller struct {
	log      *slog.Logger
	store    *Store
	surface  services.Surface
	sessions services.SessionStorage
	logs     services.LogStorage
	metrics  *metrics
	opts     Options

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func NewController(
	log *slog.Logger,
	store *Store,
	surface services.Surface,
	sessions services.SessionStorage,
	logs services.LogStorage,
	promRegistry prometheus.Registerer,
	opts Options,
) *Controller {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.DefaultWeeks <= 0 {
		opts.DefaultWeeks = schedule.DefaultWeeks
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
		log:      log,
		store:    store,
		surface:  surface,
		sessions: sessions,
		logs:     logs,
		metrics:  newMetrics(promRegistry),
		opts:     opts,
		timers:   make(map[string]*time.Timer),
	}
}

func (c *Controller) Location() *time.Location {
	return c.opts.Location
}

// CreatePoll opens a poll in the request's channel, posts it and schedules its expiry.
func (c *Controller) CreatePoll(ctx context.Context, req CreateRequest) (Snapshot, error) {
	const op = "poll.Controller.CreatePoll"

	log := c.log.With(slog.String("op", op), slog.String("channelID", req.ChannelID))

	if req.ChannelID == "" || req.SubjectID == "" {
		return Snapshot{}, fmt.Errorf("%s: %w", op, services.Invalid("a poll needs a channel and a plot point"))
	}

	minPlayers, maxPlayers := ClampPlayers(req.MinPlayers, req.MaxPlayers)

	now := c.opts.Now().In(c.opts.Location)
	dates := req.Dates
	if dates == nil {
		dates = schedule.GenerateCandidateDates(now, c.opts.DefaultWeeks)
	} else {
		dates = normalizeDates(dates, c.opts.Location)
	}

	p := &Poll{
		id:           uuid.NewString(),
		channelID:    req.ChannelID,
		subjectID:    req.SubjectID,
		subjectTitle: req.SubjectTitle,
		minPlayers:   minPlayers,
		maxPlayers:   maxPlayers,
		gameMasterID: req.GameMasterID,
		candidates:   dates,
		availability: make(map[string]map[string]bool),
		createdAt:    now,
		endAt:        now.Add(c.opts.Duration),
		createdBy:    req.CreatorID,
		state:        StateOpen,
	}

	if err := c.store.Create(p); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	// the poll is reachable from the store from here on, so its timer and gauge
	// are set up before the first remote call
	c.metrics.active.Inc()
	c.schedule(p, c.opts.Duration)

	snap := p.Snapshot()
	messageID, err := c.surface.Send(ctx, req.ChannelID, PollMessage(snap, c.opts.Location))
	if err != nil {
		if _, ok := p.terminate(StateCancelled); ok {
			c.store.RemoveIf(req.ChannelID, p.id)
			c.metrics.active.Dec()
		}
		c.unschedule(p.id)
		log.Error("failed to post poll", sl.Err(err))
		return Snapshot{}, fmt.Errorf("%s: %w: %w", op, services.ErrRemoteFailure, err)
	}
	p.setMessageID(messageID)
	c.metrics.created.Inc()

	// closed by a concurrent cancel, finalize or expiry while the message was in flight
	if p.Snapshot().State != StateOpen {
		c.closeMessage(ctx, p)
		c.unschedule(p.id)
		log.Info("poll closed before it was posted", slog.String("pollID", p.id))
		return Snapshot{}, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	if req.GameMasterID != "" {
		if _, err := c.surface.Send(ctx, req.ChannelID, GameMasterPing(req.GameMasterID)); err != nil {
			log.Warn("failed to ping game master", sl.Err(err))
		}
	}

	c.saveLog(ctx, req.ChannelID, req.CreatorID, op, req.SubjectID)

	log.Info("poll created",
		slog.String("pollID", p.id),
		slog.String("subjectID", req.SubjectID),
		slog.Int("candidates", len(dates)),
	)

	return p.Snapshot(), nil
}

// RegisterAvailability replaces the user's availability row. It reports false when
// the channel has no open poll.
func (c *Controller) RegisterAvailability(ctx context.Context, userID, channelID string, dates []time.Time) (bool, error) {
	const op = "poll.Controller.RegisterAvailability"

	p, ok := c.store.Get(channelID)
	if !ok {
		return false, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	snap, err := p.register(userID, dates)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	c.metrics.registrations.Inc()
	c.refresh(ctx, p)
	c.saveLog(ctx, channelID, userID, op, snap.SubjectID)

	return true, nil
}

// SetGameMaster hands the game master role to gmID. Earlier availability rows stay.
func (c *Controller) SetGameMaster(ctx context.Context, actorID, channelID, gmID string) error {
	const op = "poll.Controller.SetGameMaster"

	p, ok := c.store.Get(channelID)
	if !ok {
		return fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}
	if gmID == "" {
		return fmt.Errorf("%s: %w", op, services.Invalid("name a user to become game master"))
	}

	if err := c.authorize(ctx, p.Snapshot(), actorID, roleCreator|roleAdmin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	snap, err := p.setGameMaster(gmID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.refresh(ctx, p)
	c.saveLog(ctx, channelID, actorID, op, snap.SubjectID)

	return nil
}

// SuggestDates appends dates to the poll. New dates go after the existing ones and
// are not re-sorted.
func (c *Controller) SuggestDates(ctx context.Context, actorID, channelID string, dates []time.Time) (int, error) {
	const op = "poll.Controller.SuggestDates"

	p, ok := c.store.Get(channelID)
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}
	if len(dates) == 0 {
		return 0, fmt.Errorf("%s: %w", op, services.Invalid("give at least one date as YYYY-MM-DD HH:MM"))
	}

	if err := c.authorize(ctx, p.Snapshot(), actorID, roleCreator|roleGM|roleAdmin); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	in := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		in = append(in, d.In(c.opts.Location))
	}

	added, snap, err := p.appendDates(in)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if added > 0 {
		c.refresh(ctx, p)
		c.saveLog(ctx, channelID, actorID, op, snap.SubjectID)
	}

	return added, nil
}

// FinalizeSession commits the poll to date and closes it.
func (c *Controller) FinalizeSession(ctx context.Context, actorID, channelID string, date time.Time) (Confirmation, error) {
	const op = "poll.Controller.FinalizeSession"

	log := c.log.With(slog.String("op", op), slog.String("channelID", channelID))

	p, ok := c.store.Get(channelID)
	if !ok {
		return Confirmation{}, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	if err := c.authorize(ctx, p.Snapshot(), actorID, roleGM|roleCreator|roleAdmin); err != nil {
		return Confirmation{}, fmt.Errorf("%s: %w", op, err)
	}

	snap, err := p.finalize(date)
	if err != nil {
		return Confirmation{}, fmt.Errorf("%s: %w", op, err)
	}

	c.store.RemoveIf(channelID, snap.ID)
	c.unschedule(snap.ID)
	c.metrics.pollClosed(StateFinalized)

	chosen := snap.candidate(date)
	conf := Confirmation{
		SubjectID:    snap.SubjectID,
		SubjectTitle: snap.SubjectTitle,
		Date:         chosen,
		GameMasterID: snap.GameMasterID,
		Participants: snap.AvailableUsers(chosen),
	}

	c.closeMessage(ctx, p)

	if _, err := c.surface.Send(ctx, channelID, ConfirmationMessage(conf, c.opts.Location)); err != nil {
		log.Error("failed to post session confirmation", sl.Err(err))
	}
	if msg, ok := MentionsMessage(conf, c.opts.Location); ok {
		if _, err := c.surface.Send(ctx, channelID, msg); err != nil {
			log.Warn("failed to mention participants", sl.Err(err))
		}
	}

	c.saveSession(ctx, channelID, conf)
	c.saveLog(ctx, channelID, actorID, op, snap.SubjectID)

	log.Info("session finalized",
		slog.String("pollID", snap.ID),
		slog.Time("date", chosen),
		slog.Int("participants", len(conf.Participants)),
	)

	return conf, nil
}

// CancelPoll drops the channel's poll without a result.
func (c *Controller) CancelPoll(ctx context.Context, actorID, channelID string) error {
	const op = "poll.Controller.CancelPoll"

	log := c.log.With(slog.String("op", op), slog.String("channelID", channelID))

	p, ok := c.store.Get(channelID)
	if !ok {
		return fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	if err := c.authorize(ctx, p.Snapshot(), actorID, roleCreator|roleAdmin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	snap, ok := p.terminate(StateCancelled)
	if !ok {
		return fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	c.store.RemoveIf(channelID, snap.ID)
	c.unschedule(snap.ID)
	c.metrics.pollClosed(StateCancelled)

	c.closeMessage(ctx, p)
	if _, err := c.surface.Send(ctx, channelID, CancelledMessage()); err != nil {
		log.Warn("failed to announce cancellation", sl.Err(err))
	}

	c.saveLog(ctx, channelID, actorID, op, snap.SubjectID)
	log.Info("poll cancelled", slog.String("pollID", snap.ID))

	return nil
}

// EndPoll closes the poll early with the same summary an expiry produces.
func (c *Controller) EndPoll(ctx context.Context, actorID, channelID string) error {
	const op = "poll.Controller.EndPoll"

	p, ok := c.store.Get(channelID)
	if !ok {
		return fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	if err := c.authorize(ctx, p.Snapshot(), actorID, roleCreator|roleGM|roleAdmin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !c.end(ctx, p, actorID, true) {
		return fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}
	return nil
}

// Expire is the timer path. It only acts if the channel still holds the poll
// instance pollID; a late or stale timer is a no-op.
func (c *Controller) Expire(ctx context.Context, channelID, pollID string) {
	const op = "poll.Controller.Expire"

	p, ok := c.store.Get(channelID)
	if !ok || p.ID() != pollID {
		c.log.Debug("ignoring expiry of a poll that is gone",
			slog.String("op", op),
			slog.String("channelID", channelID),
			slog.String("pollID", pollID),
		)
		c.unschedule(pollID)
		return
	}

	c.end(ctx, p, "", false)
}

func (c *Controller) end(ctx context.Context, p *Poll, actorID string, forced bool) bool {
	const op = "poll.Controller.end"

	snap, ok := p.terminate(StateExpired)
	if !ok {
		return false
	}

	log := c.log.With(slog.String("op", op), slog.String("channelID", snap.ChannelID))

	c.store.RemoveIf(snap.ChannelID, snap.ID)
	c.unschedule(snap.ID)
	c.metrics.pollClosed(StateExpired)

	c.closeMessage(ctx, p)
	if _, err := c.surface.Send(ctx, snap.ChannelID, SummaryMessage(snap, c.opts.Location, forced)); err != nil {
		log.Warn("failed to post poll summary", sl.Err(err))
	}

	c.saveLog(ctx, snap.ChannelID, actorID, op, snap.SubjectID)
	log.Info("poll ended", slog.String("pollID", snap.ID), slog.Bool("forced", forced))

	return true
}

// DateChoices lists the dates userID may pick from, with their current selection.
func (c *Controller) DateChoices(channelID, userID string) ([]DateChoice, error) {
	const op = "poll.Controller.DateChoices"

	p, ok := c.store.Get(channelID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	snap := p.Snapshot()
	row := snap.Availability[userID]

	visible := snap.VisibleDates(userID)
	choices := make([]DateChoice, 0, len(visible))
	for _, d := range visible {
		choices = append(choices, DateChoice{
			Date:      d,
			Label:     FormatShort(d, c.opts.Location),
			Headcount: snap.Headcount(d),
			Selected:  row[schedule.DateKey(d)],
		})
	}
	return choices, nil
}

// FinalizeChoices lists the dates that can be finalized, busiest first.
func (c *Controller) FinalizeChoices(ctx context.Context, actorID, channelID string) ([]DateChoice, error) {
	const op = "poll.Controller.FinalizeChoices"

	p, ok := c.store.Get(channelID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}

	snap := p.Snapshot()
	if err := c.authorize(ctx, snap, actorID, roleGM|roleCreator|roleAdmin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	choices := make([]DateChoice, 0)
	for _, d := range snap.VisibleDates("") {
		count := snap.Headcount(d)
		if count < snap.MinPlayers {
			continue
		}
		choices = append(choices, DateChoice{Date: d, Label: FormatShort(d, c.opts.Location), Headcount: count})
	}
	sort.SliceStable(choices, func(i, j int) bool { return choices[i].Headcount > choices[j].Headcount })

	return choices, nil
}

// AuthorizeCancel checks the cancel permission without cancelling, for the
// confirmation step.
func (c *Controller) AuthorizeCancel(ctx context.Context, actorID, channelID string) error {
	const op = "poll.Controller.AuthorizeCancel"

	p, ok := c.store.Get(channelID)
	if !ok {
		return fmt.Errorf("%s: %w", op, services.ErrNotFound)
	}
	if err := c.authorize(ctx, p.Snapshot(), actorID, roleCreator|roleAdmin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Controller) Snapshot(channelID string) (Snapshot, bool) {
	p, ok := c.store.Get(channelID)
	if !ok {
		return Snapshot{}, false
	}
	return p.Snapshot(), true
}

func (c *Controller) Active() []Snapshot {
	polls := c.store.List()
	snaps := make([]Snapshot, 0, len(polls))
	for _, p := range polls {
		snaps = append(snaps, p.Snapshot())
	}
	return snaps
}

// Close stops every pending expiry timer.
func (c *Controller) Close() {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}

func (c *Controller) authorize(ctx context.Context, s Snapshot, actorID string, roles role) error {
	if roles&roleCreator != 0 && actorID != "" && actorID == s.CreatedBy {
		return nil
	}
	if roles&roleGM != 0 && s.GameMasterID != "" && actorID == s.GameMasterID {
		return nil
	}
	if roles&roleAdmin != 0 {
		isAdmin, err := c.surface.IsAdmin(ctx, s.ChannelID, actorID)
		if err != nil {
			return fmt.Errorf("failed to check admin rights: %w: %w", services.ErrRemoteFailure, err)
		}
		if isAdmin {
			return nil
		}
	}
	return services.ErrUnauthorized
}

// refresh redraws the poll message from the latest state. Failures are logged only;
// the poll itself is already up to date.
func (c *Controller) refresh(ctx context.Context, p *Poll) {
	const op = "poll.Controller.refresh"

	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	snap := p.Snapshot()
	if snap.State != StateOpen || snap.MessageID == "" {
		return
	}

	log := c.log.With(slog.String("op", op), slog.String("channelID", snap.ChannelID))

	if err := c.surface.Fetch(ctx, snap.ChannelID, snap.MessageID); err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			log.Warn("failed to fetch poll message", sl.Err(err))
			return
		}

		log.Warn("poll message is gone, posting it again")
		id, err := c.surface.Send(ctx, snap.ChannelID, PollMessage(snap, c.opts.Location))
		if err != nil {
			log.Error("failed to repost poll message", sl.Err(err))
			return
		}
		p.setMessageID(id)
		return
	}

	if err := c.surface.Edit(ctx, snap.ChannelID, snap.MessageID, PollMessage(snap, c.opts.Location)); err != nil {
		log.Error("failed to update poll message", sl.Err(err))
	}
}

func (c *Controller) closeMessage(ctx context.Context, p *Poll) {
	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	snap := p.Snapshot()
	if snap.MessageID == "" {
		return
	}
	if err := c.surface.Edit(ctx, snap.ChannelID, snap.MessageID, ClosedPollMessage(snap, c.opts.Location)); err != nil {
		c.log.Warn("failed to close poll message", slog.String("channelID", snap.ChannelID), sl.Err(err))
	}
}

func (c *Controller) schedule(p *Poll, d time.Duration) {
	channelID, pollID := p.channelID, p.id

	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	c.timers[pollID] = time.AfterFunc(d, func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.CallbackTimeout)
		defer cancel()
		c.Expire(ctx, channelID, pollID)
	})
}

func (c *Controller) unschedule(pollID string) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	if t, ok := c.timers[pollID]; ok {
		t.Stop()
		delete(c.timers, pollID)
	}
}

func (c *Controller) pendingTimers() int {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()

	return len(c.timers)
}

func (c *Controller) saveSession(ctx context.Context, channelID string, conf Confirmation) {
	session := entity.Session{
		PlotPointID:  conf.SubjectID,
		ChannelID:    channelID,
		ScheduledAt:  conf.Date.UTC(),
		Participants: conf.Participants,
	}
	if conf.GameMasterID != "" {
		gm := conf.GameMasterID
		session.GameMasterID = &gm
	}

	if _, err := c.sessions.SaveSession(ctx, session); err != nil {
		c.log.Warn("failed to record session", slog.String("channelID", channelID), sl.Err(err))
	}
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

// ClampPlayers enforces 1 <= min <= max <= MaxPlayersLimit.
func ClampPlayers(minPlayers, maxPlayers int) (int, int) {
	if minPlayers < 1 {
		minPlayers = 1
	}
	if minPlayers > MaxPlayersLimit {
		minPlayers = MaxPlayersLimit
	}
	if maxPlayers < minPlayers {
		maxPlayers = minPlayers
	}
	if maxPlayers > MaxPlayersLimit {
		maxPlayers = MaxPlayersLimit
	}
	return minPlayers, maxPlayers
}

// normalizeDates moves dates into loc, sorts them and drops duplicates.
func normalizeDates(dates []time.Time, loc *time.Location) []time.Time {
	seen := make(map[string]bool, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		key := schedule.DateKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d.In(loc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s Snapshot) candidate(date time.Time) time.Time {
	key := schedule.DateKey(date)
	for _, c := range s.Candidates {
		if schedule.DateKey(c) == key {
			return c
		}
	}
	return date
}
