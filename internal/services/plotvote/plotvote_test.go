package plotvote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/lib/logger"
	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/knufflepuffle/lfg-bot/internal/services/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)

func plotPoints(n int) []entity.PlotPoint {
	points := make([]entity.PlotPoint, 0, n)
	for i := 1; i <= n; i++ {
		points = append(points, entity.PlotPoint{
			ID:          fmt.Sprintf("PP%d", i),
			Title:       gofakeit.BookTitle(),
			Description: gofakeit.Sentence(12),
			Status:      entity.PlotPointStatusInactive,
		})
	}
	return points
}

type outbox struct {
	mu   sync.Mutex
	msgs []entity.Message
}

func (o *outbox) send(_ context.Context, _ string, msg entity.Message) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.msgs = append(o.msgs, msg)
	return fmt.Sprintf("msg-%d", len(o.msgs)), nil
}

func (o *outbox) last() entity.Message {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.msgs[len(o.msgs)-1]
}

type fixture struct {
	controller *Controller
	surface    *mocks.MockSurface
	provider   *mocks.MockPlotPointProvider
	out        *outbox
	admins     map[string]bool
}

func newFixture(t *testing.T, candidates []entity.PlotPoint, duration time.Duration) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	logs := mocks.NewMockLogStorage(ctrl)
	logs.EXPECT().SaveLog(gomock.Any(), gomock.Any()).Return(int64(1), nil).AnyTimes()

	f := &fixture{
		surface:  mocks.NewMockSurface(ctrl),
		provider: mocks.NewMockPlotPointProvider(ctrl),
		out:      &outbox{},
		admins:   make(map[string]bool),
	}
	f.provider.EXPECT().GetPlotPointsByStatus(gomock.Any(), entity.PlotPointStatusInactive).Return(candidates, nil).AnyTimes()

	f.controller = NewController(logger.NewDiscard(), NewStore(), f.surface, f.provider, logs, prometheus.NewRegistry(), Options{
		Duration: duration,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	t.Cleanup(f.controller.Close)

	return f
}

func (f *fixture) stubSurface() {
	f.surface.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(f.out.send).AnyTimes()
	f.surface.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.surface.EXPECT().Edit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.surface.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.surface.EXPECT().IsAdmin(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, userID string) (bool, error) {
			return f.admins[userID], nil
		}).AnyTimes()
}

func TestController_CreatePlotVote_Success(t *testing.T) {
	f := newFixture(t, plotPoints(3), time.Hour)
	f.stubSurface()

	snap, err := f.controller.CreatePlotVote(context.Background(), "creator", "c1", 0)
	require.NoError(t, err)

	assert.True(t, snap.Open)
	assert.Len(t, snap.Candidates, 3)
	assert.Equal(t, testNow.Add(time.Hour), snap.EndAt)
	assert.Equal(t, "msg-1", snap.MessageID)
	assert.Equal(t, "msg-2", snap.ResultsID)
	assert.Equal(t, "msg-3", snap.ControlID)

	f.out.mu.Lock()
	defer f.out.mu.Unlock()
	require.Len(t, f.out.msgs, 3)
	assert.Equal(t, entity.ControlsVote, f.out.msgs[0].Controls)
	assert.Len(t, f.out.msgs[0].Options, 3)
	assert.Equal(t, entity.ControlsEndVote, f.out.msgs[2].Controls)
}

func TestController_CreatePlotVote_CustomDuration(t *testing.T) {
	f := newFixture(t, plotPoints(1), time.Hour)
	f.stubSurface()

	snap, err := f.controller.CreatePlotVote(context.Background(), "creator", "c1", 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(2*time.Hour), snap.EndAt)
}

func TestController_CreatePlotVote_Conflict(t *testing.T) {
	f := newFixture(t, plotPoints(2), time.Hour)
	f.stubSurface()

	_, err := f.controller.CreatePlotVote(context.Background(), "creator", "c1", 0)
	require.NoError(t, err)

	_, err = f.controller.CreatePlotVote(context.Background(), "creator", "c1", 0)
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestController_CreatePlotVote_NoInactivePlotPoints(t *testing.T) {
	f := newFixture(t, nil, time.Hour)

	_, err := f.controller.CreatePlotVote(context.Background(), "creator", "c1", 0)
	require.ErrorIs(t, err, services.ErrInvalidInput)

	_, ok := f.controller.Snapshot("c1")
	assert.False(t, ok)
}

func TestController_CreatePlotVote_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPlotPointProvider(ctrl)
	provider.EXPECT().GetPlotPointsByStatus(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	c := NewController(logger.NewDiscard(), NewStore(), mocks.NewMockSurface(ctrl), provider, mocks.NewMockLogStorage(ctrl), nil, Options{})
	defer c.Close()

	_, err := c.CreatePlotVote(context.Background(), "creator", "c1", 0)
	require.Error(t, err)
	assert.Equal(t, "Something went wrong, please try again later.", services.Notice(err))
}

func TestController_CreatePlotVote_SendFailureRollsBack(t *testing.T) {
	f := newFixture(t, plotPoints(2), time.Hour)
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("", errors.New("missing permissions"))

	_, err := f.controller.CreatePlotVote(context.Background(), "creator", "c1", 0)
	require.ErrorIs(t, err, services.ErrRemoteFailure)

	_, ok := f.controller.Snapshot("c1")
	assert.False(t, ok)
	assert.Zero(t, f.controller.pendingTimers())
}

func TestController_CastVote_LastWriteWins(t *testing.T) {
	candidates := plotPoints(2)
	f := newFixture(t, candidates, time.Hour)
	f.stubSurface()
	ctx := context.Background()

	_, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	require.NoError(t, f.controller.CastVote(ctx, "u1", "c1", "PP1"))
	require.NoError(t, f.controller.CastVote(ctx, "u1", "c1", "PP2"))

	snap, _ := f.controller.Snapshot("c1")
	assert.Len(t, snap.Ballots, 1)
	assert.Equal(t, "PP2", snap.Ballots["u1"])

	results := snap.Results()
	assert.Equal(t, "PP2", results[0].PlotPoint.ID)
	assert.Equal(t, 1, results[0].Votes)
	assert.InDelta(t, 100.0, results[0].Percent, 0.001)
	assert.Equal(t, 0, results[1].Votes)
}

func TestController_CastVote_Errors(t *testing.T) {
	f := newFixture(t, plotPoints(2), time.Hour)
	f.stubSurface()
	ctx := context.Background()

	err := f.controller.CastVote(ctx, "u1", "c1", "PP1")
	require.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	err = f.controller.CastVote(ctx, "u1", "c1", "PP9")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestController_CastVote_RepostsMissingResults(t *testing.T) {
	f := newFixture(t, plotPoints(1), time.Hour)
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("vote", nil)
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("results", nil)
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("control", nil)
	ctx := context.Background()

	_, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	f.surface.EXPECT().Fetch(gomock.Any(), "c1", "results").Return(fmt.Errorf("gone: %w", services.ErrNotFound))
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, msg entity.Message) (string, error) {
			assert.Equal(t, resultsTitle, msg.Embed.Title)
			assert.Equal(t, "██████████ 1 votes (100.0%)", msg.Embed.Fields[0].Value)
			return "results-2", nil
		})

	require.NoError(t, f.controller.CastVote(ctx, "u1", "c1", "PP1"))

	snap, _ := f.controller.Snapshot("c1")
	assert.Equal(t, "results-2", snap.ResultsID)
}

func TestController_EndVote_Tie(t *testing.T) {
	f := newFixture(t, plotPoints(3), time.Hour)
	f.stubSurface()
	ctx := context.Background()

	_, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	ballots := map[string]string{
		"u1": "PP1", "u2": "PP1", "u3": "PP1",
		"u4": "PP2", "u5": "PP2", "u6": "PP2",
	}
	for user, plotID := range ballots {
		require.NoError(t, f.controller.CastVote(ctx, user, "c1", plotID))
	}

	out, err := f.controller.EndVote(ctx, "creator", "c1")
	require.NoError(t, err)

	assert.True(t, out.Tie())
	assert.Equal(t, 3, out.MaxVotes)
	assert.Equal(t, 6, out.TotalVotes)
	require.Len(t, out.Winners, 2)
	assert.Equal(t, "PP1", out.Winners[0].ID)
	assert.Equal(t, "PP2", out.Winners[1].ID)

	content := f.out.last().Content
	assert.True(t, strings.HasPrefix(content, "# 📊 The vote was ended early!"))
	assert.Contains(t, content, "It is a tie with **3** votes")

	_, ok := f.controller.Snapshot("c1")
	assert.False(t, ok)
}

func TestController_Expire_SingleWinner(t *testing.T) {
	candidates := plotPoints(2)
	f := newFixture(t, candidates, time.Hour)
	f.stubSurface()
	ctx := context.Background()

	snap, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)
	require.NoError(t, f.controller.CastVote(ctx, "u1", "c1", "PP2"))
	require.NoError(t, f.controller.CastVote(ctx, "u2", "c1", "PP2"))
	require.NoError(t, f.controller.CastVote(ctx, "u3", "c1", "PP1"))

	f.controller.Expire(ctx, "c1", snap.ID)

	_, ok := f.controller.Snapshot("c1")
	assert.False(t, ok)
	assert.Contains(t, f.out.last().Content, "# 📊 The vote has ended!")
	assert.Contains(t, f.out.last().Content, fmt.Sprintf("**PP2: %s** won with **2** votes!", candidates[1].Title))
}

func TestController_EndVote_NoVotes(t *testing.T) {
	f := newFixture(t, plotPoints(2), time.Hour)
	f.stubSurface()
	ctx := context.Background()

	_, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	out, err := f.controller.EndVote(ctx, "creator", "c1")
	require.NoError(t, err)

	assert.Empty(t, out.Winners)
	assert.Zero(t, out.TotalVotes)
	assert.Contains(t, f.out.last().Content, "nobody voted")
}

func TestController_EndVote_Authorization(t *testing.T) {
	f := newFixture(t, plotPoints(2), time.Hour)
	f.admins["mod"] = true
	f.stubSurface()
	ctx := context.Background()

	_, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	_, err = f.controller.EndVote(ctx, "u1", "c1")
	require.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = f.controller.EndVote(ctx, "", "c1")
	require.ErrorIs(t, err, services.ErrUnauthorized)

	_, ok := f.controller.Snapshot("c1")
	require.True(t, ok)

	_, err = f.controller.EndVote(ctx, "mod", "c1")
	require.NoError(t, err)

	_, err = f.controller.EndVote(ctx, "mod", "c1")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestController_EndVote_RemovesControls(t *testing.T) {
	f := newFixture(t, plotPoints(1), time.Hour)
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("vote", nil)
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("results", nil)
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("control", nil)
	ctx := context.Background()

	_, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	f.surface.EXPECT().Edit(gomock.Any(), "c1", "vote", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, msg entity.Message) error {
			assert.Equal(t, entity.ControlsNone, msg.Controls)
			assert.Empty(t, msg.Options)
			return nil
		})
	f.surface.EXPECT().Delete(gomock.Any(), "c1", "control").Return(errors.New("unknown message"))
	f.surface.EXPECT().Send(gomock.Any(), "c1", gomock.Any()).Return("outcome", nil)

	_, err = f.controller.EndVote(ctx, "creator", "c1")
	assert.NoError(t, err)
}

func TestController_Expire_IgnoresStaleInstance(t *testing.T) {
	f := newFixture(t, plotPoints(2), time.Hour)
	f.stubSurface()
	ctx := context.Background()

	first, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)
	_, err = f.controller.EndVote(ctx, "creator", "c1")
	require.NoError(t, err)

	second, err := f.controller.CreatePlotVote(ctx, "creator", "c1", 0)
	require.NoError(t, err)

	f.controller.Expire(ctx, "c1", first.ID)

	snap, ok := f.controller.Snapshot("c1")
	require.True(t, ok)
	assert.Equal(t, second.ID, snap.ID)
	assert.True(t, snap.Open)
}

func TestController_ExpiryTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t, plotPoints(2), time.Hour)
	f.stubSurface()

	_, err := f.controller.CreatePlotVote(context.Background(), "creator", "c1", 20*time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return strings.HasPrefix(f.out.last().Content, "# 📊 The vote has ended!")
	}, time.Second, 5*time.Millisecond)

	_, ok := f.controller.Snapshot("c1")
	assert.False(t, ok)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", Bar(0))
	assert.Equal(t, "█████░░░░░", Bar(50))
	assert.Equal(t, "█████░░░░░", Bar(59.9))
	assert.Equal(t, "██████████", Bar(100))
}

func TestVoteMessage_TruncatesDescriptions(t *testing.T) {
	point := entity.PlotPoint{ID: "PP1", Title: "Long", Description: strings.Repeat("a", 300)}
	msg := VoteMessage(Snapshot{Candidates: []entity.PlotPoint{point}, EndAt: testNow})

	require.Len(t, msg.Options, 1)
	assert.Equal(t, "PP1: Long", msg.Options[0].Label)
	assert.Equal(t, "PP1", msg.Options[0].Value)
	assert.Len(t, msg.Options[0].Description, 83)
	assert.Len(t, msg.Embed.Fields[0].Value, 203)
}
