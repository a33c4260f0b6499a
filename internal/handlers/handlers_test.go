package handlers

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/lib/logger"
	"github.com/knufflepuffle/lfg-bot/internal/services/mocks"
	"github.com/knufflepuffle/lfg-bot/internal/services/plotvote"
	"github.com/knufflepuffle/lfg-bot/internal/services/poll"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	testNow = time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC)
	dateA   = time.Date(2026, time.October, 23, 17, 0, 0, 0, time.UTC)
	dateB   = time.Date(2026, time.October, 24, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	polls        *poll.Controller
	votes        *plotvote.Controller
	plotPoints   *mocks.MockPlotPointProvider
	sessions     *mocks.MockSessionStorage
	commands     *CommandHandler
	interactions *InteractionHandler
	admins       map[string]bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	surface := mocks.NewMockSurface(ctrl)
	logs := mocks.NewMockLogStorage(ctrl)
	f := &fixture{
		plotPoints: mocks.NewMockPlotPointProvider(ctrl),
		sessions:   mocks.NewMockSessionStorage(ctrl),
		admins:     make(map[string]bool),
	}

	var sent atomic.Int64
	surface.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, string, entity.Message) (string, error) {
			return fmt.Sprintf("msg-%d", sent.Add(1)), nil
		}).AnyTimes()
	surface.EXPECT().Edit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	surface.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	surface.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	surface.EXPECT().IsAdmin(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, userID string) (bool, error) {
			return f.admins[userID], nil
		}).AnyTimes()
	logs.EXPECT().SaveLog(gomock.Any(), gomock.Any()).Return(int64(1), nil).AnyTimes()

	log := logger.NewDiscard()
	f.polls = poll.NewController(log, poll.NewStore(), surface, f.sessions, logs, prometheus.NewRegistry(), poll.Options{
		Duration:     time.Hour,
		DefaultWeeks: 1,
		Location:     time.UTC,
		Now:          func() time.Time { return testNow },
	})
	f.votes = plotvote.NewController(log, plotvote.NewStore(), surface, f.plotPoints, logs, prometheus.NewRegistry(), plotvote.Options{
		Duration: time.Hour,
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	t.Cleanup(f.polls.Close)
	t.Cleanup(f.votes.Close)

	f.commands = NewCommandHandler(log, "!", f.polls, f.votes, f.plotPoints, poll.DefaultMinPlayers, poll.DefaultMaxPlayers)
	f.interactions = NewInteractionHandler(log, f.polls, f.votes)

	return f
}

func (f *fixture) openPoll(t *testing.T, channelID, creatorID string, minPlayers int, dates ...time.Time) {
	t.Helper()

	_, err := f.polls.CreatePoll(context.Background(), poll.CreateRequest{
		ChannelID:    channelID,
		CreatorID:    creatorID,
		SubjectID:    "pp-1",
		SubjectTitle: "The Sunken Keep",
		MinPlayers:   minPlayers,
		MaxPlayers:   6,
		Dates:        dates,
	})
	if err != nil {
		t.Fatalf("open poll: %v", err)
	}
}
