package poll

import (
	"testing"
	"time"

	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dateA = time.Date(2026, time.October, 23, 17, 0, 0, 0, time.UTC)
	dateB = time.Date(2026, time.October, 24, 9, 0, 0, 0, time.UTC)
	dateC = time.Date(2026, time.October, 24, 15, 0, 0, 0, time.UTC)
)

func newTestPoll(gmID string, minPlayers int, candidates ...time.Time) *Poll {
	return &Poll{
		id:           "poll-1",
		channelID:    "chan-1",
		subjectID:    "pp-1",
		subjectTitle: "The Sunken Keep",
		minPlayers:   minPlayers,
		maxPlayers:   MaxPlayersLimit,
		gameMasterID: gmID,
		candidates:   candidates,
		availability: make(map[string]map[string]bool),
		createdBy:    "creator",
		state:        StateOpen,
	}
}

func TestPoll_Register_ReplacesWholeRow(t *testing.T) {
	p := newTestPoll("", 1, dateA, dateB, dateC)

	_, err := p.register("u1", []time.Time{dateA, dateB})
	require.NoError(t, err)

	snap, err := p.register("u1", []time.Time{dateB})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{dateB}, snap.AvailableDates("u1"))
	assert.Equal(t, 0, snap.Headcount(dateA))
	assert.Equal(t, 1, snap.Headcount(dateB))
	assert.Len(t, snap.Availability["u1"], 3, "every candidate has an explicit entry")
	assert.Equal(t, []string{"u1"}, snap.RespondedUsers())
}

func TestPoll_Register_EmptySelectionStillResponds(t *testing.T) {
	p := newTestPoll("", 1, dateA, dateB)

	snap, err := p.register("u1", nil)
	require.NoError(t, err)

	assert.True(t, snap.HasResponded("u1"))
	assert.Empty(t, snap.AvailableDates("u1"))
}

func TestPoll_Register_UnknownDate(t *testing.T) {
	p := newTestPoll("", 1, dateA)

	_, err := p.register("u1", []time.Time{dateA, dateB})
	require.ErrorIs(t, err, services.ErrInvalidInput)

	assert.False(t, p.Snapshot().HasResponded("u1"))
}

func TestPoll_Register_MatchesInstantAcrossZones(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	p := newTestPoll("", 1, dateA)

	snap, err := p.register("u1", []time.Time{dateA.In(berlin)})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Headcount(dateA))
}

func TestPoll_Register_Closed(t *testing.T) {
	p := newTestPoll("", 1, dateA)
	_, ok := p.terminate(StateCancelled)
	require.True(t, ok)

	_, err := p.register("u1", []time.Time{dateA})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSnapshot_Headcount_CountsEveryAvailableUser(t *testing.T) {
	p := newTestPoll("", 1, dateA, dateB)

	for _, u := range []string{"u1", "u2", "u3"} {
		_, err := p.register(u, []time.Time{dateA})
		require.NoError(t, err)
	}
	_, err := p.register("u4", []time.Time{dateB})
	require.NoError(t, err)

	snap := p.Snapshot()
	assert.Equal(t, 3, snap.Headcount(dateA))
	assert.Equal(t, 1, snap.Headcount(dateB))
	assert.Equal(t, []string{"u1", "u2", "u3"}, snap.AvailableUsers(dateA))
}

func TestSnapshot_VisibleDates(t *testing.T) {
	t.Run("no game master", func(t *testing.T) {
		p := newTestPoll("", 1, dateA, dateB, dateC)
		assert.Equal(t, []time.Time{dateA, dateB, dateC}, p.Snapshot().VisibleDates("u1"))
	})

	t.Run("game master has not responded", func(t *testing.T) {
		p := newTestPoll("gm", 1, dateA, dateB, dateC)
		_, err := p.register("u1", []time.Time{dateC})
		require.NoError(t, err)

		assert.Equal(t, []time.Time{dateA, dateB, dateC}, p.Snapshot().VisibleDates("u1"))
	})

	t.Run("game master restricts players", func(t *testing.T) {
		p := newTestPoll("gm", 1, dateA, dateB, dateC)
		_, err := p.register("gm", []time.Time{dateA, dateC})
		require.NoError(t, err)

		snap := p.Snapshot()
		assert.Equal(t, []time.Time{dateA, dateC}, snap.VisibleDates("u1"))
		assert.Equal(t, []time.Time{dateA, dateC}, snap.VisibleDates(""))
		assert.Equal(t, []time.Time{dateA, dateB, dateC}, snap.VisibleDates("gm"))
	})

	t.Run("game master available nowhere", func(t *testing.T) {
		p := newTestPoll("gm", 1, dateA, dateB)
		_, err := p.register("gm", nil)
		require.NoError(t, err)

		snap := p.Snapshot()
		assert.Empty(t, snap.VisibleDates("u1"))
		assert.Len(t, snap.VisibleDates("gm"), 2)
	})
}

func TestPoll_AppendDates_KeepsOrderAndSkipsDuplicates(t *testing.T) {
	p := newTestPoll("", 1, dateB, dateC)
	_, err := p.register("u1", []time.Time{dateB})
	require.NoError(t, err)

	added, snap, err := p.appendDates([]time.Time{dateA, dateB})
	require.NoError(t, err)

	assert.Equal(t, 1, added)
	assert.Equal(t, []time.Time{dateB, dateC, dateA}, snap.Candidates)
	available, ok := snap.Availability["u1"]["2026-10-23T17:00:00Z"]
	assert.True(t, ok)
	assert.False(t, available)
}

func TestPoll_Finalize(t *testing.T) {
	p := newTestPoll("", 2, dateA, dateB)
	_, err := p.register("u1", []time.Time{dateA})
	require.NoError(t, err)

	_, err = p.finalize(dateA)
	require.ErrorIs(t, err, services.ErrThresholdNotMet)
	assert.Equal(t, StateOpen, p.Snapshot().State)

	_, err = p.finalize(dateC)
	require.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = p.register("u2", []time.Time{dateA})
	require.NoError(t, err)

	snap, err := p.finalize(dateA)
	require.NoError(t, err)
	assert.Equal(t, StateFinalized, snap.State)

	_, err = p.finalize(dateA)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPoll_Terminate_OnlyOnce(t *testing.T) {
	p := newTestPoll("", 1, dateA)

	snap, ok := p.terminate(StateExpired)
	require.True(t, ok)
	assert.Equal(t, StateExpired, snap.State)

	_, ok = p.terminate(StateCancelled)
	assert.False(t, ok)
	assert.Equal(t, StateExpired, p.Snapshot().State)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	p := newTestPoll("", 1, dateA)
	_, err := p.register("u1", []time.Time{dateA})
	require.NoError(t, err)

	snap := p.Snapshot()
	snap.Availability["u1"]["2026-10-23T17:00:00Z"] = false
	snap.Candidates[0] = dateB

	assert.Equal(t, 1, p.Snapshot().Headcount(dateA))
	assert.True(t, p.Snapshot().IsCandidate(dateA))
}
