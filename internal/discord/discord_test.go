package discord

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/knufflepuffle/lfg-bot/internal/services/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectMenu(t *testing.T, row discordgo.MessageComponent) discordgo.SelectMenu {
	t.Helper()

	actions, ok := row.(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, actions.Components, 1)
	menu, ok := actions.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	return menu
}

func TestComponents_PollButtons(t *testing.T) {
	rows := Components(entity.Message{Controls: entity.ControlsPoll})
	require.Len(t, rows, 1)

	ids := make([]string, 0, 3)
	for _, c := range rows[0].(discordgo.ActionsRow).Components {
		ids = append(ids, c.(discordgo.Button).CustomID)
	}
	assert.Equal(t, []string{IDPollAvailability, IDPollFinalize, IDPollCancel}, ids)

	assert.Nil(t, Components(entity.Message{Controls: entity.ControlsNone}))
}

func TestComponents_VoteSelectsArePaged(t *testing.T) {
	options := make([]entity.SelectOption, 0, 30)
	for i := 0; i < 30; i++ {
		options = append(options, entity.SelectOption{Label: fmt.Sprintf("PP%d", i), Value: fmt.Sprintf("PP%d", i)})
	}

	rows := Components(entity.Message{Controls: entity.ControlsVote, Options: options})
	require.Len(t, rows, 2)

	first := selectMenu(t, rows[0])
	second := selectMenu(t, rows[1])
	assert.Equal(t, "vote:select:0", first.CustomID)
	assert.Len(t, first.Options, 25)
	assert.Equal(t, "vote:select:25", second.CustomID)
	assert.Len(t, second.Options, 5)
	assert.Equal(t, 1, first.MaxValues)
}

func TestDatePicker_PreselectsAndPages(t *testing.T) {
	start := time.Date(2026, time.October, 23, 17, 0, 0, 0, time.UTC)
	choices := make([]poll.DateChoice, 0, 27)
	for i := 0; i < 27; i++ {
		d := start.Add(time.Duration(i) * 24 * time.Hour)
		choices = append(choices, poll.DateChoice{Date: d, Label: poll.FormatShort(d, time.UTC), Selected: i == 26})
	}

	rows := DatePicker(choices)
	require.Len(t, rows, 2)

	first := selectMenu(t, rows[0])
	assert.Equal(t, "poll:dates:0", first.CustomID)
	assert.Equal(t, 25, first.MaxValues)
	require.NotNil(t, first.MinValues)
	assert.Zero(t, *first.MinValues)
	assert.Equal(t, "2026-10-23T17:00:00Z", first.Options[0].Value)

	second := selectMenu(t, rows[1])
	assert.Equal(t, "poll:dates:1", second.CustomID)
	require.Len(t, second.Options, 2)
	assert.False(t, second.Options[0].Default)
	assert.True(t, second.Options[1].Default)
}

func TestHidden(t *testing.T) {
	assert.Equal(t, 125, MaxSelectOptions)
	assert.Zero(t, Hidden(0))
	assert.Zero(t, Hidden(125))
	assert.Equal(t, 15, Hidden(140))
}

func TestDatePicker_MarksCutPages(t *testing.T) {
	start := time.Date(2026, time.October, 23, 17, 0, 0, 0, time.UTC)
	choices := make([]poll.DateChoice, 0, 140)
	for i := 0; i < 140; i++ {
		d := start.Add(time.Duration(i) * time.Hour)
		choices = append(choices, poll.DateChoice{Date: d, Label: poll.FormatShort(d, time.UTC)})
	}

	rows := DatePicker(choices)
	require.Len(t, rows, maxRows)
	assert.Equal(t, "Dates 76-100", selectMenu(t, rows[3]).Placeholder)
	assert.Equal(t, "Dates 101-125 (15 more not shown)", selectMenu(t, rows[4]).Placeholder)

	rows = DatePicker(choices[:125])
	assert.Equal(t, "Dates 101-125", selectMenu(t, rows[4]).Placeholder)
}

func TestComponents_VoteSelectsMarkCutPages(t *testing.T) {
	options := make([]entity.SelectOption, 0, 130)
	for i := 0; i < 130; i++ {
		options = append(options, entity.SelectOption{Label: fmt.Sprintf("PP%d", i), Value: fmt.Sprintf("PP%d", i)})
	}

	rows := Components(entity.Message{Controls: entity.ControlsVote, Options: options})
	require.Len(t, rows, maxRows)
	assert.Equal(t, "Pick a plot point", selectMenu(t, rows[0]).Placeholder)
	assert.Equal(t, "Pick a plot point (5 more not shown)", selectMenu(t, rows[4]).Placeholder)
}

func TestFinalizePicker_SingleChoice(t *testing.T) {
	d := time.Date(2026, time.October, 23, 17, 0, 0, 0, time.UTC)
	rows := FinalizePicker([]poll.DateChoice{{Date: d, Label: "Fri", Headcount: 4}})

	menu := selectMenu(t, rows[0])
	assert.Equal(t, IDPollFinalizeDate, menu.CustomID)
	assert.Equal(t, 1, menu.MaxValues)
	assert.Equal(t, "4 players available", menu.Options[0].Description)
}

func TestPageIndex(t *testing.T) {
	n, ok := PageIndex("poll:dates:2", IDPollDatesPrefix)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = PageIndex("poll:dates:x", IDPollDatesPrefix)
	assert.False(t, ok)
	_, ok = PageIndex("vote:end", IDPollDatesPrefix)
	assert.False(t, ok)
}

func TestEmbeds(t *testing.T) {
	assert.Empty(t, Embeds(nil))

	embeds := Embeds(&entity.Embed{
		Title:  "t",
		Color:  entity.ColorGold,
		Fields: []entity.EmbedField{{Name: "n", Value: "v", Inline: true}},
		Footer: "f",
	})
	require.Len(t, embeds, 1)
	assert.Equal(t, int(entity.ColorGold), embeds[0].Color)
	assert.True(t, embeds[0].Fields[0].Inline)
	assert.Equal(t, "f", embeds[0].Footer.Text)
}

func TestClassify(t *testing.T) {
	unknown := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage},
	}
	assert.ErrorIs(t, classify(unknown), services.ErrNotFound)

	forbidden := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingAccess},
	}
	assert.ErrorIs(t, classify(forbidden), services.ErrRemoteFailure)
	assert.ErrorIs(t, classify(errors.New("eof")), services.ErrRemoteFailure)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
}
