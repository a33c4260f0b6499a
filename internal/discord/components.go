package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/services/poll"
	"github.com/knufflepuffle/lfg-bot/internal/services/schedule"
)

// Component custom ids. Paged selects append the page index.
const (
	IDPollAvailability  = "poll:availability"
	IDPollFinalize      = "poll:finalize"
	IDPollCancel        = "poll:cancel"
	IDPollCancelConfirm = "poll:cancel_confirm"
	IDPollCancelAbort   = "poll:cancel_abort"
	IDPollDatesPrefix   = "poll:dates:"
	IDPollFinalizeDate  = "poll:finalize_date"
	IDVoteSelectPrefix  = "vote:select:"
	IDVoteEnd           = "vote:end"
)

// Discord allows five action rows per message.
const maxRows = 5

// MaxSelectOptions is how many options fit in one message of paged selects.
const MaxSelectOptions = maxRows * poll.SelectPageSize

// Hidden reports how many of total options a paged select cannot show.
func Hidden(total int) int {
	if total > MaxSelectOptions {
		return total - MaxSelectOptions
	}
	return 0
}

// lastRowPlaceholder marks the final visible page when options were cut.
func lastRowPlaceholder(i, total int, placeholder string) string {
	if i != maxRows-1 || Hidden(total) == 0 {
		return placeholder
	}
	return fmt.Sprintf("%s (%d more not shown)", placeholder, Hidden(total))
}

func Embeds(e *entity.Embed) []*discordgo.MessageEmbed {
	if e == nil {
		return []*discordgo.MessageEmbed{}
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}

	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       int(e.Color),
		Fields:      fields,
	}
	if e.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	return []*discordgo.MessageEmbed{embed}
}

// Components draws the control set a message asks for.
func Components(msg entity.Message) []discordgo.MessageComponent {
	switch msg.Controls {
	case entity.ControlsPoll:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Enter availability", Style: discordgo.PrimaryButton, CustomID: IDPollAvailability, Emoji: &discordgo.ComponentEmoji{Name: "📅"}},
				discordgo.Button{Label: "Finalize date", Style: discordgo.SuccessButton, CustomID: IDPollFinalize, Emoji: &discordgo.ComponentEmoji{Name: "✅"}},
				discordgo.Button{Label: "Cancel poll", Style: discordgo.DangerButton, CustomID: IDPollCancel, Emoji: &discordgo.ComponentEmoji{Name: "❌"}},
			}},
		}
	case entity.ControlsVote:
		return voteSelects(msg.Options)
	case entity.ControlsEndVote:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "End vote", Style: discordgo.DangerButton, CustomID: IDVoteEnd},
			}},
		}
	default:
		return nil
	}
}

func voteSelects(options []entity.SelectOption) []discordgo.MessageComponent {
	minValues := 1
	rows := make([]discordgo.MessageComponent, 0)
	for i, page := range poll.Paginate(len(options), poll.SelectPageSize) {
		if i == maxRows {
			break
		}
		menuOptions := make([]discordgo.SelectMenuOption, 0, page.End-page.Start)
		for _, o := range options[page.Start:page.End] {
			menuOptions = append(menuOptions, discordgo.SelectMenuOption{
				Label:       truncate(o.Label, 100),
				Value:       o.Value,
				Description: truncate(o.Description, 100),
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    IDVoteSelectPrefix + strconv.Itoa(page.Start),
				Placeholder: lastRowPlaceholder(i, len(options), "Pick a plot point"),
				MinValues:   &minValues,
				MaxValues:   1,
				Options:     menuOptions,
			},
		}})
	}
	return rows
}

// DatePicker draws one multi select per page of dates, preselecting the user's
// current choices. Pages past the row limit are left out and the last menu says
// how many dates are missing.
func DatePicker(choices []poll.DateChoice) []discordgo.MessageComponent {
	minValues := 0
	pages := poll.Paginate(len(choices), poll.SelectPageSize)
	rows := make([]discordgo.MessageComponent, 0, len(pages))
	for i, page := range pages {
		if i == maxRows {
			break
		}
		options := make([]discordgo.SelectMenuOption, 0, page.End-page.Start)
		for _, c := range choices[page.Start:page.End] {
			options = append(options, discordgo.SelectMenuOption{
				Label:       c.Label,
				Value:       schedule.DateKey(c.Date),
				Description: fmt.Sprintf("%d players available", c.Headcount),
				Default:     c.Selected,
			})
		}

		placeholder := "Select the dates you can attend"
		if len(pages) > 1 {
			placeholder = fmt.Sprintf("Dates %d-%d", page.Start+1, page.End)
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    IDPollDatesPrefix + strconv.Itoa(i),
				Placeholder: lastRowPlaceholder(i, len(choices), placeholder),
				MinValues:   &minValues,
				MaxValues:   len(options),
				Options:     options,
			},
		}})
	}
	return rows
}

// FinalizePicker offers the finalizable dates. Only the first page is shown;
// choices arrive sorted by headcount.
func FinalizePicker(choices []poll.DateChoice) []discordgo.MessageComponent {
	if len(choices) > poll.SelectPageSize {
		choices = choices[:poll.SelectPageSize]
	}

	minValues := 1
	options := make([]discordgo.SelectMenuOption, 0, len(choices))
	for _, c := range choices {
		options = append(options, discordgo.SelectMenuOption{
			Label:       c.Label,
			Value:       schedule.DateKey(c.Date),
			Description: fmt.Sprintf("%d players available", c.Headcount),
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    IDPollFinalizeDate,
				Placeholder: "Pick the session date",
				MinValues:   &minValues,
				MaxValues:   1,
				Options:     options,
			},
		}},
	}
}

func CancelConfirm() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Yes, cancel", Style: discordgo.DangerButton, CustomID: IDPollCancelConfirm},
			discordgo.Button{Label: "No, keep it", Style: discordgo.SecondaryButton, CustomID: IDPollCancelAbort},
		}},
	}
}

// PageIndex extracts the page index from a paged custom id.
func PageIndex(customID, prefix string) (int, bool) {
	if !strings.HasPrefix(customID, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(customID, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
