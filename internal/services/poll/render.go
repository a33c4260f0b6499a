package poll

import (
	"fmt"
	"strings"
	"time"

	"github.com/knufflepuffle/lfg-bot/internal/entity"
)

const (
	shortDateLayout = "Mon, 02.01. 15:04"
	longDateLayout  = "Monday, 02.01.2006 at 15:04"
	footerLayout    = "02.01.2006 15:04"
)

const (
	MarkerEnough = "✅"
	MarkerSome   = "👍"
	MarkerNone   = "⬜"
)

const (
	textNoDates         = "No dates proposed."
	textGMNoDates       = "The game master has not selected any dates yet."
	textNoAvailable     = "No available dates."
	textNoSignups       = "No sign-ups yet."
	textGMNotSet        = "Not set yet"
	textNoParticipants  = "No players available."
	pollCreatedHeadline = "## 📅 Session poll created for this plot point!"
)

func Mention(userID string) string {
	return "<@" + userID + ">"
}

func FormatShort(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(shortDateLayout)
}

func FormatLong(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(longDateLayout)
}

// Marker classifies a headcount against the poll's minimum.
func Marker(headcount, minPlayers int) string {
	switch {
	case headcount >= minPlayers:
		return MarkerEnough
	case headcount > 0:
		return MarkerSome
	default:
		return MarkerNone
	}
}

// DateTable renders one line per visible date with its headcount and marker.
func DateTable(s Snapshot, loc *time.Location) string {
	if len(s.Candidates) == 0 {
		return textNoDates
	}

	visible := s.VisibleDates("")
	if len(visible) == 0 && s.GMResponded() {
		return textGMNoDates
	}

	lines := make([]string, 0, len(visible))
	for _, d := range visible {
		count := s.Headcount(d)
		lines = append(lines, fmt.Sprintf("%s %s | %d players", Marker(count, s.MinPlayers), FormatShort(d, loc), count))
	}
	if len(lines) == 0 {
		return textNoAvailable
	}
	return strings.Join(lines, "\n")
}

// GMNoDatesNotice reports the text shown to viewerID when the game master has
// answered but kept none of the dates.
func GMNoDatesNotice(s Snapshot, viewerID string) (string, bool) {
	if len(s.Candidates) > 0 && s.GMResponded() && len(s.VisibleDates(viewerID)) == 0 {
		return textGMNoDates, true
	}
	return "", false
}

// ParticipantList lists users with at least one available date. It is empty when
// nobody has signed up.
func ParticipantList(s Snapshot) string {
	lines := make([]string, 0, len(s.Responders))
	for _, u := range s.RespondedUsers() {
		n := len(s.AvailableDates(u))
		if n == 0 {
			continue
		}
		role := "👤 player"
		if u == s.GameMasterID {
			role = "👑 game master"
		}
		lines = append(lines, fmt.Sprintf("%s (%s) - %d dates possible", Mention(u), role, n))
	}
	return strings.Join(lines, "\n")
}

func pollEmbed(s Snapshot, loc *time.Location) *entity.Embed {
	gm := textGMNotSet
	if s.GameMasterID != "" {
		gm = Mention(s.GameMasterID)
	}

	participants := ParticipantList(s)
	if participants == "" {
		participants = textNoSignups
	}

	return &entity.Embed{
		Title:       fmt.Sprintf("Session date for '%s'", s.SubjectTitle),
		Description: "Pick the dates you can attend.",
		Color:       entity.ColorBlue,
		Fields: []entity.EmbedField{
			{Name: "Plot Point", Value: "ID: " + s.SubjectID, Inline: true},
			{Name: "Players", Value: fmt.Sprintf("Min: %d / Max: %d", s.MinPlayers, s.MaxPlayers), Inline: true},
			{Name: "Game master", Value: gm, Inline: true},
			{Name: "Date overview", Value: DateTable(s, loc)},
			{Name: "Interested players", Value: participants},
		},
		Footer: fmt.Sprintf("Created %s · closes %s", s.CreatedAt.In(loc).Format(footerLayout), s.EndAt.In(loc).Format(footerLayout)),
	}
}

// PollMessage is the interactive poll message of an open poll.
func PollMessage(s Snapshot, loc *time.Location) entity.Message {
	return entity.Message{
		Content:  pollCreatedHeadline,
		Embed:    pollEmbed(s, loc),
		Controls: entity.ControlsPoll,
	}
}

// ClosedPollMessage replaces the poll message once the poll left the open state.
func ClosedPollMessage(s Snapshot, loc *time.Location) entity.Message {
	embed := pollEmbed(s, loc)
	embed.Color = entity.ColorGrey
	switch s.State {
	case StateFinalized:
		embed.Description = "This poll is closed, the session date has been set."
	case StateCancelled:
		embed.Description = "This poll was cancelled."
	default:
		embed.Description = "This poll has ended."
	}

	return entity.Message{
		Content:  pollCreatedHeadline,
		Embed:    embed,
		Controls: entity.ControlsNone,
	}
}

func GameMasterPing(gmID string) entity.Message {
	return entity.Message{
		Content: Mention(gmID) + " As game master, please enter your availability first. " +
			"Only the dates you pick will be offered to the players.",
	}
}

// Confirmation is the outcome of a finalized poll.
type Confirmation struct {
	SubjectID    string
	SubjectTitle string
	Date         time.Time
	GameMasterID string
	Participants []string
}

func ConfirmationMessage(c Confirmation, loc *time.Location) entity.Message {
	date := FormatLong(c.Date, loc)

	fields := make([]entity.EmbedField, 0, 2)
	if c.GameMasterID != "" {
		fields = append(fields, entity.EmbedField{Name: "Game master", Value: Mention(c.GameMasterID)})
	}
	if len(c.Participants) > 0 {
		players := make([]string, 0, len(c.Participants))
		for _, u := range c.Participants {
			if u != c.GameMasterID {
				players = append(players, Mention(u))
			}
		}
		value := strings.Join(players, "\n")
		if value == "" {
			value = textNoParticipants
		}
		fields = append(fields, entity.EmbedField{
			Name:  fmt.Sprintf("Participants (%d)", len(c.Participants)),
			Value: value,
		})
	}

	return entity.Message{
		Content: "## 🎮 Session confirmed!",
		Embed: &entity.Embed{
			Title:       fmt.Sprintf("Session for '%s' is set!", c.SubjectTitle),
			Description: fmt.Sprintf("The session takes place on **%s**.", date),
			Color:       entity.ColorGreen,
			Fields:      fields,
		},
	}
}

// MentionsMessage reminds everyone available of the date. It reports false when
// there is nobody to mention.
func MentionsMessage(c Confirmation, loc *time.Location) (entity.Message, bool) {
	if len(c.Participants) == 0 {
		return entity.Message{}, false
	}

	mentions := make([]string, 0, len(c.Participants))
	for _, u := range c.Participants {
		mentions = append(mentions, Mention(u))
	}

	return entity.Message{
		Content: fmt.Sprintf("%s Please keep the date free: **%s**", strings.Join(mentions, " "), FormatLong(c.Date, loc)),
	}, true
}

func CancelledMessage() entity.Message {
	return entity.Message{Content: "**The session poll was cancelled.**"}
}

// BestDates returns the visible dates sharing the highest non-zero headcount.
func BestDates(s Snapshot) ([]time.Time, int) {
	best := 0
	dates := make([]time.Time, 0)
	for _, d := range s.VisibleDates("") {
		count := s.Headcount(d)
		switch {
		case count == 0:
		case count > best:
			best = count
			dates = []time.Time{d}
		case count == best:
			dates = append(dates, d)
		}
	}
	return dates, best
}

// SummaryMessage closes a poll that ended without a finalized date.
func SummaryMessage(s Snapshot, loc *time.Location, forced bool) entity.Message {
	reason := "has ended"
	if forced {
		reason = "was ended early"
	}

	best, count := BestDates(s)
	verdict := "Nobody marked a date as available."
	if len(best) > 0 {
		labels := make([]string, 0, len(best))
		for _, d := range best {
			labels = append(labels, "**"+FormatLong(d, loc)+"**")
		}
		verdict = fmt.Sprintf("Most players (%d) are available on %s.", count, strings.Join(labels, ", "))
		if count < s.MinPlayers {
			verdict += fmt.Sprintf(" That is below the minimum of %d players.", s.MinPlayers)
		}
	}

	return entity.Message{
		Content: fmt.Sprintf("## ⏰ The session poll %s!", reason),
		Embed: &entity.Embed{
			Title:       fmt.Sprintf("Session poll for '%s'", s.SubjectTitle),
			Description: verdict + "\nNo session date was set.",
			Color:       entity.ColorGrey,
			Fields: []entity.EmbedField{
				{Name: "Date overview", Value: DateTable(s, loc)},
			},
		},
	}
}
