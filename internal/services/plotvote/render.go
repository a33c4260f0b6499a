package plotvote

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/knufflepuffle/lfg-bot/internal/entity"
)

const (
	barWidth       = 10
	optionDescMax  = 80
	fieldDescMax   = 200
	endLayout      = "02.01.2006 at 15:04"
	resultsTitle   = "📊 Current vote results"
	resultsIntro   = "Here are the current results of the plot point vote:"
	endControlText = "Everyone has voted:"
)

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func label(p entity.PlotPoint) string {
	return p.ID + ": " + p.Title
}

// Bar draws a ten cell bar for a percentage.
func Bar(percent float64) string {
	filled := int(percent / 10)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// VoteMessage lists the candidates and carries the ballot selects.
func VoteMessage(s Snapshot) entity.Message {
	fields := make([]entity.EmbedField, 0, len(s.Candidates))
	options := make([]entity.SelectOption, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		fields = append(fields, entity.EmbedField{Name: label(c), Value: truncate(c.Description, fieldDescMax)})
		options = append(options, entity.SelectOption{
			Label:       label(c),
			Value:       c.ID,
			Description: truncate(c.Description, optionDescMax),
		})
	}

	return entity.Message{
		Embed: &entity.Embed{
			Title: "📊 Plot point vote",
			Description: fmt.Sprintf("Vote for the plot point to activate next!\nThe vote ends <t:%d:R>.",
				s.EndAt.Unix()),
			Color:  entity.ColorGold,
			Fields: fields,
		},
		Controls: entity.ControlsVote,
		Options:  options,
	}
}

// ClosedVoteMessage replaces the vote message once ballots are no longer accepted.
func ClosedVoteMessage(s Snapshot) entity.Message {
	msg := VoteMessage(s)
	msg.Embed.Description = "This vote has ended."
	msg.Embed.Color = entity.ColorGrey
	msg.Controls = entity.ControlsNone
	msg.Options = nil
	return msg
}

func ResultsMessage(s Snapshot, loc *time.Location) entity.Message {
	results := s.Results()
	fields := make([]entity.EmbedField, 0, len(results))
	for _, r := range results {
		fields = append(fields, entity.EmbedField{
			Name:  label(r.PlotPoint),
			Value: fmt.Sprintf("%s %d votes (%.1f%%)", Bar(r.Percent), r.Votes, r.Percent),
		})
	}

	return entity.Message{
		Embed: &entity.Embed{
			Title:       resultsTitle,
			Description: fmt.Sprintf("%s\nIn total %d players have voted.", resultsIntro, len(s.Ballots)),
			Color:       entity.ColorBlue,
			Fields:      fields,
			Footer:      "Vote ends on " + s.EndAt.In(loc).Format(endLayout),
		},
	}
}

func EndControlMessage() entity.Message {
	return entity.Message{Content: endControlText, Controls: entity.ControlsEndVote}
}

func OutcomeMessage(o Outcome) entity.Message {
	reason := "has ended"
	if o.Forced {
		reason = "was ended early"
	}

	var announcement string
	switch {
	case len(o.Winners) == 0:
		announcement = "The vote is over, but nobody voted!"
	case o.Tie():
		names := make([]string, 0, len(o.Winners))
		for _, w := range o.Winners {
			names = append(names, "**"+label(w)+"**")
		}
		announcement = fmt.Sprintf("## 🏆 The vote is over!\n\nIt is a tie with **%d** votes between:\n%s\n\n"+
			"The group has to decide another way which plot point to play.",
			o.MaxVotes, strings.Join(names, ", "))
	default:
		w := o.Winners[0]
		announcement = fmt.Sprintf("## 🏆 The vote is over!\n\n**%s** won with **%d** votes!", label(w), o.MaxVotes)
		if w.Description != "" {
			announcement += "\n\n*" + w.Description + "*"
		}
	}

	return entity.Message{Content: fmt.Sprintf("# 📊 The vote %s!\n%s", reason, announcement)}
}
