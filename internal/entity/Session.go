package entity

import "time"

// Session is a finalized game session for a plot point.
type Session struct {
	ID           int64
	PlotPointID  string
	ChannelID    string
	GameMasterID *string
	ScheduledAt  time.Time
	Participants []string
	CreatedAt    time.Time
}
