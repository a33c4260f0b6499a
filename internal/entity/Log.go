package entity

import "time"

type Log struct {
	ID        int64
	ChannelID string
	UserID    string
	Action    string
	SubjectID *string
	CreatedAt time.Time
}
