package entity

import "time"

type PlotPointStatus string

const (
	PlotPointStatusInactive PlotPointStatus = "Inactive"
	PlotPointStatusActive   PlotPointStatus = "Active"
	PlotPointStatusFinished PlotPointStatus = "Finished"
)

type PlotPoint struct {
	ID          string
	Title       string
	Description string
	Status      PlotPointStatus
	ChannelID   *string
	CreatedAt   time.Time
}
