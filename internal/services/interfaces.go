package services

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/knufflepuffle/lfg-bot/internal/entity"
)

// Surface is the chat platform as seen by the poll and vote services.
// Every method is a remote call and may fail.
type Surface interface {
	Send(ctx context.Context, channelID string, msg entity.Message) (messageID string, err error)
	Edit(ctx context.Context, channelID, messageID string, msg entity.Message) error
	Fetch(ctx context.Context, channelID, messageID string) error
	Delete(ctx context.Context, channelID, messageID string) error
	IsAdmin(ctx context.Context, channelID, userID string) (bool, error)
}

type PlotPointProvider interface {
	GetPlotPointByID(ctx context.Context, id string) (entity.PlotPoint, error)
	GetPlotPointsByStatus(ctx context.Context, status entity.PlotPointStatus) ([]entity.PlotPoint, error)
}

type SessionStorage interface {
	SaveSession(ctx context.Context, session entity.Session) (int64, error)
}

type LogStorage interface {
	SaveLog(ctx context.Context, log *entity.Log) (int64, error)
}

// StatusStorage is the read side of the recorded history.
type StatusStorage interface {
	GetSessions(ctx context.Context) ([]entity.Session, error)
	GetSessionByID(ctx context.Context, id int64) (entity.Session, error)
	GetLogs(ctx context.Context, limit int) ([]entity.Log, error)
}
