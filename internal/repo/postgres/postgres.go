package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/repo"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Storage struct {
	db *sql.DB
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB wraps an already opened handle.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) GetPlotPointByID(ctx context.Context, id string) (entity.PlotPoint, error) {
	const op = "storage.postgres.GetPlotPointByID"

	query := `SELECT id, title, description, status, channel_id, created_at FROM plotpoints WHERE id = $1`

	var p entity.PlotPoint
	err := s.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.ChannelID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.PlotPoint{}, fmt.Errorf("%s: %w", op, repo.ErrPlotPointNotFound)
		}
		return entity.PlotPoint{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Storage) GetPlotPointsByStatus(ctx context.Context, status entity.PlotPointStatus) ([]entity.PlotPoint, error) {
	const op = "storage.postgres.GetPlotPointsByStatus"

	query := `SELECT id, title, description, status, channel_id, created_at FROM plotpoints WHERE status = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var points []entity.PlotPoint
	for rows.Next() {
		var p entity.PlotPoint
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.ChannelID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return points, nil
}

func (s *Storage) SaveSession(ctx context.Context, session entity.Session) (int64, error) {
	const op = "storage.postgres.SaveSession"

	query := `INSERT INTO sessions (plotpoint_id, channel_id, game_master_id, scheduled_at, participants)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		session.PlotPointID, session.ChannelID, session.GameMasterID, session.ScheduledAt, pq.Array(session.Participants),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, repo.ErrSessionExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetSessionByID(ctx context.Context, id int64) (entity.Session, error) {
	const op = "storage.postgres.GetSessionByID"

	query := `SELECT id, plotpoint_id, channel_id, game_master_id, scheduled_at, participants, created_at
		FROM sessions WHERE id = $1`

	var session entity.Session
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.PlotPointID, &session.ChannelID, &session.GameMasterID,
		&session.ScheduledAt, pq.Array(&session.Participants), &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Session{}, fmt.Errorf("%s: %w", op, repo.ErrSessionNotFound)
		}
		return entity.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return session, nil
}

func (s *Storage) GetSessions(ctx context.Context) ([]entity.Session, error) {
	const op = "storage.postgres.GetSessions"

	query := `SELECT id, plotpoint_id, channel_id, game_master_id, scheduled_at, participants, created_at
		FROM sessions ORDER BY scheduled_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sessions []entity.Session
	for rows.Next() {
		var session entity.Session
		if err := rows.Scan(
			&session.ID, &session.PlotPointID, &session.ChannelID, &session.GameMasterID,
			&session.ScheduledAt, pq.Array(&session.Participants), &session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return sessions, nil
}

func (s *Storage) SaveLog(ctx context.Context, log *entity.Log) (int64, error) {
	const op = "storage.postgres.SaveLog"

	query := `INSERT INTO logs (channel_id, user_id, action, subject_id) VALUES ($1, $2, $3, $4) RETURNING id`

	err := s.db.QueryRowContext(ctx, query, log.ChannelID, log.UserID, log.Action, log.SubjectID).Scan(&log.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return log.ID, nil
}

func (s *Storage) GetLogs(ctx context.Context, limit int) ([]entity.Log, error) {
	const op = "storage.postgres.GetLogs"

	query := `SELECT id, channel_id, user_id, action, subject_id, created_at FROM logs ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var logs []entity.Log
	for rows.Next() {
		var log entity.Log
		if err := rows.Scan(&log.ID, &log.ChannelID, &log.UserID, &log.Action, &log.SubjectID, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return logs, nil
}
