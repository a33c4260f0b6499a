package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/knufflepuffle/lfg-bot/internal/repo"
	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/knufflepuffle/lfg-bot/internal/services/plotvote"
	"github.com/knufflepuffle/lfg-bot/internal/services/poll"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// StatusHandler exposes the running polls and votes and the recorded history.
type StatusHandler struct {
	log     *slog.Logger
	polls   *poll.Controller
	votes   *plotvote.Controller
	storage services.StatusStorage
}

type PollDate struct {
	Date      time.Time `json:"date"`
	Headcount int       `json:"headcount"`
}

type PollStatus struct {
	ID           string     `json:"id"`
	ChannelID    string     `json:"channel_id"`
	PlotPointID  string     `json:"plot_point_id"`
	Title        string     `json:"title"`
	GameMasterID string     `json:"game_master_id,omitempty"`
	MinPlayers   int        `json:"min_players"`
	MaxPlayers   int        `json:"max_players"`
	Responders   int        `json:"responders"`
	Dates        []PollDate `json:"dates"`
	EndsAt       time.Time  `json:"ends_at"`
}

type VoteResult struct {
	PlotPointID string  `json:"plot_point_id"`
	Title       string  `json:"title"`
	Votes       int     `json:"votes"`
	Percent     float64 `json:"percent"`
}

type VoteStatus struct {
	ID        string       `json:"id"`
	ChannelID string       `json:"channel_id"`
	CreatedBy string       `json:"created_by"`
	Ballots   int          `json:"ballots"`
	Results   []VoteResult `json:"results"`
	EndsAt    time.Time    `json:"ends_at"`
}

func NewStatusHandler(log *slog.Logger, polls *poll.Controller, votes *plotvote.Controller, storage services.StatusStorage) *StatusHandler {
	return &StatusHandler{
		log:     log,
		polls:   polls,
		votes:   votes,
		storage: storage,
	}
}

func (h *StatusHandler) GetPolls(c *gin.Context) {
	snaps := h.polls.Active()
	polls := make([]PollStatus, 0, len(snaps))
	for _, s := range snaps {
		polls = append(polls, pollStatus(s))
	}
	c.JSON(http.StatusOK, gin.H{"polls": polls})
}

func (h *StatusHandler) GetPoll(c *gin.Context) {
	snap, ok := h.polls.Snapshot(c.Param("channelID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active poll in this channel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"poll": pollStatus(snap)})
}

func (h *StatusHandler) GetVotes(c *gin.Context) {
	snaps := h.votes.Active()
	votes := make([]VoteStatus, 0, len(snaps))
	for _, s := range snaps {
		votes = append(votes, voteStatus(s))
	}
	c.JSON(http.StatusOK, gin.H{"votes": votes})
}

func (h *StatusHandler) GetVote(c *gin.Context) {
	snap, ok := h.votes.Snapshot(c.Param("channelID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active vote in this channel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vote": voteStatus(snap)})
}

func (h *StatusHandler) GetSessions(c *gin.Context) {
	sessions, err := h.storage.GetSessions(c.Request.Context())
	if err != nil {
		h.log.Error("failed to load sessions", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *StatusHandler) GetSessionByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	session, err := h.storage.GetSessionByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.log.Error("failed to load session", slog.Int64("id", id), sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *StatusHandler) GetLogs(c *gin.Context) {
	limit := defaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxLogLimit)
	}

	logs, err := h.storage.GetLogs(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("failed to load logs", sl.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func pollStatus(s poll.Snapshot) PollStatus {
	dates := make([]PollDate, 0, len(s.Candidates))
	for _, d := range s.Candidates {
		dates = append(dates, PollDate{Date: d.UTC(), Headcount: s.Headcount(d)})
	}
	return PollStatus{
		ID:           s.ID,
		ChannelID:    s.ChannelID,
		PlotPointID:  s.SubjectID,
		Title:        s.SubjectTitle,
		GameMasterID: s.GameMasterID,
		MinPlayers:   s.MinPlayers,
		MaxPlayers:   s.MaxPlayers,
		Responders:   len(s.Responders),
		Dates:        dates,
		EndsAt:       s.EndAt.UTC(),
	}
}

func voteStatus(s plotvote.Snapshot) VoteStatus {
	results := make([]VoteResult, 0, len(s.Candidates))
	for _, r := range s.Results() {
		results = append(results, VoteResult{
			PlotPointID: r.PlotPoint.ID,
			Title:       r.PlotPoint.Title,
			Votes:       r.Votes,
			Percent:     r.Percent,
		})
	}
	return VoteStatus{
		ID:        s.ID,
		ChannelID: s.ChannelID,
		CreatedBy: s.CreatedBy,
		Ballots:   len(s.Ballots),
		Results:   results,
		EndsAt:    s.EndAt.UTC(),
	}
}
