package poll

import (
	"sync"
	"time"

	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/knufflepuffle/lfg-bot/internal/services/schedule"
)

const MaxPlayersLimit = 10

type State string

const (
	StateOpen      State = "open"
	StateFinalized State = "finalized"
	StateCancelled State = "cancelled"
	StateExpired   State = "expired"
)

// Poll is the live scheduling state of one channel. All fields are guarded by mu;
// readers work on a Snapshot.
type Poll struct {
	mu sync.Mutex

	id           string
	channelID    string
	subjectID    string
	subjectTitle string
	minPlayers   int
	maxPlayers   int
	gameMasterID string
	candidates   []time.Time
	availability map[string]map[string]bool
	responders   []string
	createdAt    time.Time
	endAt        time.Time
	createdBy    string
	messageID    string
	state        State
	version      int

	// serializes edits of the poll message
	renderMu sync.Mutex
}

// Snapshot is an immutable copy of a poll taken under its lock.
type Snapshot struct {
	ID           string
	ChannelID    string
	SubjectID    string
	SubjectTitle string
	MinPlayers   int
	MaxPlayers   int
	GameMasterID string
	Candidates   []time.Time
	Availability map[string]map[string]bool
	Responders   []string
	CreatedAt    time.Time
	EndAt        time.Time
	CreatedBy    string
	MessageID    string
	State        State
	Version      int
}

func (p *Poll) ID() string {
	return p.id
}

func (p *Poll) ChannelID() string {
	return p.channelID
}

func (p *Poll) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshotLocked()
}

func (p *Poll) snapshotLocked() Snapshot {
	availability := make(map[string]map[string]bool, len(p.availability))
	for user, row := range p.availability {
		copied := make(map[string]bool, len(row))
		for k, v := range row {
			copied[k] = v
		}
		availability[user] = copied
	}

	return Snapshot{
		ID:           p.id,
		ChannelID:    p.channelID,
		SubjectID:    p.subjectID,
		SubjectTitle: p.subjectTitle,
		MinPlayers:   p.minPlayers,
		MaxPlayers:   p.maxPlayers,
		GameMasterID: p.gameMasterID,
		Candidates:   append([]time.Time(nil), p.candidates...),
		Availability: availability,
		Responders:   append([]string(nil), p.responders...),
		CreatedAt:    p.createdAt,
		EndAt:        p.endAt,
		CreatedBy:    p.createdBy,
		MessageID:    p.messageID,
		State:        p.state,
		Version:      p.version,
	}
}

func (p *Poll) isCandidateLocked(date time.Time) bool {
	key := schedule.DateKey(date)
	for _, c := range p.candidates {
		if schedule.DateKey(c) == key {
			return true
		}
	}
	return false
}

// register replaces the user's whole availability row. Every candidate date gets an
// explicit entry, so a responded user is distinguishable from one who never answered.
func (p *Poll) register(userID string, selected []time.Time) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateOpen {
		return Snapshot{}, services.ErrNotFound
	}

	chosen := make(map[string]bool, len(selected))
	for _, d := range selected {
		if !p.isCandidateLocked(d) {
			return Snapshot{}, services.Invalid("one of the selected dates is not part of this poll")
		}
		chosen[schedule.DateKey(d)] = true
	}

	row := make(map[string]bool, len(p.candidates))
	for _, c := range p.candidates {
		key := schedule.DateKey(c)
		row[key] = chosen[key]
	}

	if _, ok := p.availability[userID]; !ok {
		p.responders = append(p.responders, userID)
	}
	p.availability[userID] = row
	p.version++

	return p.snapshotLocked(), nil
}

func (p *Poll) setGameMaster(userID string) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateOpen {
		return Snapshot{}, services.ErrNotFound
	}
	p.gameMasterID = userID
	p.version++

	return p.snapshotLocked(), nil
}

// appendDates adds new candidates after the existing ones without re-sorting.
// Dates already on the poll are skipped.
func (p *Poll) appendDates(dates []time.Time) (int, Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateOpen {
		return 0, Snapshot{}, services.ErrNotFound
	}

	added := 0
	for _, d := range dates {
		if p.isCandidateLocked(d) {
			continue
		}
		p.candidates = append(p.candidates, d)
		// responders without an entry for the new date are unavailable on it
		for _, row := range p.availability {
			row[schedule.DateKey(d)] = false
		}
		added++
	}
	if added > 0 {
		p.version++
	}

	return added, p.snapshotLocked(), nil
}

func (p *Poll) setMessageID(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messageID = id
}

// finalize commits the poll to date. The state change is the point where the poll
// stops accepting any other terminal transition.
func (p *Poll) finalize(date time.Time) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateOpen {
		return Snapshot{}, services.ErrNotFound
	}
	if !p.isCandidateLocked(date) {
		return Snapshot{}, services.Invalid("that date is not one of the poll's candidate dates")
	}

	snap := p.snapshotLocked()
	if snap.Headcount(date) < p.minPlayers {
		return Snapshot{}, services.ErrThresholdNotMet
	}

	p.state = StateFinalized
	p.version++

	return p.snapshotLocked(), nil
}

// terminate moves an open poll into a terminal state. It reports false if another
// transition got there first.
func (p *Poll) terminate(state State) (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateOpen {
		return Snapshot{}, false
	}
	p.state = state
	p.version++

	return p.snapshotLocked(), true
}

// Headcount is the number of users marked available on date.
func (s Snapshot) Headcount(date time.Time) int {
	key := schedule.DateKey(date)
	count := 0
	for _, row := range s.Availability {
		if row[key] {
			count++
		}
	}
	return count
}

// RespondedUsers lists users with an availability row, in order of first response.
func (s Snapshot) RespondedUsers() []string {
	users := make([]string, 0, len(s.Responders))
	for _, u := range s.Responders {
		if _, ok := s.Availability[u]; ok {
			users = append(users, u)
		}
	}
	return users
}

func (s Snapshot) HasResponded(userID string) bool {
	_, ok := s.Availability[userID]
	return ok
}

// AvailableDates lists the candidate dates the user marked available.
func (s Snapshot) AvailableDates(userID string) []time.Time {
	row := s.Availability[userID]
	dates := make([]time.Time, 0)
	for _, c := range s.Candidates {
		if row[schedule.DateKey(c)] {
			dates = append(dates, c)
		}
	}
	return dates
}

// AvailableUsers lists users available on date, in order of first response.
func (s Snapshot) AvailableUsers(date time.Time) []string {
	key := schedule.DateKey(date)
	users := make([]string, 0)
	for _, u := range s.RespondedUsers() {
		if s.Availability[u][key] {
			users = append(users, u)
		}
	}
	return users
}

func (s Snapshot) IsCandidate(date time.Time) bool {
	key := schedule.DateKey(date)
	for _, c := range s.Candidates {
		if schedule.DateKey(c) == key {
			return true
		}
	}
	return false
}

// GMResponded reports whether a game master is set and has an availability row.
func (s Snapshot) GMResponded() bool {
	return s.GameMasterID != "" && s.HasResponded(s.GameMasterID)
}

// VisibleDates applies the game master's constraint for viewerID. The GM always sees
// every candidate so they can revise their own choice. An empty result while the GM
// has responded means no session is possible yet.
func (s Snapshot) VisibleDates(viewerID string) []time.Time {
	if !s.GMResponded() || (viewerID != "" && viewerID == s.GameMasterID) {
		return append([]time.Time(nil), s.Candidates...)
	}

	gmRow := s.Availability[s.GameMasterID]
	dates := make([]time.Time, 0)
	for _, c := range s.Candidates {
		if gmRow[schedule.DateKey(c)] {
			dates = append(dates, c)
		}
	}
	return dates
}
