package plotvote

import (
	"sort"
	"sync"
	"time"

	"github.com/knufflepuffle/lfg-bot/internal/entity"
	"github.com/knufflepuffle/lfg-bot/internal/services"
)

// Vote is the live plot point vote of one channel. Fields are guarded by mu.
type Vote struct {
	mu sync.Mutex

	id         string
	channelID  string
	createdBy  string
	candidates []entity.PlotPoint
	ballots    map[string]string
	voters     []string
	startAt    time.Time
	endAt      time.Time
	messageID  string
	resultsID  string
	controlID  string
	open       bool

	// serializes edits of the results message
	renderMu sync.Mutex
}

type Snapshot struct {
	ID         string
	ChannelID  string
	CreatedBy  string
	Candidates []entity.PlotPoint
	Ballots    map[string]string
	Voters     []string
	StartAt    time.Time
	EndAt      time.Time
	MessageID  string
	ResultsID  string
	ControlID  string
	Open       bool
}

type Result struct {
	PlotPoint entity.PlotPoint
	Votes     int
	Percent   float64
}

// Outcome is the final count of a vote. Winners holds every candidate sharing the
// highest count; more than one winner is a tie that needs a decision elsewhere.
type Outcome struct {
	Winners    []entity.PlotPoint
	MaxVotes   int
	TotalVotes int
	Results    []Result
	Forced     bool
}

func (o Outcome) Tie() bool {
	return len(o.Winners) > 1
}

func (v *Vote) ID() string {
	return v.id
}

func (v *Vote) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.snapshotLocked()
}

func (v *Vote) snapshotLocked() Snapshot {
	ballots := make(map[string]string, len(v.ballots))
	for user, plotID := range v.ballots {
		ballots[user] = plotID
	}

	return Snapshot{
		ID:         v.id,
		ChannelID:  v.channelID,
		CreatedBy:  v.createdBy,
		Candidates: append([]entity.PlotPoint(nil), v.candidates...),
		Ballots:    ballots,
		Voters:     append([]string(nil), v.voters...),
		StartAt:    v.startAt,
		EndAt:      v.endAt,
		MessageID:  v.messageID,
		ResultsID:  v.resultsID,
		ControlID:  v.controlID,
		Open:       v.open,
	}
}

// cast records the user's single choice. A later ballot replaces the earlier one.
func (v *Vote) cast(userID, plotID string) (Snapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return Snapshot{}, services.ErrNotFound
	}

	known := false
	for _, c := range v.candidates {
		if c.ID == plotID {
			known = true
			break
		}
	}
	if !known {
		return Snapshot{}, services.Invalid("that plot point is not part of this vote")
	}

	if _, ok := v.ballots[userID]; !ok {
		v.voters = append(v.voters, userID)
	}
	v.ballots[userID] = plotID

	return v.snapshotLocked(), nil
}

func (v *Vote) setMessages(messageID, resultsID, controlID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.messageID = messageID
	v.resultsID = resultsID
	v.controlID = controlID
}

func (v *Vote) setResultsID(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.resultsID = id
}

// close ends the vote. It reports false if it was already closed.
func (v *Vote) close() (Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return Snapshot{}, false
	}
	v.open = false

	return v.snapshotLocked(), true
}

// Results counts the ballots per candidate, most votes first. Candidates with equal
// counts keep their listing order.
func (s Snapshot) Results() []Result {
	counts := make(map[string]int, len(s.Candidates))
	for _, plotID := range s.Ballots {
		counts[plotID]++
	}

	total := len(s.Ballots)
	results := make([]Result, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		r := Result{PlotPoint: c, Votes: counts[c.ID]}
		if total > 0 {
			r.Percent = float64(r.Votes) / float64(total) * 100
		}
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Votes > results[j].Votes })

	return results
}

func (s Snapshot) Outcome(forced bool) Outcome {
	results := s.Results()
	out := Outcome{
		TotalVotes: len(s.Ballots),
		Results:    results,
		Forced:     forced,
		Winners:    make([]entity.PlotPoint, 0),
	}
	if out.TotalVotes == 0 {
		return out
	}

	for _, r := range results {
		switch {
		case r.Votes > out.MaxVotes:
			out.MaxVotes = r.Votes
			out.Winners = []entity.PlotPoint{r.PlotPoint}
		case r.Votes == out.MaxVotes:
			out.Winners = append(out.Winners, r.PlotPoint)
		}
	}
	return out
}
