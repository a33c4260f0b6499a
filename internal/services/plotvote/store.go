package plotvote

import (
	"sort"
	"sync"

	"github.com/knufflepuffle/lfg-bot/internal/services"
)

// Store holds at most one running vote per channel.
type Store struct {
	mu    sync.RWMutex
	votes map[string]*Vote
}

func NewStore() *Store {
	return &Store{votes: make(map[string]*Vote)}
}

func (s *Store) Create(v *Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.votes[v.channelID]; ok {
		return services.ErrConflict
	}
	s.votes[v.channelID] = v
	return nil
}

func (s *Store) Get(channelID string) (*Vote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.votes[channelID]
	return v, ok
}

// RemoveIf removes the channel's vote only if it is still the instance voteID.
func (s *Store) RemoveIf(channelID, voteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.votes[channelID]
	if !ok || v.id != voteID {
		return false
	}
	delete(s.votes, channelID)
	return true
}

func (s *Store) List() []*Vote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := make([]*Vote, 0, len(s.votes))
	for _, v := range s.votes {
		votes = append(votes, v)
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].channelID < votes[j].channelID })
	return votes
}
