package poll

import (
	"sort"
	"sync"

	"github.com/knufflepuffle/lfg-bot/internal/services"
)

// Store holds at most one live poll per channel. It lives as long as the process.
type Store struct {
	mu    sync.RWMutex
	polls map[string]*Poll
}

func NewStore() *Store {
	return &Store{polls: make(map[string]*Poll)}
}

func (s *Store) Create(p *Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[p.channelID]; ok {
		return services.ErrConflict
	}
	s.polls[p.channelID] = p
	return nil
}

func (s *Store) Get(channelID string) (*Poll, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.polls[channelID]
	return p, ok
}

func (s *Store) Remove(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.polls, channelID)
}

// RemoveIf removes the channel's poll only if it is still the instance pollID.
func (s *Store) RemoveIf(channelID, pollID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.polls[channelID]
	if !ok || p.id != pollID {
		return false
	}
	delete(s.polls, channelID)
	return true
}

// List returns the live polls ordered by channel id.
func (s *Store) List() []*Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polls := make([]*Poll, 0, len(s.polls))
	for _, p := range s.polls {
		polls = append(polls, p)
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].channelID < polls[j].channelID })
	return polls
}
