package poll

import (
	"testing"

	"github.com/knufflepuffle/lfg-bot/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Create_Conflict(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Create(&Poll{id: "p1", channelID: "c1"}))
	err := s.Create(&Poll{id: "p2", channelID: "c1"})
	assert.ErrorIs(t, err, services.ErrConflict)

	p, ok := s.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID())
}

func TestStore_RemoveIf_IgnoresOtherInstance(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Create(&Poll{id: "p2", channelID: "c1"}))

	assert.False(t, s.RemoveIf("c1", "p1"))
	_, ok := s.Get("c1")
	assert.True(t, ok)

	assert.True(t, s.RemoveIf("c1", "p2"))
	_, ok = s.Get("c1")
	assert.False(t, ok)

	assert.False(t, s.RemoveIf("c1", "p2"))
}

func TestStore_List_SortedByChannel(t *testing.T) {
	s := NewStore()
	for _, ch := range []string{"c3", "c1", "c2"} {
		require.NoError(t, s.Create(&Poll{id: "p-" + ch, channelID: ch}))
	}
	s.Remove("c2")

	polls := s.List()
	require.Len(t, polls, 2)
	assert.Equal(t, "c1", polls[0].ChannelID())
	assert.Equal(t, "c3", polls[1].ChannelID())
}
