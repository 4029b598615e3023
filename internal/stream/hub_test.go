package stream

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/blockfall/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHub(t *testing.T, max int) *Hub {
	t.Helper()
	hub, err := NewHub(HubConfig{MaxSessions: max, Board: sim.DefaultConfig(), Seed: 1})
	require.NoError(t, err)
	t.Cleanup(hub.Stop)
	return hub
}

func TestHubCapacity(t *testing.T) {
	hub := newHub(t, 2)

	a, err := hub.Open()
	require.NoError(t, err)
	b, err := hub.Open()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, hub.Len())

	_, err = hub.Open()
	assert.ErrorIs(t, err, ErrHubFull)

	hub.Close(a.ID)
	assert.Equal(t, 1, hub.Len())
	assert.Nil(t, hub.Get(a.ID))
	assert.Same(t, b, hub.Get(b.ID))

	_, err = hub.Open()
	assert.NoError(t, err)
}

func TestHubRejectsInvalidBoard(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Width = 0

	_, err := NewHub(HubConfig{Board: cfg})
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestHubStop(t *testing.T) {
	hub := newHub(t, 0)

	s, err := hub.Open()
	require.NoError(t, err)
	frames, _ := s.Subscribe()
	<-frames

	hub.Stop()
	assert.Equal(t, 0, hub.Len())

	_, ok := <-frames
	assert.False(t, ok, "stopping the hub closes session subscribers")

	_, err = hub.Open()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHubCleanupIdle(t *testing.T) {
	hub := newHub(t, 0)

	idle, err := hub.Open()
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	busy, err := hub.Open()
	require.NoError(t, err)
	busy.Send(CmdLeft)

	assert.Equal(t, 1, hub.CleanupIdle(10*time.Millisecond))
	assert.Nil(t, hub.Get(idle.ID))
	assert.NotNil(t, hub.Get(busy.ID))
}
