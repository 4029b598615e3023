package stream

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/blockfall/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, frames <-chan Frame) Frame {
	t.Helper()
	select {
	case f, ok := <-frames:
		require.True(t, ok, "frame channel closed")
		return f
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for frame")
	}
	return Frame{}
}

func startSession(t *testing.T, interval time.Duration) (*Session, <-chan Frame, context.CancelFunc) {
	t.Helper()

	session, err := NewSession("test", sim.DefaultConfig(), sim.NewCycle(sim.O), interval)
	require.NoError(t, err)
	return runSession(t, session)
}

func runSession(t *testing.T, session *Session) (*Session, <-chan Frame, context.CancelFunc) {
	t.Helper()

	frames, _ := session.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return session, frames, cancel
}

func TestSessionCommands(t *testing.T) {
	session, frames, _ := startSession(t, 0)

	first := receive(t, frames)
	assert.Equal(t, FrameState, first.Type)
	assert.Equal(t, uint64(0), first.Seq)
	assert.Equal(t, sim.Falling, first.State)
	assert.Equal(t, sim.O, first.Kind)
	assert.Equal(t, []sim.Cell{{X: 5, Y: 18}, {X: 6, Y: 18}, {X: 5, Y: 19}, {X: 6, Y: 19}}, first.Active)
	assert.Empty(t, first.Settled)

	require.True(t, session.Send(CmdLeft))
	f := receive(t, frames)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Equal(t, sim.Cell{X: 4, Y: 18}, f.Active[0])

	require.True(t, session.Send(CmdTick))
	f = receive(t, frames)
	assert.Equal(t, uint64(2), f.Seq)
	assert.Equal(t, sim.Cell{X: 4, Y: 17}, f.Active[0])

	require.True(t, session.Send(CmdDown))
	f = receive(t, frames)
	assert.Equal(t, sim.Cell{X: 4, Y: 16}, f.Active[0])

	require.True(t, session.Send(CmdReset))
	f = receive(t, frames)
	assert.Equal(t, uint64(4), f.Seq)
	assert.Equal(t, sim.Cell{X: 5, Y: 18}, f.Active[0])
}

func TestSessionLocksPiece(t *testing.T) {
	session, frames, _ := startSession(t, 0)
	receive(t, frames)

	var last Frame
	for i := 0; i < 19; i++ {
		require.True(t, session.Send(CmdTick))
		last = receive(t, frames)
	}

	assert.Len(t, last.Settled, 4)
	assert.Equal(t, sim.Cell{X: 5, Y: 0}, last.Settled[0])
	assert.Equal(t, sim.Cell{X: 5, Y: 18}, last.Active[0])
}

func TestSessionSoftDropReportsClearedRows(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Policy = sim.CheckOnMove
	session, err := NewSession("test", cfg, sim.NewCycle(sim.I), 0)
	require.NoError(t, err)

	// Row 0 is full apart from the columns the I piece covers.
	require.NoError(t, session.board.Settle(
		sim.Cell{X: 0, Y: 0}, sim.Cell{X: 1, Y: 0}, sim.Cell{X: 2, Y: 0},
		sim.Cell{X: 3, Y: 0}, sim.Cell{X: 8, Y: 0}, sim.Cell{X: 9, Y: 0},
	))
	_, frames, _ := runSession(t, session)
	receive(t, frames)

	var last Frame
	for range 19 {
		require.True(t, session.Send(CmdDown))
		last = receive(t, frames)
		if len(last.Cleared) > 0 {
			break
		}
	}

	assert.Equal(t, uint64(19), last.Seq, "18 drops to the floor, then the drop that locks")
	assert.Equal(t, []int64{0}, last.Cleared)
	assert.Empty(t, last.Settled)
	assert.Equal(t, sim.Cell{X: 4, Y: 18}, last.Active[0])
}

func TestSessionGravityInterval(t *testing.T) {
	_, frames, _ := startSession(t, 5*time.Millisecond)
	receive(t, frames)

	f := receive(t, frames)
	assert.Equal(t, uint64(1), f.Seq)
	assert.Equal(t, sim.Cell{X: 5, Y: 17}, f.Active[0])
}

func TestSessionClosesSubscribersOnStop(t *testing.T) {
	_, frames, cancel := startSession(t, 0)
	receive(t, frames)

	cancel()
	select {
	case _, ok := <-frames:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was not closed")
	}
}

func TestSessionUnsubscribe(t *testing.T) {
	session, err := NewSession("test", sim.DefaultConfig(), nil, 0)
	require.NoError(t, err)

	frames, unsubscribe := session.Subscribe()
	<-frames
	unsubscribe()
	unsubscribe()

	_, ok := <-frames
	assert.False(t, ok)
}

func TestParseCommand(t *testing.T) {
	for _, name := range []string{"left", "right", "down", "tick", "reset"} {
		cmd, ok := ParseCommand(name)
		assert.True(t, ok, name)
		assert.Equal(t, Command(name), cmd)
	}

	_, ok := ParseCommand("rotate")
	assert.False(t, ok)
}
