package stream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/plus3/blockfall/sim"
)

const (
	commandBuffer    = 32
	subscriberBuffer = 16
)

// Session runs one board. The board is only touched by the goroutine inside
// Run; everything else talks to it through Send and Subscribe.
type Session struct {
	ID string

	board    *sim.Board
	interval time.Duration
	commands chan Command

	mu          sync.Mutex
	subscribers map[int]chan Frame
	nextSub     int
	last        Frame
	seq         uint64
	lastSeen    time.Time
}

// NewSession builds the board for a session. interval is the gravity period;
// zero disables automatic ticks so only CmdTick advances the board.
func NewSession(id string, cfg sim.Config, source sim.KindSource, interval time.Duration) (*Session, error) {
	board, err := sim.NewBoard(cfg, source)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:          id,
		board:       board,
		interval:    interval,
		commands:    make(chan Command, commandBuffer),
		subscribers: make(map[int]chan Frame),
		lastSeen:    time.Now(),
	}
	s.last = stateFrame(id, 0, board.Snapshot(), nil)
	return s, nil
}

// Send queues a command. It returns false when the queue is full.
func (s *Session) Send(cmd Command) bool {
	s.touch()
	select {
	case s.commands <- cmd:
		return true
	default:
		return false
	}
}

// Subscribe returns a channel of frames starting with the latest one, and a
// function that closes it. Slow subscribers miss frames rather than stall the
// simulation.
func (s *Session) Subscribe() (<-chan Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Frame, subscriberBuffer)
	ch <- s.last
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

// LastSeen is the time of the most recent command.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Run drives the board until ctx is done, then closes every subscriber.
func (s *Session) Run(ctx context.Context) error {
	defer s.closeSubscribers()

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			s.step(CmdTick)
		case cmd := <-s.commands:
			s.step(cmd)
		}
	}
}

func (s *Session) step(cmd Command) {
	var cleared []int64
	changed := true

	switch cmd {
	case CmdLeft:
		changed = s.board.MoveLeft()
	case CmdRight:
		changed = s.board.MoveRight()
	case CmdDown:
		result, _ := s.board.SoftDrop()
		changed = result.Moved || result.Locked != nil
		cleared = result.ClearedRows
	case CmdReset:
		s.board.Reset()
	case CmdTick:
		result, err := s.board.Tick()
		if errors.Is(err, sim.ErrGameOver) && !result.TopOut {
			changed = false
		}
		cleared = result.ClearedRows
	default:
		changed = false
	}

	if changed {
		s.publish(s.board.Snapshot(), cleared)
	}
}

func (s *Session) publish(snap sim.Snapshot, cleared []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.last = stateFrame(s.ID, s.seq, snap, cleared)
	for _, ch := range s.subscribers {
		select {
		case ch <- s.last:
		default:
		}
	}
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
