// Package stream serves boards over websockets. Each session owns one board
// on its own goroutine; clients send commands and receive state frames.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/plus3/blockfall/sim"
)

// ErrHubFull is returned by Open when MaxSessions sessions are running.
var ErrHubFull = errors.New("stream: hub is full")

// HubConfig configures the sessions a hub hands out.
type HubConfig struct {
	MaxSessions int
	Board       sim.Config
	// Interval is the gravity period of every session.
	Interval time.Duration
	// Seed seeds the bag of the first session; each later session adds one.
	Seed uint64
}

type entry struct {
	session *Session
	cancel  context.CancelFunc
	done    chan struct{}
}

// Hub tracks live sessions and caps how many can run at once.
type Hub struct {
	cfg HubConfig

	mu       sync.RWMutex
	sessions map[string]*entry
	created  uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub validates the board config and returns an empty hub.
func NewHub(cfg HubConfig) (*Hub, error) {
	if err := cfg.Board.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		cfg:      cfg,
		sessions: make(map[string]*entry),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Open creates a session and starts its goroutine.
func (h *Hub) Open() (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ctx.Err() != nil {
		return nil, fmt.Errorf("open session: %w", h.ctx.Err())
	}
	if h.cfg.MaxSessions > 0 && len(h.sessions) >= h.cfg.MaxSessions {
		return nil, fmt.Errorf("open session (%d running): %w", len(h.sessions), ErrHubFull)
	}

	seed := h.cfg.Seed + h.created
	h.created++
	id := fmt.Sprintf("s%d", h.created)

	session, err := NewSession(id, h.cfg.Board, sim.NewBag(seed), h.cfg.Interval)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(h.ctx)
	e := &entry{session: session, cancel: cancel, done: make(chan struct{})}
	h.sessions[id] = e

	go func() {
		defer close(e.done)
		session.Run(ctx)
	}()
	return session, nil
}

// Get returns the session with id, or nil.
func (h *Hub) Get(id string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if e, ok := h.sessions[id]; ok {
		return e.session
	}
	return nil
}

// Close stops a session and waits for its goroutine to exit.
func (h *Hub) Close(id string) {
	h.mu.Lock()
	e, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if ok {
		e.cancel()
		<-e.done
	}
}

// Len returns the number of running sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// CleanupIdle closes sessions with no command for longer than idle.
func (h *Hub) CleanupIdle(idle time.Duration) int {
	h.mu.RLock()
	var stale []string
	for id, e := range h.sessions {
		if time.Since(e.session.LastSeen()) > idle {
			stale = append(stale, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range stale {
		h.Close(id)
	}
	return len(stale)
}

// MaintainSessions prunes idle sessions every interval until the hub stops.
func (h *Hub) MaintainSessions(interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			if n := h.CleanupIdle(idle); n > 0 {
				log.Printf("closed %d idle sessions", n)
			}
		}
	}
}

// Stop ends every session and refuses new ones.
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*entry)
	h.mu.Unlock()

	for _, e := range sessions {
		<-e.done
	}
}
