package sim

import (
	"reflect"
	"strings"
	"time"
)

// PhaseStats provides execution statistics for one tick phase.
type PhaseStats struct {
	Name          string
	Runs          int64
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	LastDuration  time.Duration
	TotalDuration time.Duration
}

type phaseStatsInternal struct {
	name          string
	runs          int64
	minDuration   time.Duration
	maxDuration   time.Duration
	totalDuration time.Duration
	lastDuration  time.Duration
}

// phase is one step of a tick. Phases run in registration order and share
// a tickFrame; each one inspects the board state to decide whether to act.
type phase interface {
	run(frame *tickFrame)
}

// tickFrame carries the board and the result being assembled for one tick.
type tickFrame struct {
	board  *Board
	result TickResult
}

type pipeline struct {
	phases []phase
	stats  []*phaseStatsInternal
}

func newPipeline(phases ...phase) *pipeline {
	p := &pipeline{}
	for _, ph := range phases {
		p.register(ph)
	}
	return p
}

func (p *pipeline) register(ph phase) {
	p.phases = append(p.phases, ph)

	phaseType := reflect.TypeOf(ph)
	if phaseType.Kind() == reflect.Ptr {
		phaseType = phaseType.Elem()
	}

	p.stats = append(p.stats, &phaseStatsInternal{
		name:        strings.TrimSuffix(phaseType.Name(), "Phase"),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// once runs every phase against frame in order.
func (p *pipeline) once(frame *tickFrame) {
	for i, ph := range p.phases {
		start := time.Now()
		ph.run(frame)
		duration := time.Since(start)

		stats := p.stats[i]
		stats.runs++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}
}

func (p *pipeline) snapshot() []PhaseStats {
	out := make([]PhaseStats, len(p.stats))
	for i, internal := range p.stats {
		avg := time.Duration(0)
		minDuration := internal.minDuration
		if internal.runs > 0 {
			avg = internal.totalDuration / time.Duration(internal.runs)
		} else {
			minDuration = 0
		}

		out[i] = PhaseStats{
			Name:          internal.name,
			Runs:          internal.runs,
			MinDuration:   minDuration,
			MaxDuration:   internal.maxDuration,
			AvgDuration:   avg,
			LastDuration:  internal.lastDuration,
			TotalDuration: internal.totalDuration,
		}
	}
	return out
}

// gravityPhase moves a falling piece down one step and flags a lock when the
// step lands it.
type gravityPhase struct{}

func (gravityPhase) run(frame *tickFrame) {
	b := frame.board
	if b.state != Falling {
		return
	}
	frame.result.Moved = b.fall(b.geo.fallSteps)
}

// lockPhase merges every cell of a landed piece into the settled grid.
type lockPhase struct{}

func (lockPhase) run(frame *tickFrame) {
	b := frame.board
	if b.state != Locking {
		return
	}

	points := b.active.Points()
	for _, p := range points {
		if !b.grid.add(p) {
			frame.result.Overlaps++
		}
	}
	frame.result.Locked = b.geo.lattice.Cells(points)

	b.counters.locks++
	b.counters.overlaps += int64(frame.result.Overlaps)
}

// clearPhase removes full rows after a lock.
type clearPhase struct{}

func (clearPhase) run(frame *tickFrame) {
	b := frame.board
	if b.state != Locking {
		return
	}

	cleared := b.grid.clearFullRows(b.geo.width)
	frame.result.ClearedRows = cleared
	b.counters.rowsCleared += int64(len(cleared))
}

// spawnPhase replaces a locked piece and detects top-out.
type spawnPhase struct{}

func (spawnPhase) run(frame *tickFrame) {
	b := frame.board
	if b.state != Locking {
		return
	}

	b.spawn()
	frame.result.Spawned = b.active.Kind()
	frame.result.TopOut = b.state == GameOver
}
