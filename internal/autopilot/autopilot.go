// Package autopilot issues board commands without an input device. It stands
// in for a player in the headless, desktop and terminal drivers.
package autopilot

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/sim"
)

// Controller is the command surface the autopilot drives.
type Controller interface {
	MoveLeft() bool
	MoveRight() bool
	MoveDown() bool
	Spawned() int64
	Active() *sim.Piece
	Lattice() sim.Lattice
	Config() sim.Config
}

// Pilot steers each new piece toward a column picked from a seeded RNG.
type Pilot struct {
	rng    *rand.Rand
	every  int
	calls  int
	target int64
	seen   int64
	pieces int
}

// New returns a pilot that soft-drops once every `every` calls. Zero or a
// negative value disables soft drops.
func New(seed uint64, every int) *Pilot {
	return &Pilot{
		rng:   rand.New(rand.NewPCG(seed, seed+1)),
		every: every,
	}
}

// Drive issues at most one horizontal move and possibly one soft drop.
// It returns the number of commands that moved the piece.
func (p *Pilot) Drive(c Controller) int {
	p.calls++
	if spawned := c.Spawned(); spawned != p.seen {
		p.seen = spawned
		p.pickTarget(c)
	}
	active := c.Active()

	moved := 0
	x := active.Position().X
	switch {
	case x > p.target:
		if c.MoveLeft() {
			moved++
		}
	case x < p.target:
		if c.MoveRight() {
			moved++
		}
	}

	if p.every > 0 && p.calls%p.every == 0 {
		if c.MoveDown() {
			moved++
		}
	}
	return moved
}

// Pieces reports how many pieces the pilot has steered.
func (p *Pilot) Pieces() int {
	return p.pieces
}

// Target returns the lattice x the current piece is steered to.
func (p *Pilot) Target() int64 {
	return p.target
}

func (p *Pilot) pickTarget(c Controller) {
	cfg := c.Config()
	lattice := c.Lattice()
	cell := lattice.Steps(cfg.RowHeight)
	left := lattice.Steps(cfg.Left)

	// Keep the origin far enough from the walls for the widest shape (I spans
	// one cell left and two right of its origin).
	lo, hi := 1, cfg.Width-3
	if hi < lo {
		hi = lo
	}
	column := lo + p.rng.IntN(hi-lo+1)

	p.target = left + int64(column)*cell
	p.pieces++
}
