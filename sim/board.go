package sim

import "fmt"

// TickResult describes what a single tick did.
type TickResult struct {
	State State
	// Moved is true when gravity advanced the piece without landing it.
	Moved bool
	// Locked holds the cells merged into the settled grid, in piece order.
	Locked []Cell
	// Overlaps counts locked cells that landed on an occupied position and
	// were dropped. It is only ever non-zero under CheckOnTick, where a
	// sideways move can push a piece into settled cells.
	Overlaps int
	// ClearedRows lists the row indices removed by this tick, lowest first.
	ClearedRows []int64
	// Spawned is the kind of the replacement piece when a lock happened.
	Spawned Kind
	TopOut  bool
}

// Stats aggregates counters over the life of a board.
type Stats struct {
	Ticks       int64
	Locks       int64
	Pieces      int64
	RowsCleared int64
	Overlaps    int64
	Settled     int
	Phases      []PhaseStats
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	State   State  `json:"state"`
	Kind    Kind   `json:"kind"`
	Settled []Cell `json:"settled"`
	Active  []Cell `json:"active"`
}

type counters struct {
	ticks       int64
	locks       int64
	pieces      int64
	rowsCleared int64
	overlaps    int64
}

// Board owns the settled grid and the falling piece and drives the
// simulation. It is not safe for concurrent use; confine a Board to one
// goroutine and hand snapshots to everyone else.
type Board struct {
	cfg      Config
	geo      geometry
	source   KindSource
	grid     *settledGrid
	active   *Piece
	state    State
	pipe     *pipeline
	counters counters
}

// NewBoard validates cfg and spawns the first piece. A nil source falls back
// to NewCycle().
func NewBoard(cfg Config, source KindSource) (*Board, error) {
	geo, err := cfg.compile()
	if err != nil {
		return nil, err
	}
	if source == nil {
		source = NewCycle()
	}

	b := &Board{
		cfg:    cfg,
		geo:    geo,
		source: source,
		grid:   newSettledGrid(geo.rowSteps),
		pipe: newPipeline(
			gravityPhase{},
			lockPhase{},
			clearPhase{},
			spawnPhase{},
		),
	}
	b.spawn()
	return b, nil
}

// Tick applies one step of gravity. When the step lands the piece, the piece
// is locked where it was, full rows are cleared, and a new piece is spawned.
// Once a new piece spawns onto settled cells the board is over and Tick
// returns ErrGameOver, on that call and every call after it.
func (b *Board) Tick() (TickResult, error) {
	if b.state == GameOver {
		return TickResult{State: GameOver}, ErrGameOver
	}

	b.counters.ticks++
	return b.runPhases()
}

// MoveLeft shifts the piece one move step left. It reports whether the piece
// moved; under CheckOnMove a move into a wall or a settled cell is refused.
func (b *Board) MoveLeft() bool {
	return b.shift(-b.geo.moveSteps)
}

// MoveRight is MoveLeft in the other direction.
func (b *Board) MoveRight() bool {
	return b.shift(b.geo.moveSteps)
}

// MoveDown soft-drops the piece and reports whether it is still falling
// afterwards. See SoftDrop.
func (b *Board) MoveDown() bool {
	result, _ := b.SoftDrop()
	return result.Moved
}

// SoftDrop moves the piece down by the configured drop step. Under
// CheckOnTick the move is unchecked and never locks. Under CheckOnMove the
// piece descends one gravity step at a time and, as soon as the next step is
// blocked, locks where it stands. The result of such a lock reads the same
// as that of a landing Tick.
func (b *Board) SoftDrop() (TickResult, error) {
	if b.state == GameOver {
		return TickResult{State: GameOver}, ErrGameOver
	}
	if b.state != Falling {
		return TickResult{State: b.state}, nil
	}

	if b.geo.policy == CheckOnTick {
		b.active.Translate(0, -b.geo.dropSteps)
		return TickResult{State: b.state, Moved: true}, nil
	}

	for descended := int64(0); descended < b.geo.dropSteps; descended += b.geo.fallSteps {
		if !b.fall(b.geo.fallSteps) {
			return b.runPhases()
		}
	}
	return TickResult{State: b.state, Moved: true}, nil
}

// runPhases runs one pass of the tick phases. A board that is already
// Locking skips gravity and goes straight to the lock.
func (b *Board) runPhases() (TickResult, error) {
	frame := &tickFrame{board: b}
	b.pipe.once(frame)
	frame.result.State = b.state

	if frame.result.TopOut {
		return frame.result, ErrGameOver
	}
	return frame.result, nil
}

func (b *Board) shift(dx int64) bool {
	if b.state != Falling {
		return false
	}

	b.active.Translate(dx, 0)
	if b.geo.policy == CheckOnTick {
		return true
	}

	points := b.active.Points()
	if b.outsideWalls(points) || b.overlapsSettled(points) {
		b.active.Translate(-dx, 0)
		return false
	}
	return true
}

// fall moves the piece down by dy steps. If the new position meets the lock
// condition the move is undone, the board enters Locking, and fall returns
// false.
func (b *Board) fall(dy int64) bool {
	b.active.Translate(0, -dy)
	if !b.landed(b.active.Points()) {
		return true
	}
	b.active.Translate(0, dy)
	b.state = Locking
	return false
}

// landed reports whether a piece at points has hit the floor or rests on a
// settled cell: within tolerance horizontally, and level with or less than one
// tolerance above it.
func (b *Board) landed(points []Point) bool {
	for _, p := range points {
		if p.Y < b.geo.floor {
			return true
		}
	}
	return b.blocked(points)
}

func (b *Board) blocked(points []Point) bool {
	tol := b.geo.tolSteps
	for e := range b.grid.entries() {
		for _, p := range points {
			dy := p.Y - e.pos.Y
			if abs64(p.X-e.pos.X) < tol && dy >= 0 && dy < tol {
				return true
			}
		}
	}
	return false
}

func (b *Board) overlapsSettled(points []Point) bool {
	tol := b.geo.tolSteps
	for e := range b.grid.entries() {
		for _, p := range points {
			if abs64(p.X-e.pos.X) < tol && abs64(p.Y-e.pos.Y) < tol {
				return true
			}
		}
	}
	return false
}

func (b *Board) outsideWalls(points []Point) bool {
	for _, p := range points {
		if p.X < b.geo.left || p.X+b.geo.rowSteps > b.geo.right {
			return true
		}
	}
	return false
}

// spawn installs a fresh piece at the spawn point. A piece that is already
// blocked where it appears ends the game.
func (b *Board) spawn() {
	b.active = NewPiece(b.source.Next(), b.geo.spawn, b.geo.rowSteps)
	b.counters.pieces++

	if b.blocked(b.active.Points()) {
		b.state = GameOver
		return
	}
	b.state = Falling
}

// Settle places cells directly into the settled grid without clearing rows.
// It adds nothing and fails with ErrOffLattice for a cell between lattice
// points, or with ErrOccupied if any cell is already taken or repeated.
// Settling can end the game if it covers the active piece.
func (b *Board) Settle(cells ...Cell) error {
	points := make([]Point, len(cells))
	for i, c := range cells {
		p, ok := b.geo.lattice.Exact(c)
		if !ok {
			return fmt.Errorf("settle (%v, %v) with step %v: %w", c.X, c.Y, b.geo.lattice.Quantum, ErrOffLattice)
		}
		if b.grid.has(p) || containsPoint(points[:i], p) {
			return fmt.Errorf("settle (%v, %v): %w", c.X, c.Y, ErrOccupied)
		}
		points[i] = p
	}

	for _, p := range points {
		b.grid.add(p)
	}
	if b.state == Falling && b.blocked(b.active.Points()) {
		b.state = GameOver
	}
	return nil
}

func containsPoint(points []Point, p Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

// Reset empties the settled grid and starts over with a fresh piece. Counters
// and the kind source carry on.
func (b *Board) Reset() {
	b.grid.reset()
	b.spawn()
}

// State returns Falling, or GameOver after a top-out.
func (b *Board) State() State {
	return b.state
}

// Config returns the configuration the board was built with.
func (b *Board) Config() Config {
	return b.cfg
}

// Lattice returns the step lattice used to convert between cells and points.
func (b *Board) Lattice() Lattice {
	return b.geo.lattice
}

// Spawned returns how many pieces have been spawned, the current one included.
func (b *Board) Spawned() int64 {
	return b.counters.pieces
}

// Active returns a copy of the falling piece.
func (b *Board) Active() *Piece {
	return b.active.clone()
}

// ActiveCells returns the falling piece's cells in template order.
func (b *Board) ActiveCells() []Cell {
	return b.active.WorldCells(b.geo.lattice)
}

// SettledCells returns every settled cell in insertion order.
func (b *Board) SettledCells() []Cell {
	return b.geo.lattice.Cells(b.grid.points())
}

// RowOf returns the row index a world y coordinate falls into.
func (b *Board) RowOf(y float64) int64 {
	return b.grid.rowOf(b.geo.lattice.Steps(y))
}

// Snapshot copies the current state for a renderer or transport.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		State:   b.state,
		Kind:    b.active.Kind(),
		Settled: b.SettledCells(),
		Active:  b.ActiveCells(),
	}
}

// Stats returns lifetime counters and per-phase timings.
func (b *Board) Stats() Stats {
	return Stats{
		Ticks:       b.counters.ticks,
		Locks:       b.counters.locks,
		Pieces:      b.counters.pieces,
		RowsCleared: b.counters.rowsCleared,
		Overlaps:    b.counters.overlaps,
		Settled:     b.grid.len(),
		Phases:      b.pipe.snapshot(),
	}
}
