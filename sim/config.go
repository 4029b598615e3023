package sim

import (
	"fmt"
	"math"
)

// Policy selects when movement commands are checked against the settled grid.
type Policy uint8

const (
	// CheckOnTick leaves movement commands unchecked. Overlaps are only
	// resolved by the lock check inside Tick.
	CheckOnTick Policy = iota
	// CheckOnMove rejects horizontal moves into settled cells or walls and
	// locks a soft-dropped piece as soon as it lands.
	CheckOnMove
)

func (p Policy) String() string {
	switch p {
	case CheckOnTick:
		return "tick"
	case CheckOnMove:
		return "move"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy maps "tick" or "move" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "tick":
		return CheckOnTick, nil
	case "move":
		return CheckOnMove, nil
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, s)
}

// Config holds the board geometry and movement constants. Every length is in
// world units and must be a whole multiple of StepUnit.
type Config struct {
	// Width is the number of cells that make a row full.
	Width int
	// RowHeight is the height of one row, which is also the cell edge.
	RowHeight float64
	// StepUnit is how far gravity moves the piece on each tick.
	StepUnit float64
	// Tolerance is the collision distance on both axes. Zero means RowHeight.
	Tolerance float64
	// MoveStep is the horizontal move distance. Zero means RowHeight.
	MoveStep float64
	// SoftDropStep is the MoveDown distance. Zero means RowHeight.
	SoftDropStep float64
	// Floor is the lowest y a cell may occupy.
	Floor float64
	// Left is the x of the left wall; the right wall sits Width cells away.
	// Walls only matter under CheckOnMove.
	Left float64
	// Spawn is the origin given to every new piece.
	Spawn  Cell
	Policy Policy
}

// DefaultConfig is a ten-wide board in whole-cell units with pieces spawning
// at (5, 18) above a floor at zero.
func DefaultConfig() Config {
	return Config{
		Width:     10,
		RowHeight: 1,
		StepUnit:  1,
		Floor:     0,
		Spawn:     Cell{X: 5, Y: 18},
		Policy:    CheckOnTick,
	}
}

// FractionalConfig is the same board with rows of 0.1 and a gravity step of
// half a row.
func FractionalConfig() Config {
	return Config{
		Width:     10,
		RowHeight: 0.1,
		StepUnit:  0.05,
		Floor:     0,
		Spawn:     Cell{X: 0.5, Y: 1.8},
		Policy:    CheckOnTick,
	}
}

// Validate reports the first problem with c, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	_, err := c.compile()
	return err
}

// geometry is a validated Config expressed in lattice steps.
type geometry struct {
	lattice   Lattice
	width     int
	rowSteps  int64
	tolSteps  int64
	moveSteps int64
	dropSteps int64
	fallSteps int64
	floor     int64
	left      int64
	right     int64
	spawn     Point
	policy    Policy
}

const stepEpsilon = 1e-6

func (c Config) compile() (geometry, error) {
	if c.Width < 1 {
		return geometry{}, fmt.Errorf("%w: width %d must be at least 1", ErrInvalidConfig, c.Width)
	}
	if !(c.StepUnit > 0) || math.IsInf(c.StepUnit, 0) {
		return geometry{}, fmt.Errorf("%w: step unit %v must be positive", ErrInvalidConfig, c.StepUnit)
	}
	if c.Policy > CheckOnMove {
		return geometry{}, fmt.Errorf("%w: unknown policy %v", ErrInvalidConfig, c.Policy)
	}

	lat := Lattice{Quantum: c.StepUnit}
	steps := func(name string, v float64) (int64, error) {
		n := v / c.StepUnit
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n-math.Round(n)) > stepEpsilon {
			return 0, fmt.Errorf("%w: %s %v is not a multiple of step unit %v", ErrInvalidConfig, name, v, c.StepUnit)
		}
		return int64(math.Round(n)), nil
	}

	g := geometry{
		lattice:   lat,
		width:     c.Width,
		fallSteps: 1,
		policy:    c.Policy,
	}

	var err error
	if g.rowSteps, err = steps("row height", c.RowHeight); err != nil {
		return geometry{}, err
	}
	if g.rowSteps < 1 {
		return geometry{}, fmt.Errorf("%w: row height %v is smaller than step unit %v", ErrInvalidConfig, c.RowHeight, c.StepUnit)
	}

	defaults := []struct {
		name string
		v    float64
		dst  *int64
	}{
		{"tolerance", c.Tolerance, &g.tolSteps},
		{"move step", c.MoveStep, &g.moveSteps},
		{"soft drop step", c.SoftDropStep, &g.dropSteps},
	}
	for _, d := range defaults {
		if d.v == 0 {
			*d.dst = g.rowSteps
			continue
		}
		if *d.dst, err = steps(d.name, d.v); err != nil {
			return geometry{}, err
		}
		if *d.dst < 1 {
			return geometry{}, fmt.Errorf("%w: %s %v must be at least one step", ErrInvalidConfig, d.name, d.v)
		}
	}

	if g.floor, err = steps("floor", c.Floor); err != nil {
		return geometry{}, err
	}
	if g.left, err = steps("left wall", c.Left); err != nil {
		return geometry{}, err
	}
	g.right = g.left + int64(c.Width)*g.rowSteps

	if g.spawn.X, err = steps("spawn x", c.Spawn.X); err != nil {
		return geometry{}, err
	}
	if g.spawn.Y, err = steps("spawn y", c.Spawn.Y); err != nil {
		return geometry{}, err
	}
	if g.spawn.Y < g.floor {
		return geometry{}, fmt.Errorf("%w: spawn y %v is below floor %v", ErrInvalidConfig, c.Spawn.Y, c.Floor)
	}

	return g, nil
}
