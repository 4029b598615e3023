package sim

import "math"

// Cell is a block position in board-local world units. It is the value handed
// to renderers and transports; the simulation itself runs on Points.
type Cell struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point is a position on the simulation lattice, measured in gravity steps.
type Point struct {
	X, Y int64
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Lattice converts between world units and lattice steps.
// Quantum is the world length of one step.
type Lattice struct {
	Quantum float64
}

// Cell returns the world position of p.
func (l Lattice) Cell(p Point) Cell {
	return Cell{X: float64(p.X) * l.Quantum, Y: float64(p.Y) * l.Quantum}
}

// Point snaps c to the nearest lattice position.
func (l Lattice) Point(c Cell) Point {
	return Point{X: l.Steps(c.X), Y: l.Steps(c.Y)}
}

// Exact returns the lattice position of c and whether c lies on it, within
// the same tolerance Config uses for its lengths.
func (l Lattice) Exact(c Cell) (Point, bool) {
	p := l.Point(c)
	onLattice := math.Abs(c.X/l.Quantum-float64(p.X)) <= stepEpsilon &&
		math.Abs(c.Y/l.Quantum-float64(p.Y)) <= stepEpsilon
	return p, onLattice
}

// Steps returns v expressed in whole steps, rounded to nearest.
func (l Lattice) Steps(v float64) int64 {
	return int64(math.Round(v / l.Quantum))
}

// Cells converts a slice of points into world cells, preserving order.
func (l Lattice) Cells(points []Point) []Cell {
	cells := make([]Cell, len(points))
	for i, p := range points {
		cells[i] = l.Cell(p)
	}
	return cells
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// roundDiv divides rounding to the nearest integer, halves upward.
func roundDiv(a, b int64) int64 {
	return floorDiv(2*a+b, 2*b)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
