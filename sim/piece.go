package sim

// Piece is a rigid group of cells. Its shape is fixed at construction and only
// the position changes afterwards.
type Piece struct {
	kind  Kind
	shape []Point
	pos   Point
}

// NewPiece builds a piece of the given kind at spawn. cellSteps is the edge
// length of one cell in lattice steps and scales the shape template.
func NewPiece(kind Kind, spawn Point, cellSteps int64) *Piece {
	if !kind.Valid() {
		panic("unknown piece kind " + kind.String())
	}
	if cellSteps <= 0 {
		panic("cell size must be positive")
	}

	template := shapeTemplates[kind]
	shape := make([]Point, len(template))
	for i, off := range template {
		shape[i] = Point{X: off.dx * cellSteps, Y: off.dy * cellSteps}
	}

	return &Piece{
		kind:  kind,
		shape: shape,
		pos:   spawn,
	}
}

// Kind returns the shape of the piece.
func (p *Piece) Kind() Kind {
	return p.kind
}

// Position returns the piece origin.
func (p *Piece) Position() Point {
	return p.pos
}

// Len returns the number of cells in the piece.
func (p *Piece) Len() int {
	return len(p.shape)
}

// Shape returns a copy of the origin-relative template.
func (p *Piece) Shape() []Point {
	shape := make([]Point, len(p.shape))
	copy(shape, p.shape)
	return shape
}

// Points returns the lattice position of every cell in template order.
func (p *Piece) Points() []Point {
	return p.appendPoints(make([]Point, 0, len(p.shape)))
}

func (p *Piece) appendPoints(dst []Point) []Point {
	for _, off := range p.shape {
		dst = append(dst, off.Add(p.pos))
	}
	return dst
}

// WorldCells returns the world position of every cell in template order.
func (p *Piece) WorldCells(l Lattice) []Cell {
	return l.Cells(p.Points())
}

// Translate moves the piece. No bounds or collision checks are made here.
func (p *Piece) Translate(dx, dy int64) {
	p.pos.X += dx
	p.pos.Y += dy
}

func (p *Piece) clone() *Piece {
	c := *p
	return &c
}
