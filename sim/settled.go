package sim

import (
	"iter"

	"github.com/kamstrup/intmap"
)

const settledBlockSize = 64

// settledEntry is a locked cell with the row it belongs to. The row is stored
// alongside the position so bucketing never depends on re-deriving it.
type settledEntry struct {
	pos Point
	row int64
}

// settledGrid stores locked cells in fixed-size blocks. Slots are only ever
// appended; removals leave holes until compact, which keeps insertion order.
type settledGrid struct {
	blocks   [][settledBlockSize]settledEntry
	filled   [][settledBlockSize]bool
	next     int
	count    int
	rowSteps int64

	occupied *intmap.Map[uint64, int]
	rows     *intmap.Map[int64, int]
}

func newSettledGrid(rowSteps int64) *settledGrid {
	return &settledGrid{
		rowSteps: rowSteps,
		occupied: intmap.New[uint64, int](256),
		rows:     intmap.New[int64, int](32),
	}
}

// pointKey packs a point into an occupancy key. Coordinates outside the int32
// range alias; boards never get that large.
func pointKey(p Point) uint64 {
	return uint64(uint32(int32(p.X)))<<32 | uint64(uint32(int32(p.Y)))
}

func (g *settledGrid) rowOf(y int64) int64 {
	return roundDiv(y, g.rowSteps)
}

// add appends a cell. It returns false and leaves the grid unchanged when the
// position is already taken.
func (g *settledGrid) add(p Point) bool {
	key := pointKey(p)
	if _, ok := g.occupied.Get(key); ok {
		return false
	}

	index := g.next
	g.next++

	blockIdx := index / settledBlockSize
	slotIdx := index % settledBlockSize

	if blockIdx >= len(g.blocks) {
		g.blocks = append(g.blocks, [settledBlockSize]settledEntry{})
		g.filled = append(g.filled, [settledBlockSize]bool{})
	}

	row := g.rowOf(p.Y)
	g.blocks[blockIdx][slotIdx] = settledEntry{pos: p, row: row}
	g.filled[blockIdx][slotIdx] = true
	g.count++

	g.occupied.Put(key, index)
	g.bumpRow(row, 1)
	return true
}

func (g *settledGrid) has(p Point) bool {
	_, ok := g.occupied.Get(pointKey(p))
	return ok
}

func (g *settledGrid) len() int {
	return g.count
}

func (g *settledGrid) rowCount(row int64) int {
	n, _ := g.rows.Get(row)
	return n
}

func (g *settledGrid) bumpRow(row int64, delta int) {
	n, _ := g.rows.Get(row)
	n += delta
	if n <= 0 {
		g.rows.Del(row)
		return
	}
	g.rows.Put(row, n)
}

func (g *settledGrid) at(index int) *settledEntry {
	return &g.blocks[index/settledBlockSize][index%settledBlockSize]
}

// remove empties a slot. Indexes are not touched; callers reindex afterwards.
func (g *settledGrid) remove(index int) {
	blockIdx := index / settledBlockSize
	slotIdx := index % settledBlockSize
	if !g.filled[blockIdx][slotIdx] {
		return
	}
	g.filled[blockIdx][slotIdx] = false
	g.blocks[blockIdx][slotIdx] = settledEntry{}
	g.count--
}

// slots yields every filled slot index in insertion order.
func (g *settledGrid) slots() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < g.next; i++ {
			if !g.filled[i/settledBlockSize][i%settledBlockSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

// entries yields a copy of every settled cell in insertion order.
func (g *settledGrid) entries() iter.Seq[settledEntry] {
	return func(yield func(settledEntry) bool) {
		for i := range g.slots() {
			if !yield(*g.at(i)) {
				return
			}
		}
	}
}

func (g *settledGrid) points() []Point {
	points := make([]Point, 0, g.count)
	for e := range g.entries() {
		points = append(points, e.pos)
	}
	return points
}

// compact closes the holes left by remove and rebuilds both indexes.
func (g *settledGrid) compact() {
	if g.count == 0 {
		g.reset()
		return
	}

	numBlocks := (g.count + settledBlockSize - 1) / settledBlockSize
	newBlocks := make([][settledBlockSize]settledEntry, numBlocks)
	newFilled := make([][settledBlockSize]bool, numBlocks)

	writePos := 0
	for readIdx := range g.slots() {
		newBlocks[writePos/settledBlockSize][writePos%settledBlockSize] = *g.at(readIdx)
		newFilled[writePos/settledBlockSize][writePos%settledBlockSize] = true
		writePos++
	}

	g.blocks = newBlocks
	g.filled = newFilled
	g.next = writePos
	g.reindex()
}

func (g *settledGrid) reindex() {
	g.occupied.Clear()
	g.rows.Clear()
	for i := range g.slots() {
		e := g.at(i)
		g.occupied.Put(pointKey(e.pos), i)
		g.bumpRow(e.row, 1)
	}
}

func (g *settledGrid) reset() {
	g.blocks = nil
	g.filled = nil
	g.next = 0
	g.count = 0
	g.occupied.Clear()
	g.rows.Clear()
}
