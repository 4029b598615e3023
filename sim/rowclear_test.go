package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillRow(g *settledGrid, y int64, width int) {
	for x := range int64(width) {
		g.add(Point{X: x * g.rowSteps, Y: y})
	}
}

func TestSettledGridAdd(t *testing.T) {
	g := newSettledGrid(1)

	assert.True(t, g.add(Point{X: 1, Y: 2}))
	assert.False(t, g.add(Point{X: 1, Y: 2}), "duplicates are refused")
	assert.True(t, g.add(Point{X: 2, Y: 2}))

	assert.Equal(t, 2, g.len())
	assert.Equal(t, 2, g.rowCount(2))
	assert.True(t, g.has(Point{X: 2, Y: 2}))
	assert.False(t, g.has(Point{X: 3, Y: 2}))
}

func TestSettledGridKeepsInsertionOrderAcrossBlocks(t *testing.T) {
	g := newSettledGrid(1)

	var want []Point
	for i := range int64(settledBlockSize*2 + 5) {
		p := Point{X: i % 7, Y: i}
		require.True(t, g.add(p))
		want = append(want, p)
	}
	assert.Equal(t, want, g.points())

	// Remove every third cell and compact.
	var kept []Point
	for i := range g.slots() {
		if i%3 == 0 {
			g.remove(i)
			continue
		}
		kept = append(kept, g.at(i).pos)
	}
	g.compact()

	assert.Equal(t, kept, g.points())
	assert.Equal(t, len(kept), g.len())
	for _, p := range kept {
		assert.True(t, g.has(p))
	}
	assert.False(t, g.has(want[0]))
}

func TestRowIndexRounds(t *testing.T) {
	g := newSettledGrid(2)

	assert.Equal(t, int64(0), g.rowOf(0))
	assert.Equal(t, int64(1), g.rowOf(1), "half a row rounds up")
	assert.Equal(t, int64(1), g.rowOf(2))
	assert.Equal(t, int64(2), g.rowOf(3))
	assert.Equal(t, int64(-1), g.rowOf(-2))
	assert.Equal(t, int64(0), g.rowOf(-1))
}

func TestClearFullRowsNoopWhenNothingFull(t *testing.T) {
	g := newSettledGrid(1)
	fillRow(g, 0, 9)
	g.add(Point{X: 3, Y: 1})
	g.add(Point{X: 4, Y: 5})
	before := g.points()

	assert.Nil(t, g.clearFullRows(10))
	assert.Equal(t, before, g.points())
	assert.Equal(t, 9, g.rowCount(0))
}

func TestClearFullRowsRemovesRow(t *testing.T) {
	g := newSettledGrid(1)
	fillRow(g, 0, 10)

	assert.Equal(t, []int64{0}, g.clearFullRows(10))
	assert.Equal(t, 0, g.len())
	assert.Empty(t, g.points())
}

func TestClearFullRowsCompactsAbove(t *testing.T) {
	g := newSettledGrid(1)
	g.add(Point{X: 0, Y: 0})
	g.add(Point{X: 3, Y: 0})
	fillRow(g, 1, 10)
	g.add(Point{X: 2, Y: 2})
	g.add(Point{X: 5, Y: 2})

	assert.Equal(t, []int64{1}, g.clearFullRows(10))
	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 2, Y: 1}, {X: 5, Y: 1}}, g.points())
	assert.Equal(t, 2, g.rowCount(0))
	assert.Equal(t, 2, g.rowCount(1))
	assert.Equal(t, 0, g.rowCount(2))
}

func TestClearFullRowsShiftsOnlyByRowsBelow(t *testing.T) {
	g := newSettledGrid(2)
	fillRow(g, 0, 4)
	g.add(Point{X: 0, Y: 2})
	fillRow(g, 4, 4)
	g.add(Point{X: 2, Y: 6})
	fillRow(g, 8, 4)
	g.add(Point{X: 4, Y: 10})

	assert.Equal(t, []int64{0, 2, 4}, g.clearFullRows(4))
	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 4}}, g.points(),
		"each survivor drops once per cleared row beneath it")
	assert.Equal(t, 1, g.rowCount(0))
	assert.Equal(t, 1, g.rowCount(1))
	assert.Equal(t, 1, g.rowCount(2))
}

func TestClearFullRowsAboveWidth(t *testing.T) {
	g := newSettledGrid(1)
	fillRow(g, 0, 12)

	assert.Equal(t, []int64{0}, g.clearFullRows(10), "rows holding more than width cells are full too")
}

func TestClearFullRowsOffGridCells(t *testing.T) {
	// Cells settled between rows still bucket by nearest row.
	g := newSettledGrid(2)
	for x := range int64(3) {
		g.add(Point{X: x * 2, Y: 3})
	}
	g.add(Point{X: 0, Y: 5})

	assert.Equal(t, []int64{2}, g.clearFullRows(3))
	assert.Equal(t, []Point{{X: 0, Y: 3}}, g.points())
	assert.Equal(t, int64(2), g.at(0).row)
}

func TestSettledGridReset(t *testing.T) {
	g := newSettledGrid(1)
	fillRow(g, 0, 5)
	g.reset()

	assert.Equal(t, 0, g.len())
	assert.Equal(t, 0, g.rowCount(0))
	assert.True(t, g.add(Point{X: 0, Y: 0}))
}
