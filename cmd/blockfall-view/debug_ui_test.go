package main

import (
	"testing"
	"time"

	"github.com/plus3/blockfall/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowOccupancy(t *testing.T) {
	board, err := sim.NewBoard(sim.FractionalConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, board.Settle(
		sim.Cell{X: 0, Y: 0}, sim.Cell{X: 0.1, Y: 0}, sim.Cell{X: 0.2, Y: 0},
		sim.Cell{X: 0, Y: 0.2},
	))

	assert.Equal(t, []RowCount{{Row: 2, Cells: 1}, {Row: 0, Cells: 3}}, RowOccupancy(board))
}

func TestTickHistory(t *testing.T) {
	h := NewTickHistory(3)
	assert.Zero(t, h.Avg())

	h.Add(2 * time.Millisecond)
	h.Add(4 * time.Millisecond)
	assert.InDelta(t, 3, h.Avg(), 1e-6)
	assert.Equal(t, []float32{0, 2, 4}, h.Samples())

	h.Add(6 * time.Millisecond)
	h.Add(8 * time.Millisecond)
	assert.Equal(t, []float32{4, 6, 8}, h.Samples(), "the oldest sample is overwritten")
	assert.InDelta(t, 6, h.Avg(), 1e-6)
}
