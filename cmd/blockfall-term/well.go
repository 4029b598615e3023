package main

import (
	"math"

	"github.com/plus3/blockfall/sim"
)

const (
	activeRune  = '█'
	settledRune = '▓'
	emptyRune   = ' '
	wallRune    = '│'
	floorRune   = '─'
)

// Well lays a snapshot out as text, one rune per cell, top row first.
type Well struct {
	cfg  sim.Config
	rows int
}

// NewWell sizes the well to the spawn height plus some headroom.
func NewWell(cfg sim.Config) *Well {
	return &Well{
		cfg:  cfg,
		rows: cellIndex(cfg.Spawn.Y, cfg.Floor, cfg.RowHeight) + 3,
	}
}

func cellIndex(v, origin, size float64) int {
	return int(math.Round((v - origin) / size))
}

// Render draws snap with walls and a floor. Cells outside the well are skipped.
func (w *Well) Render(snap sim.Snapshot) []string {
	grid := make([][]rune, w.rows)
	for i := range grid {
		grid[i] = make([]rune, w.cfg.Width)
		for j := range grid[i] {
			grid[i][j] = emptyRune
		}
	}

	put := func(c sim.Cell, r rune) {
		col := cellIndex(c.X, w.cfg.Left, w.cfg.RowHeight)
		row := cellIndex(c.Y, w.cfg.Floor, w.cfg.RowHeight)
		if col < 0 || col >= w.cfg.Width || row < 0 || row >= w.rows {
			return
		}
		grid[w.rows-1-row][col] = r
	}
	for _, c := range snap.Settled {
		put(c, settledRune)
	}
	for _, c := range snap.Active {
		put(c, activeRune)
	}

	lines := make([]string, 0, w.rows+1)
	for _, row := range grid {
		lines = append(lines, string(wallRune)+string(row)+string(wallRune))
	}
	floor := make([]rune, w.cfg.Width+2)
	for i := range floor {
		floor[i] = floorRune
	}
	return append(lines, string(floor))
}
