package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/blockfall/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	board, err := sim.NewBoard(sim.DefaultConfig(), nil)
	require.NoError(t, err)
	for range 40 {
		_, err := board.Tick()
		require.NoError(t, err)
	}

	r := &Report{Ticks: 40, Seed: 7, Width: 10, Policy: "tick", Board: board.Stats()}
	r.Clears[0] = 2

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "- **Ticks Run:** 40")
	assert.Contains(t, out, "- **Locks:** 2")
	assert.Contains(t, out, "2/0/0/0")
	assert.Contains(t, out, "- **gravity:** 40 runs")
	assert.Contains(t, out, "- **spawn:**")
}
