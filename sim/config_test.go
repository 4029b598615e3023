package sim_test

import (
	"testing"

	"github.com/plus3/blockfall/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, sim.DefaultConfig().Validate())
	require.NoError(t, sim.FractionalConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*sim.Config)
	}{
		{"zero width", func(c *sim.Config) { c.Width = 0 }},
		{"zero step", func(c *sim.Config) { c.StepUnit = 0 }},
		{"negative step", func(c *sim.Config) { c.StepUnit = -1 }},
		{"row not multiple of step", func(c *sim.Config) { c.StepUnit = 0.3 }},
		{"row smaller than step", func(c *sim.Config) { c.RowHeight = 0; c.StepUnit = 1 }},
		{"tolerance off lattice", func(c *sim.Config) { c.Tolerance = 0.5 }},
		{"negative move step", func(c *sim.Config) { c.MoveStep = -1 }},
		{"spawn off lattice", func(c *sim.Config) { c.Spawn.X = 5.5 }},
		{"spawn below floor", func(c *sim.Config) { c.Spawn.Y = -1 }},
		{"unknown policy", func(c *sim.Config) { c.Policy = sim.Policy(9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sim.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, sim.ErrInvalidConfig)

			_, err = sim.NewBoard(cfg, nil)
			assert.ErrorIs(t, err, sim.ErrInvalidConfig)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := sim.ParsePolicy("tick")
	require.NoError(t, err)
	assert.Equal(t, sim.CheckOnTick, p)

	p, err = sim.ParsePolicy("move")
	require.NoError(t, err)
	assert.Equal(t, sim.CheckOnMove, p)
	assert.Equal(t, "move", p.String())

	_, err = sim.ParsePolicy("sometimes")
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}
