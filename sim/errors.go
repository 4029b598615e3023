package sim

import "errors"

var (
	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("invalid board config")
	// ErrGameOver is returned once a fresh piece spawns on top of settled cells.
	ErrGameOver = errors.New("game over")
	// ErrOccupied is returned when a settled cell already exists at a position.
	ErrOccupied = errors.New("cell already occupied")
	// ErrOffLattice is returned for a cell that is not a whole number of
	// steps from the origin.
	ErrOffLattice = errors.New("cell is not on the step lattice")
)
