package sim

import "fmt"

// State is the board's position in its lifecycle.
//
//	Falling --lock--> Locking --spawn--> Falling
//	                          --spawn onto settled cells--> GameOver
//
// Locking only exists while a tick (or a checked soft drop) is merging a
// landed piece; callers observe Falling or GameOver between operations.
type State uint8

const (
	Falling State = iota
	Locking
	GameOver
)

func (s State) String() string {
	switch s {
	case Falling:
		return "falling"
	case Locking:
		return "locking"
	case GameOver:
		return "game over"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state from its name.
func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{Falling, Locking, GameOver} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown board state %q", text)
}
