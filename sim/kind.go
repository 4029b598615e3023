package sim

import "fmt"

// Kind identifies a piece shape.
type Kind uint8

const (
	I Kind = iota
	O
	T
	S
	Z
	J
	L

	kindCount
)

var kindNames = [kindCount]string{"I", "O", "T", "S", "Z", "J", "L"}

func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(?)"
	}
	return kindNames[k]
}

// Valid reports whether k names one of the built-in shapes.
func (k Kind) Valid() bool {
	return k < kindCount
}

// MarshalText encodes the kind by its letter.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its letter.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind looks a kind up by its letter.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown piece kind %q", s)
}

// Kinds returns every shape in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

type offset struct {
	dx, dy int64
}

// Templates are in grid cells relative to the piece origin; +y is up, so the
// lowest row of every shape sits at dy == 0.
var shapeTemplates = [kindCount][4]offset{
	I: {{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
	O: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	T: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
	S: {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
	Z: {{0, 0}, {1, 0}, {-1, 1}, {0, 1}},
	J: {{-1, 0}, {0, 0}, {1, 0}, {-1, 1}},
	L: {{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
}
