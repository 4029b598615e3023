package sim

import "math/rand/v2"

// KindSource picks the kind of each newly spawned piece.
type KindSource interface {
	Next() Kind
}

// Cycle hands out kinds in a fixed rotation.
type Cycle struct {
	kinds []Kind
	next  int
}

// DefaultCycle is the rotation used when no kinds are given to NewCycle.
var DefaultCycle = []Kind{I, L, T, O, J, S, Z}

// NewCycle returns a rotation over kinds, or over DefaultCycle when empty.
func NewCycle(kinds ...Kind) *Cycle {
	if len(kinds) == 0 {
		kinds = DefaultCycle
	}
	for _, k := range kinds {
		if !k.Valid() {
			panic("cycle contains unknown piece kind " + k.String())
		}
	}
	return &Cycle{kinds: append([]Kind(nil), kinds...)}
}

// Next returns the current kind and advances the rotation.
func (c *Cycle) Next() Kind {
	k := c.kinds[c.next]
	c.next = (c.next + 1) % len(c.kinds)
	return k
}

// Peek returns the kind the next call to Next will produce.
func (c *Cycle) Peek() Kind {
	return c.kinds[c.next]
}

// Bag deals every kind once per round in a shuffled order. Two bags built
// from the same seed produce the same sequence.
type Bag struct {
	rng   *rand.Rand
	queue []Kind
}

// NewBag returns a bag whose shuffles are driven by seed.
func NewBag(seed uint64) *Bag {
	return &Bag{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Next deals the next kind, shuffling a fresh round when the last one is used up.
func (b *Bag) Next() Kind {
	if len(b.queue) == 0 {
		bag := Kinds()
		b.rng.Shuffle(len(bag), func(i, j int) {
			bag[i], bag[j] = bag[j], bag[i]
		})
		b.queue = bag
	}

	k := b.queue[0]
	b.queue = b.queue[1:]
	return k
}
