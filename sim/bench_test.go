package sim_test

import (
	"testing"

	"github.com/plus3/blockfall/sim"
)

func BenchmarkTick(b *testing.B) {
	board, err := sim.NewBoard(sim.DefaultConfig(), sim.NewBag(1))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := board.Tick(); err != nil {
			board.Reset()
		}
	}
}

func BenchmarkTickCrowded(b *testing.B) {
	board, err := sim.NewBoard(sim.DefaultConfig(), sim.NewBag(1))
	if err != nil {
		b.Fatal(err)
	}

	var cells []sim.Cell
	for y := range 12 {
		for x := range 10 {
			if x == y%10 {
				continue
			}
			cells = append(cells, sim.Cell{X: float64(x), Y: float64(y)})
		}
	}
	if err := board.Settle(cells...); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := board.Tick(); err != nil {
			board.Reset()
			b.StopTimer()
			_ = board.Settle(cells...)
			b.StartTimer()
		}
	}
}
