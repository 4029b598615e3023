package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/internal/autopilot"
	"github.com/plus3/blockfall/sim"
)

func main() {
	ticks := flag.Int("ticks", 100000, "The number of gravity ticks to run.")
	seed := flag.Uint64("seed", 1, "Seed for the piece bag and the autopilot.")
	width := flag.Int("width", 10, "Board width in cells.")
	policy := flag.String("policy", "tick", "Collision policy: tick or move.")
	fractional := flag.Bool("fractional", false, "Use 0.1 rows with a 0.05 gravity step.")
	every := flag.Int("every", 4, "Soft-drop once every N ticks (0 disables).")
	restart := flag.Bool("restart", true, "Reset the board on top-out instead of stopping.")
	flag.Parse()

	cfg := sim.DefaultConfig()
	if *fractional {
		cfg = sim.FractionalConfig()
	}
	cfg.Width = *width
	cfg.Spawn.X = cfg.Left + float64(*width/2)*cfg.RowHeight

	p, err := sim.ParsePolicy(*policy)
	if err != nil {
		log.Fatalf("Invalid policy: %v", err)
	}
	cfg.Policy = p

	board, err := sim.NewBoard(cfg, sim.NewBag(*seed))
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}
	pilot := autopilot.New(*seed, *every)

	report := &Report{
		Ticks:      *ticks,
		Seed:       *seed,
		Width:      *width,
		Policy:     cfg.Policy.String(),
		Fractional: *fractional,
		TickTime: Stats{
			Samples: make([]time.Duration, 0, *ticks),
		},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running %d ticks (policy %s, seed %d)...", *ticks, cfg.Policy, *seed)
	start := time.Now()

	for i := 0; i < *ticks; i++ {
		pilot.Drive(board)

		tickStart := time.Now()
		result, err := board.Tick()
		report.TickTime.Samples = append(report.TickTime.Samples, time.Since(tickStart))

		if len(result.ClearedRows) > 0 {
			report.Clears[min(len(result.ClearedRows), len(report.Clears))-1]++
		}
		if errors.Is(err, sim.ErrGameOver) {
			report.TopOuts++
			log.Printf("Top-out at tick %d with %d settled cells", i+1, len(board.SettledCells()))
			if !*restart {
				break
			}
			board.Reset()
		}
	}

	report.TotalTime = time.Since(start)
	report.Board = board.Stats()
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n--- Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
