package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/blockfall/sim"
)

// Report collects the configuration and results of one run.
type Report struct {
	// Configuration
	Ticks      int
	Seed       uint64
	Width      int
	Policy     string
	Fractional bool

	// Results
	TotalTime     time.Duration
	TickTime      Stats
	Board         sim.Stats
	TopOuts       int
	Clears        [4]int
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// Stats summarises a series of duration samples.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

// Finalize computes Min, Max and Avg from Samples.
func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Generate renders the report as markdown to w.
func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Blockfall Simulation Report

## Configuration
- **Ticks:** {{.Ticks}}
- **Seed:** {{.Seed}}
- **Width:** {{.Width}}
- **Policy:** {{.Policy}}{{if .Fractional}} (fractional units){{end}}

## Board
- **Ticks Run:** {{.Board.Ticks}}
- **Pieces Spawned:** {{.Board.Pieces}}
- **Locks:** {{.Board.Locks}}
- **Rows Cleared:** {{.Board.RowsCleared}}
- **Clears (single/double/triple/quad+):** {{index .Clears 0}}/{{index .Clears 1}}/{{index .Clears 2}}/{{index .Clears 3}}
- **Overlapping Cells Dropped:** {{.Board.Overlaps}}
- **Settled Cells At End:** {{.Board.Settled}}
- **Top-outs:** {{.TopOuts}}

## Performance
- **Total Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

## Phases
{{range .Board.Phases}}- **{{.Name}}:** {{.Runs}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}, total {{.TotalDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
