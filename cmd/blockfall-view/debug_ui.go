package main

import (
	"fmt"
	"slices"
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/sim"
)

const (
	// PanelWidth is the window width reserved for the panels.
	PanelWidth      = 340
	tickHistorySize = 120
)

// DebugUI draws Dear ImGui panels next to the well: board controls, tick
// phase timings, and per-row occupancy of the settled grid.
type DebugUI struct {
	backend *ebitenbackend.EbitenBackend
	ticks   *TickHistory
	left    float32
}

// NewDebugUI creates the ebiten window through the ImGui backend. The panels
// take the rightmost PanelWidth pixels of the window.
func NewDebugUI(title string, width, height int) *DebugUI {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini

	return &DebugUI{
		backend: backend,
		ticks:   NewTickHistory(tickHistorySize),
		left:    float32(width-PanelWidth) + 10,
	}
}

// Begin starts an ImGui frame. Call it before anything else in Update.
func (d *DebugUI) Begin() {
	d.backend.BeginFrame()
}

// End renders every panel for g and closes the frame.
func (d *DebugUI) End(g *Game) {
	d.renderBoard(g)
	d.renderPhases(g.board.Stats())
	d.renderGrid(g.board)
	d.backend.EndFrame()
}

// WantsKeyboard reports whether an ImGui widget has keyboard focus.
func (d *DebugUI) WantsKeyboard() bool {
	return imgui.CurrentIO().WantCaptureKeyboard()
}

// RecordTick adds one Tick duration to the timing graph.
func (d *DebugUI) RecordTick(elapsed time.Duration) {
	d.ticks.Add(elapsed)
}

// Draw renders the ImGui overlay on top of screen.
func (d *DebugUI) Draw(screen *ebiten.Image) {
	d.backend.Draw(screen)
}

// Layout tells the backend the current screen size.
func (d *DebugUI) Layout(width, height int) {
	d.backend.Layout(width, height)
}

func (d *DebugUI) renderBoard(g *Game) {
	imgui.SetNextWindowPosV(imgui.NewVec2(d.left, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(PanelWidth-20, 150), imgui.CondOnce)

	if !imgui.BeginV("Board", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := g.board.Stats()
	imgui.Text(fmt.Sprintf("State: %s", g.board.State()))
	imgui.Text(fmt.Sprintf("Ticks: %d  Pieces: %d  Locks: %d", stats.Ticks, stats.Pieces, stats.Locks))
	imgui.Text(fmt.Sprintf("Rows Cleared: %d  Overlaps: %d", stats.RowsCleared, stats.Overlaps))
	imgui.Text(fmt.Sprintf("Policy: %s", g.cfg.Policy))

	imgui.Separator()
	imgui.Checkbox("Paused", &g.paused)
	imgui.SameLine()
	if imgui.Button("Reset") {
		g.board.Reset()
	}

	imgui.End()
}

func (d *DebugUI) renderPhases(stats sim.Stats) {
	imgui.SetNextWindowPosV(imgui.NewVec2(d.left, 170), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(PanelWidth-20, 230), imgui.CondOnce)

	if !imgui.BeginV("Tick Phases", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Avg Tick Time: %.3f ms", d.ticks.Avg()))
	samples := d.ticks.Samples()
	imgui.PlotLinesFloatPtr("##ticktime", &samples[0], int32(len(samples)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("PhaseTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Phase")
		imgui.TableSetupColumn("Runs")
		imgui.TableSetupColumn("Avg")
		imgui.TableSetupColumn("Max")
		imgui.TableHeadersRow()

		for _, phase := range stats.Phases {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(phase.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", phase.Runs))
			imgui.TableNextColumn()
			imgui.Text(phase.AvgDuration.String())
			imgui.TableNextColumn()
			imgui.Text(phase.MaxDuration.String())
		}

		imgui.EndTable()
	}

	imgui.End()
}

func (d *DebugUI) renderGrid(board *sim.Board) {
	imgui.SetNextWindowPosV(imgui.NewVec2(d.left, 410), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(PanelWidth-20, 200), imgui.CondOnce)

	if !imgui.BeginV("Settled Grid", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	cfg := board.Config()
	rows := RowOccupancy(board)
	imgui.Text(fmt.Sprintf("Cells: %d in %d rows", len(board.SettledCells()), len(rows)))

	if imgui.TreeNodeStr("Rows") {
		for _, r := range rows {
			imgui.ProgressBarV(float32(r.Cells)/float32(cfg.Width), imgui.NewVec2(-1, 0),
				fmt.Sprintf("row %d: %d/%d", r.Row, r.Cells, cfg.Width))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// RowCount is the number of settled cells filed under one row.
type RowCount struct {
	Row   int64
	Cells int
}

// RowOccupancy counts settled cells per row, top row first.
func RowOccupancy(board *sim.Board) []RowCount {
	counts := make(map[int64]int)
	for _, c := range board.SettledCells() {
		counts[board.RowOf(c.Y)]++
	}

	rows := make([]RowCount, 0, len(counts))
	for row, n := range counts {
		rows = append(rows, RowCount{Row: row, Cells: n})
	}
	slices.SortFunc(rows, func(a, b RowCount) int {
		switch {
		case a.Row > b.Row:
			return -1
		case a.Row < b.Row:
			return 1
		}
		return 0
	})
	return rows
}

// TickHistory keeps the most recent tick durations, in milliseconds, in a
// fixed ring.
type TickHistory struct {
	samples []float32
	next    int
	filled  int
}

// NewTickHistory returns an empty ring of size samples.
func NewTickHistory(size int) *TickHistory {
	return &TickHistory{samples: make([]float32, size)}
}

// Add records one duration, dropping the oldest when the ring is full.
func (h *TickHistory) Add(elapsed time.Duration) {
	h.samples[h.next] = float32(elapsed) / float32(time.Millisecond)
	h.next = (h.next + 1) % len(h.samples)
	h.filled = min(h.filled+1, len(h.samples))
}

// Samples returns the ring oldest first. Unused slots read as zero.
func (h *TickHistory) Samples() []float32 {
	out := make([]float32, 0, len(h.samples))
	out = append(out, h.samples[h.next:]...)
	return append(out, h.samples[:h.next]...)
}

// Avg is the mean of the recorded samples, or zero before the first one.
func (h *TickHistory) Avg() float32 {
	if h.filled == 0 {
		return 0
	}
	var total float32
	for _, s := range h.samples {
		total += s
	}
	return total / float32(h.filled)
}
