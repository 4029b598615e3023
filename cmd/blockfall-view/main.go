package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/internal/autopilot"
	"github.com/plus3/blockfall/sim"
)

const (
	CellSize = 24
	Margin   = 16
)

var pastelColors = [][3]uint8{
	{179, 229, 252},
	{255, 255, 186},
	{217, 186, 255},
	{186, 255, 201},
	{255, 179, 186},
	{186, 225, 255},
	{255, 223, 186},
}

var (
	backgroundColor = color.RGBA{30, 30, 36, 255}
	wellColor       = color.RGBA{45, 45, 54, 255}
	settledColor    = color.RGBA{160, 160, 170, 255}
)

// Game implements ebiten.Game around a single board.
type Game struct {
	board *sim.Board
	pilot *autopilot.Pilot
	cfg   sim.Config

	rows         int
	frame        int
	ticksPerStep int
	paused       bool

	debug *DebugUI
}

func main() {
	seed := flag.Uint64("seed", 1, "Seed for the piece bag and the autopilot.")
	fractional := flag.Bool("fractional", false, "Use 0.1 rows with a 0.05 gravity step.")
	manual := flag.Bool("manual", false, "Steer with the arrow keys instead of the autopilot.")
	speed := flag.Int("speed", 10, "Frames between gravity ticks.")
	debug := flag.Bool("debug", true, "Show the Dear ImGui phase timing and settled grid panels.")
	flag.Parse()

	cfg := sim.DefaultConfig()
	if *fractional {
		cfg = sim.FractionalConfig()
	}
	cfg.Policy = sim.CheckOnMove

	board, err := sim.NewBoard(cfg, sim.NewBag(*seed))
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}

	game := &Game{
		board:        board,
		cfg:          cfg,
		rows:         int((cfg.Spawn.Y-cfg.Floor)/cfg.RowHeight+0.5) + 3,
		ticksPerStep: max(*speed, 1),
	}
	if !*manual {
		game.pilot = autopilot.New(*seed, 3)
	}

	if *debug {
		w, h := game.wellSize()
		game.debug = NewDebugUI("Blockfall", w+PanelWidth, h)
	} else {
		w, h := game.Layout(0, 0)
		ebiten.SetWindowSize(w, h)
		ebiten.SetWindowTitle("Blockfall")
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func (g *Game) Update() error {
	if g.debug != nil {
		g.debug.Begin()
		defer g.debug.End(g)
	}

	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.board.Reset()
	}
	if g.paused {
		return nil
	}

	if g.pilot == nil && (g.debug == nil || !g.debug.WantsKeyboard()) {
		g.handleKeys()
	}

	g.frame++
	if g.frame%g.ticksPerStep != 0 {
		return nil
	}
	if g.pilot != nil {
		g.pilot.Drive(g.board)
	}

	start := time.Now()
	_, err := g.board.Tick()
	if g.debug != nil {
		g.debug.RecordTick(time.Since(start))
	}
	if err != nil && !errors.Is(err, sim.ErrGameOver) {
		return err
	}
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.board.MoveLeft()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.board.MoveRight()
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.board.MoveDown()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	vector.DrawFilledRect(screen, Margin, Margin, float32(g.cfg.Width*CellSize), float32(g.rows*CellSize), wellColor, false)

	snap := g.board.Snapshot()
	for _, c := range snap.Settled {
		g.drawCell(screen, c, settledColor)
	}

	rgb := pastelColors[int(snap.Kind)%len(pastelColors)]
	active := color.RGBA{rgb[0], rgb[1], rgb[2], 255}
	for _, c := range snap.Active {
		g.drawCell(screen, c, active)
	}

	stats := g.board.Stats()
	status := fmt.Sprintf("%s  pieces %d  rows %d", snap.State, stats.Pieces, stats.RowsCleared)
	if g.paused {
		status += "  (paused)"
	}
	ebitenutil.DebugPrintAt(screen, status, Margin, Margin+g.rows*CellSize+4)

	if g.debug != nil {
		g.debug.Draw(screen)
	}
}

// drawCell maps a world cell to the screen. Row zero sits on the bottom of
// the well and y grows upward.
func (g *Game) drawCell(screen *ebiten.Image, c sim.Cell, clr color.Color) {
	col := float32((c.X - g.cfg.Left) / g.cfg.RowHeight)
	row := float32((c.Y - g.cfg.Floor) / g.cfg.RowHeight)
	if row >= float32(g.rows) {
		return
	}

	sx := Margin + col*CellSize
	sy := Margin + (float32(g.rows)-row-1)*CellSize
	vector.DrawFilledRect(screen, sx+1, sy+1, CellSize-2, CellSize-2, clr, false)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.wellSize()
	if g.debug != nil {
		w += PanelWidth
		g.debug.Layout(w, h)
	}
	return w, h
}

// wellSize is the screen area taken by the well and the status line.
func (g *Game) wellSize() (int, int) {
	return g.cfg.Width*CellSize + 2*Margin, g.rows*CellSize + 2*Margin + 20
}
