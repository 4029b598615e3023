package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/internal/autopilot"
	"github.com/plus3/blockfall/sim"
)

// Game couples a board to a terminal screen.
type Game struct {
	screen tcell.Screen
	board  *sim.Board
	pilot  *autopilot.Pilot
	well   *Well
	paused bool
}

// NewGame initialises the terminal. A nil pilot leaves steering to the keyboard.
func NewGame(board *sim.Board, pilot *autopilot.Pilot) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	return &Game{
		screen: screen,
		board:  board,
		pilot:  pilot,
		well:   NewWell(board.Config()),
	}, nil
}

func main() {
	seed := flag.Uint64("seed", 1, "Seed for the piece bag and the autopilot.")
	interval := flag.Duration("interval", 150*time.Millisecond, "Time between gravity ticks.")
	manual := flag.Bool("manual", false, "Steer with h/l/j or the arrow keys instead of the autopilot.")
	flag.Parse()

	cfg := sim.DefaultConfig()
	cfg.Policy = sim.CheckOnMove
	board, err := sim.NewBoard(cfg, sim.NewBag(*seed))
	if err != nil {
		log.Fatalf("Failed to create board: %v", err)
	}

	var pilot *autopilot.Pilot
	if !*manual {
		pilot = autopilot.New(*seed, 3)
	}

	g, err := NewGame(board, pilot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start terminal: %v\n", err)
		os.Exit(1)
	}
	defer g.screen.Fini()

	g.run(*interval)
}

func (g *Game) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	g.draw()
	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
			g.draw()

		case <-ticker.C:
			if g.paused {
				continue
			}
			if g.pilot != nil {
				g.pilot.Drive(g.board)
			}
			if _, err := g.board.Tick(); errors.Is(err, sim.ErrGameOver) {
				g.paused = true
			}
			g.draw()
		}
	}
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			g.board.MoveLeft()
		case tcell.KeyRight:
			g.board.MoveRight()
		case tcell.KeyDown:
			g.board.MoveDown()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'h':
				g.board.MoveLeft()
			case 'l':
				g.board.MoveRight()
			case 'j':
				g.board.MoveDown()
			case 'p':
				g.paused = !g.paused
			case 'r':
				g.board.Reset()
				g.paused = false
			}
		}

	case *tcell.EventResize:
		g.screen.Sync()
	}

	return true
}

func (g *Game) draw() {
	g.screen.Clear()

	lines := g.well.Render(g.board.Snapshot())
	for y, line := range lines {
		x := 0
		for _, r := range line {
			g.screen.SetContent(x, y, r, nil, styleFor(r))
			x++
		}
	}

	stats := g.board.Stats()
	status := fmt.Sprintf("%s  pieces %d  rows %d", g.board.State(), stats.Pieces, stats.RowsCleared)
	for i, r := range status {
		g.screen.SetContent(i, len(lines)+1, r, nil, tcell.StyleDefault)
	}

	g.screen.Show()
}

func styleFor(r rune) tcell.Style {
	switch r {
	case activeRune:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case settledRune:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}
