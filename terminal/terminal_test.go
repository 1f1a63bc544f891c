package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/serpent/board"
	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)
	return screen
}

func testGlyphs() config.TerminalConfig {
	return config.TerminalConfig{BodyRune: "█", HeadRune: "@", TargetRune: "●", EmptyRune: "·"}
}

func rowText(s tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestViewDraw(t *testing.T) {
	screen := newScreen(t)
	v := NewView(screen, testGlyphs())

	v.Draw(game.Frame{
		Score:  30,
		Speed:  2,
		Grid:   board.Grid{Width: 5, Height: 4},
		Body:   []board.Cell{{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}},
		Target: board.Cell{X: 4, Y: 3},
	})

	status := rowText(screen, 0, 60)
	if !strings.HasPrefix(status, "Score: 30") {
		t.Errorf("status row = %q", status)
	}
	if !strings.Contains(status, "Speed: 2x (SPACE)") {
		t.Errorf("status row = %q, want speed", status)
	}

	tests := []struct {
		name string
		cell board.Cell
		want rune
		fg   tcell.Color
	}{
		{"head", board.Cell{X: 2, Y: 1}, '@', tcell.ColorGreen},
		{"body", board.Cell{X: 1, Y: 1}, '█', tcell.ColorGreen},
		{"tail", board.Cell{X: 1, Y: 2}, '█', tcell.ColorGreen},
		{"target", board.Cell{X: 4, Y: 3}, '●', tcell.ColorRed},
		{"empty", board.Cell{X: 0, Y: 0}, '·', tcell.ColorDarkGray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := CellPos(tt.cell.X, tt.cell.Y)
			r, _, style, _ := screen.GetContent(x, y)
			fg, _, _ := style.Decompose()
			if r != tt.want {
				t.Errorf("rune = %q, want %q", r, tt.want)
			}
			if fg != tt.fg {
				t.Errorf("fg = %v, want %v", fg, tt.fg)
			}
		})
	}

	// Right border sits one column past the last cell.
	if r, _, _, _ := screen.GetContent(1+5*cellWidth, boardTop+2); r != '|' {
		t.Errorf("right border = %q, want '|'", r)
	}
}

func TestNewViewFallbackGlyphs(t *testing.T) {
	v := NewView(newScreen(t), config.TerminalConfig{})
	if v.body != '#' || v.head != '@' || v.target != '*' || v.empty != '.' {
		t.Errorf("glyphs = %q %q %q %q", v.body, v.head, v.target, v.empty)
	}
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionQuit},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionQuit},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), ActionSpeed},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionNone},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyAction(tt.ev); got != tt.want {
				t.Errorf("KeyAction = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	cfg.Speed.Levels = []int{10}

	screen := newScreen(t)
	g := game.NewGameWithOptions(game.Options{Seed: 1, Headless: true, Config: cfg})
	defer g.Unload()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	Run(ctx, screen, NewView(screen, testGlyphs()), g, 5)

	if g.Tick() != 5 {
		t.Errorf("tick = %d, want 5", g.Tick())
	}
	x, y := CellPos(g.Frame().Body[0].X, g.Frame().Body[0].Y)
	if r, _, _, _ := screen.GetContent(x, y); r != '@' {
		t.Errorf("head glyph = %q, want '@'", r)
	}
}

func TestRunQuitsOnKey(t *testing.T) {
	screen := newScreen(t)
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	g := game.NewGameWithOptions(game.Options{Seed: 1, Headless: true, Config: cfg})
	defer g.Unload()

	done := make(chan struct{})
	go func() {
		Run(context.Background(), screen, NewView(screen, testGlyphs()), g, 0)
		close(done)
	}()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not quit on 'q'")
	}
}
