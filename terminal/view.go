// Package terminal renders the board in a text terminal with tcell.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/game"
)

// Layout: one status row, then the board inside a one-cell border. Each
// grid cell is two columns wide so the board looks square.
const (
	boardTop  = 1
	cellWidth = 2
)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHead   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleTarget = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleScore  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSpeed  = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// View draws frames onto a tcell screen.
type View struct {
	screen tcell.Screen

	body, head, target, empty rune
}

// NewView creates a view using the configured glyphs.
func NewView(screen tcell.Screen, cfg config.TerminalConfig) *View {
	return &View{
		screen: screen,
		body:   firstRune(cfg.BodyRune, '#'),
		head:   firstRune(cfg.HeadRune, '@'),
		target: firstRune(cfg.TargetRune, '*'),
		empty:  firstRune(cfg.EmptyRune, '.'),
	}
}

func firstRune(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

// CellPos returns the screen position of grid cell (x, y).
func CellPos(x, y int) (int, int) {
	return 1 + x*cellWidth, boardTop + 1 + y
}

// Draw renders f and shows the screen.
func (v *View) Draw(f game.Frame) {
	v.screen.Clear()

	score := fmt.Sprintf("Score: %d", f.Score)
	col := drawText(v.screen, 0, 0, score, styleScore)
	col = drawText(v.screen, col+2, 0, fmt.Sprintf("Speed: %dx (SPACE)", f.Speed), styleSpeed)
	drawText(v.screen, col+2, 0, fmt.Sprintf("Best: %d  Episode: %d", f.Best, f.Episode), styleBorder)

	w, h := f.Grid.Width, f.Grid.Height
	right := 1 + w*cellWidth
	bottom := boardTop + 1 + h
	for x := 0; x <= right; x++ {
		v.screen.SetContent(x, boardTop, '-', nil, styleBorder)
		v.screen.SetContent(x, bottom, '-', nil, styleBorder)
	}
	for y := boardTop; y <= bottom; y++ {
		v.screen.SetContent(0, y, '|', nil, styleBorder)
		v.screen.SetContent(right, y, '|', nil, styleBorder)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := CellPos(x, y)
			v.screen.SetContent(sx, sy, v.empty, nil, styleEmpty)
		}
	}

	for i := len(f.Body) - 1; i >= 0; i-- {
		c := f.Body[i]
		sx, sy := CellPos(c.X, c.Y)
		if i == 0 {
			v.screen.SetContent(sx, sy, v.head, nil, styleHead)
		} else {
			v.screen.SetContent(sx, sy, v.body, nil, styleBody)
		}
	}
	sx, sy := CellPos(f.Target.X, f.Target.Y)
	v.screen.SetContent(sx, sy, v.target, nil, styleTarget)

	v.screen.Show()
}

// drawText writes s starting at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
