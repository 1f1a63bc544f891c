// Package renderer draws the board and HUD with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/board"
)

// BoardRenderer draws grid lines, the body and the target.
type BoardRenderer struct {
	cellSize int32

	GridColor   rl.Color
	BodyColor   rl.Color
	HeadColor   rl.Color
	TargetColor rl.Color
}

// NewBoardRenderer creates a renderer for cells of cellSize pixels.
func NewBoardRenderer(cellSize int) *BoardRenderer {
	return &BoardRenderer{
		cellSize:    int32(cellSize),
		GridColor:   rl.Gray,
		BodyColor:   rl.Green,
		HeadColor:   rl.Lime,
		TargetColor: rl.Red,
	}
}

// Draw renders one board. body is head first.
func (r *BoardRenderer) Draw(g board.Grid, body []board.Cell, target board.Cell) {
	w := int32(g.Width) * r.cellSize
	h := int32(g.Height) * r.cellSize

	for x := int32(0); x <= int32(g.Width); x++ {
		rl.DrawLine(x*r.cellSize, 0, x*r.cellSize, h, r.GridColor)
	}
	for y := int32(0); y <= int32(g.Height); y++ {
		rl.DrawLine(0, y*r.cellSize, w, y*r.cellSize, r.GridColor)
	}

	// Tail first so the head is drawn on top
	for i := len(body) - 1; i >= 0; i-- {
		color := r.BodyColor
		if i == 0 {
			color = r.HeadColor
		}
		r.fillCell(body[i], color)
	}
	r.fillCell(target, r.TargetColor)
}

func (r *BoardRenderer) fillCell(c board.Cell, color rl.Color) {
	rl.DrawRectangle(int32(c.X)*r.cellSize+1, int32(c.Y)*r.cellSize+1, r.cellSize-1, r.cellSize-1, color)
}
