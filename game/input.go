package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HandleInput processes keyboard input.
func (g *Game) HandleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.CycleSpeed()
	}
}

// UpdateFrame handles input and advances by the last frame's duration.
func (g *Game) UpdateFrame() {
	g.HandleInput()
	g.Update(time.Duration(rl.GetFrameTime() * float32(time.Second)))
}
