package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/serpent/renderer"
)

// Draw renders the board and HUD. Requires an open raylib window.
func (g *Game) Draw() {
	if g.boardRenderer == nil {
		g.boardRenderer = renderer.NewBoardRenderer(g.cfg.Screen.CellSize)
		g.hud = renderer.NewHUD()
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.boardRenderer.Draw(g.grid, g.body.Cells(), g.target)

	clicked := g.hud.Draw(renderer.HUDData{
		Score:        g.score,
		Best:         g.best,
		Speed:        g.Speed(),
		Episode:      g.episode,
		Tier:         g.last.Tier.String(),
		FPS:          rl.GetFPS(),
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	})

	rl.EndDrawing()

	if clicked {
		g.CycleSpeed()
	}
}
