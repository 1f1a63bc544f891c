package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds the values shown over the board.
type HUDData struct {
	Score   int
	Best    int
	Speed   int
	Episode int
	Tier    string
	FPS     int32

	ScreenWidth  int32
	ScreenHeight int32
}

// HUD draws the score line and the speed control.
type HUD struct {
	fontSize int32
}

// NewHUD creates a HUD.
func NewHUD() *HUD {
	return &HUD{fontSize: 20}
}

// Draw renders the HUD and reports whether the speed button was clicked.
func (h *HUD) Draw(data HUDData) bool {
	rl.DrawText(fmt.Sprintf("Score: %d", data.Score), 10, 10, h.fontSize, rl.White)
	rl.DrawText(fmt.Sprintf("Speed: %dx (SPACE)", data.Speed), 10, 10+h.fontSize+4, h.fontSize, rl.Blue)

	status := fmt.Sprintf("Best %d | Episode %d | %s | FPS %d", data.Best, data.Episode, data.Tier, data.FPS)
	rl.DrawText(status, 10, data.ScreenHeight-18, 12, rl.LightGray)

	btn := rl.Rectangle{X: float32(data.ScreenWidth - 90), Y: 10, Width: 80, Height: 24}
	return gui.Button(btn, fmt.Sprintf("%dx", data.Speed))
}
