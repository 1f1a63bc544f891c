package game

import (
	"github.com/pthm-cable/serpent/board"
	"github.com/pthm-cable/serpent/systems"
)

// Frame is a read-only view of the board for renderers and spectators.
type Frame struct {
	Tick    int32
	Episode int
	Score   int
	Best    int
	Speed   int

	Grid   board.Grid
	Body   []board.Cell // head first
	Target board.Cell
	Dir    board.Direction
	Tier   systems.Tier
}

// Frame captures the current board.
func (g *Game) Frame() Frame {
	return Frame{
		Tick:    g.tick,
		Episode: g.episode,
		Score:   g.score,
		Best:    g.best,
		Speed:   g.Speed(),
		Grid:    g.grid,
		Body:    g.body.Cells(),
		Target:  g.target,
		Dir:     g.dir,
		Tier:    g.last.Tier,
	}
}
