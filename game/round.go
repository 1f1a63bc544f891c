package game

import (
	"math/rand"

	"github.com/pthm-cable/serpent/board"
)

// round is the state a fresh episode starts from.
type round struct {
	body   *board.Body
	target board.Cell
	dir    board.Direction
}

// newRound places a one-cell body in the centre with a random heading and
// a target chosen by the usual placement policy.
func newRound(g board.Grid, rng *rand.Rand, attempts int) round {
	body := board.NewBody(g.Center())
	dir := board.Directions[rng.Intn(len(board.Directions))]
	// A one-cell body never fills a grid of at least 2x2.
	target, _ := board.PlaceTarget(g, body, rng, attempts)
	return round{body: body, target: target, dir: dir}
}
