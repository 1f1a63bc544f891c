package board

import "math/rand"

// PlaceTarget picks a free cell for the next target. It samples attempts
// random cells and keeps the free one farthest (Manhattan) from the head.
// When no sample lands on a free cell it falls back to a uniformly chosen
// free cell. ok is false only when the body covers the whole grid.
func PlaceTarget(g Grid, body *Body, rng *rand.Rand, attempts int) (target Cell, ok bool) {
	head := body.Head()
	best := -1

	for i := 0; i < attempts; i++ {
		c := Cell{X: rng.Intn(g.Width), Y: rng.Intn(g.Height)}
		if body.Contains(c) {
			continue
		}
		if d := Manhattan(c, head); d > best {
			best = d
			target = c
		}
	}
	if best >= 0 {
		return target, true
	}

	used := body.Len()
	if used >= g.Area() {
		return Cell{}, false
	}
	n := rng.Intn(g.Area() - used)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Cell{X: x, Y: y}
			if body.Contains(c) {
				continue
			}
			if n == 0 {
				return c, true
			}
			n--
		}
	}
	return Cell{}, false
}
