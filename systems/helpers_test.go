package systems

import (
	"testing"

	"github.com/pthm-cable/serpent/board"
)

// cellSet is a bare occupancy for search tests.
type cellSet map[board.Cell]struct{}

func (s cellSet) Contains(c board.Cell) bool {
	_, ok := s[c]
	return ok
}

func newCellSet(cells ...board.Cell) cellSet {
	s := make(cellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// makeBody builds a body from head-first cells.
func makeBody(t *testing.T, cells ...board.Cell) *board.Body {
	t.Helper()
	b := board.NewBody(cells[len(cells)-1])
	for i := len(cells) - 2; i >= 0; i-- {
		if err := b.Grow(cells[i]); err != nil {
			t.Fatalf("building body at %v: %v", cells[i], err)
		}
	}
	return b
}

// bfsDistance is an independent shortest-path oracle. It returns -1 when
// goal is unreachable.
func bfsDistance(g board.Grid, occ board.Occupancy, start, goal board.Cell) int {
	dist := map[board.Cell]int{start: 0}
	queue := []board.Cell{start}
	for i := 0; i < len(queue); i++ {
		c := queue[i]
		if c == goal {
			return dist[c]
		}
		for _, d := range board.Directions {
			n := c.Step(d)
			if !g.Contains(n) || occ.Contains(n) {
				continue
			}
			if _, ok := dist[n]; ok {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return -1
}
