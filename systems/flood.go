package systems

import "github.com/pthm-cable/serpent/board"

// FloodFill counts the cells reachable from start over free in-grid cells,
// start included. start must lie inside the grid.
func FloodFill(g board.Grid, occ board.Occupancy, start board.Cell) int {
	visited := make([]bool, g.Area())
	visited[g.Index(start)] = true

	queue := make([]board.Cell, 0, 64)
	queue = append(queue, start)
	count := 0

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		count++

		for _, d := range board.Directions {
			next := current.Step(d)
			if !g.Contains(next) || occ.Contains(next) {
				continue
			}
			idx := g.Index(next)
			if visited[idx] {
				continue
			}
			visited[idx] = true
			queue = append(queue, next)
		}
	}

	return count
}

// OpenSpaceStep picks the free neighbour of head with the largest reachable
// area. Ties go to the earlier direction in enumeration order.
func OpenSpaceStep(g board.Grid, occ board.Occupancy, head board.Cell) (best board.Direction, space int, ok bool) {
	for _, d := range board.Directions {
		next := head.Step(d)
		if !g.Contains(next) || occ.Contains(next) {
			continue
		}
		if s := FloodFill(g, occ, next); s > space {
			space = s
			best = d
			ok = true
		}
	}
	return best, space, ok
}
