package systems

import "github.com/pthm-cable/serpent/board"

// SafeStep runs a breadth-first search from head over free cells and
// reports the direction of the first cell it discovers. A direction is only
// produced while the head itself is being expanded, so the result is the
// first free neighbour in enumeration order; when the head has no free
// neighbour the search ends without one.
func SafeStep(g board.Grid, occ board.Occupancy, head board.Cell) (board.Direction, bool) {
	visited := map[board.Cell]struct{}{head: {}}
	queue := []board.Cell{head}

	for i := 0; i < len(queue); i++ {
		current := queue[i]
		for _, d := range board.Directions {
			next := current.Step(d)
			if !g.Contains(next) || occ.Contains(next) {
				continue
			}
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
			if current == head {
				return d, true
			}
		}
	}
	return board.Up, false
}
