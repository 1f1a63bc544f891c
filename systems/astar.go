package systems

import (
	"container/heap"

	"github.com/pthm-cable/serpent/board"
)

// PathPlanner runs A* over the snake grid. Cells are 4-connected with unit
// cost and the Manhattan heuristic, so the first path that reaches the goal
// is a shortest one.
type PathPlanner struct {
	// Reusable data structures (cleared between searches)
	openHeap  nodeHeap
	open      map[board.Cell]*astarNode
	closedSet map[board.Cell]struct{}
	cameFrom  map[board.Cell]board.Cell
	gScore    map[board.Cell]int
	seq       int
}

// astarNode is a node in the A* search.
type astarNode struct {
	cell  board.Cell
	f     int // f = g + h (priority)
	seq   int // insertion order, breaks f ties first-found
	index int // heap index
}

// nodeHeap implements heap.Interface for the open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewPathPlanner creates a planner with buffers sized for a typical board.
func NewPathPlanner() *PathPlanner {
	return &PathPlanner{
		open:      make(map[board.Cell]*astarNode, 64),
		closedSet: make(map[board.Cell]struct{}, 256),
		cameFrom:  make(map[board.Cell]board.Cell, 256),
		gScore:    make(map[board.Cell]int, 256),
	}
}

// FindPath returns the cells from start to goal, excluding start. A cell is
// walkable when it is inside the grid and not occupied; start itself is
// never checked. ok is false when goal cannot be reached.
func (p *PathPlanner) FindPath(g board.Grid, occ board.Occupancy, start, goal board.Cell) (path []board.Cell, ok bool) {
	if start == goal {
		return []board.Cell{}, true
	}

	p.reset()

	p.gScore[start] = 0
	p.push(start, board.Manhattan(start, goal))

	for p.openHeap.Len() > 0 {
		current := heap.Pop(&p.openHeap).(*astarNode)
		delete(p.open, current.cell)

		if current.cell == goal {
			return p.reconstructPath(start, goal), true
		}

		p.closedSet[current.cell] = struct{}{}
		tentativeG := p.gScore[current.cell] + 1

		for _, d := range board.Directions {
			next := current.cell.Step(d)
			if !g.Contains(next) || occ.Contains(next) {
				continue
			}
			if _, closed := p.closedSet[next]; closed {
				continue
			}

			existingG, seen := p.gScore[next]
			if seen && tentativeG >= existingG {
				continue
			}

			p.cameFrom[next] = current.cell
			p.gScore[next] = tentativeG
			f := tentativeG + board.Manhattan(next, goal)

			if node, queued := p.open[next]; queued {
				node.f = f
				heap.Fix(&p.openHeap, node.index)
			} else {
				p.push(next, f)
			}
		}
	}

	return nil, false
}

func (p *PathPlanner) push(c board.Cell, f int) {
	node := &astarNode{cell: c, f: f, seq: p.seq}
	p.seq++
	p.open[c] = node
	heap.Push(&p.openHeap, node)
}

func (p *PathPlanner) reset() {
	p.openHeap = p.openHeap[:0]
	clear(p.open)
	clear(p.closedSet)
	clear(p.cameFrom)
	clear(p.gScore)
	p.seq = 0
}

// reconstructPath walks predecessor links back from goal and reverses them.
func (p *PathPlanner) reconstructPath(start, goal board.Cell) []board.Cell {
	var path []board.Cell
	for current := goal; current != start; current = p.cameFrom[current] {
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
