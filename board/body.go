package board

import "errors"

// ErrOccupied is returned when a body mutation would place the head on a
// cell the body already covers.
var ErrOccupied = errors.New("board: cell already occupied")

// Occupancy answers membership queries for occupied cells.
type Occupancy interface {
	Contains(c Cell) bool
}

// Body is the ordered set of cells covered by the snake, head first.
// The slice is stored tail first so advancing is an append plus a reslice;
// the index map keeps membership O(1).
type Body struct {
	cells []Cell // cells[len-1] is the head
	index map[Cell]struct{}
}

// NewBody creates a one-cell body.
func NewBody(head Cell) *Body {
	b := &Body{
		cells: make([]Cell, 1, 16),
		index: make(map[Cell]struct{}, 16),
	}
	b.cells[0] = head
	b.index[head] = struct{}{}
	return b
}

// Head returns the head cell.
func (b *Body) Head() Cell {
	return b.cells[len(b.cells)-1]
}

// Tail returns the last cell of the body.
func (b *Body) Tail() Cell {
	return b.cells[0]
}

// Len returns the number of covered cells.
func (b *Body) Len() int {
	return len(b.cells)
}

// At returns the i-th cell counted from the head.
func (b *Body) At(i int) Cell {
	return b.cells[len(b.cells)-1-i]
}

// Cells returns a head-first copy of the body.
func (b *Body) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Contains reports whether c is covered by the body.
func (b *Body) Contains(c Cell) bool {
	_, ok := b.index[c]
	return ok
}

// Advance moves the body one step: the tail is released and head becomes
// the new head. Moving into the cell the tail just vacated is allowed.
func (b *Body) Advance(head Cell) error {
	tail := b.cells[0]
	if head != tail && b.Contains(head) {
		return ErrOccupied
	}
	delete(b.index, tail)
	b.cells = append(b.cells[1:], head)
	b.index[head] = struct{}{}
	return nil
}

// Grow prepends head and keeps the tail, lengthening the body by one.
func (b *Body) Grow(head Cell) error {
	if b.Contains(head) {
		return ErrOccupied
	}
	b.cells = append(b.cells, head)
	b.index[head] = struct{}{}
	return nil
}
