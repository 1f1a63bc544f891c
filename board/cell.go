// Package board holds the discrete grid the snake moves on: cells, directions,
// the occupied body and target placement.
package board

import "fmt"

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// Step returns the neighbouring cell in direction d.
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns the 4-connected distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Direction is one of the four unit moves.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in enumeration order. Searches that
// break ties by "first found" rely on this order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Delta returns the unit vector for the direction. Y grows downwards.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// DirectionBetween returns the direction that moves from one cell to an
// adjacent one. ok is false when the cells are not 4-neighbours.
func DirectionBetween(from, to Cell) (d Direction, ok bool) {
	for _, d := range Directions {
		if from.Step(d) == to {
			return d, true
		}
	}
	return Up, false
}

// Grid is a fixed W×H coordinate space.
type Grid struct {
	Width  int
	Height int
}

// Contains reports whether c lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Area returns the number of cells.
func (g Grid) Area() int {
	return g.Width * g.Height
}

// Center returns the starting cell for a fresh body.
func (g Grid) Center() Cell {
	return Cell{X: g.Width / 2, Y: g.Height / 2}
}

// Index flattens c into row-major order. c must be inside the grid.
func (g Grid) Index(c Cell) int {
	return c.Y*g.Width + c.X
}
