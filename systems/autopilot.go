package systems

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/serpent/board"
)

// Tier identifies which policy layer produced a decision.
type Tier uint8

const (
	TierLoopEscape Tier = iota
	TierPath
	TierOpenSpace
	TierSafety
	TierRandom
	numTiers
)

// NumTiers is the number of policy layers.
const NumTiers = int(numTiers)

func (t Tier) String() string {
	switch t {
	case TierLoopEscape:
		return "loop_escape"
	case TierPath:
		return "path"
	case TierOpenSpace:
		return "open_space"
	case TierSafety:
		return "safety"
	case TierRandom:
		return "random"
	}
	return "unknown"
}

// Decision is the move chosen for one tick.
type Decision struct {
	Dir     board.Direction
	Tier    Tier
	PathLen int // steps to the target when Tier is TierPath
	Space   int // reachable cells behind Dir when Tier is TierOpenSpace
	Repeats int // times the current head appears in the loop history
}

// Autopilot steers the snake. Each call to Decide walks the tiers in order
// and the first one that yields a direction wins:
//
//  1. loop escape
//  2. shortest path to the target
//  3. neighbour with the most open space
//  4. breadth-first safety step
//  5. uniformly random direction
//
// An Autopilot is not safe for concurrent use.
type Autopilot struct {
	grid    board.Grid
	rng     *rand.Rand
	planner *PathPlanner
	loop    *LoopDetector
}

// NewAutopilot creates an autopilot for grid g.
func NewAutopilot(g board.Grid, params LoopParams, rng *rand.Rand) *Autopilot {
	return &Autopilot{
		grid:    g,
		rng:     rng,
		planner: NewPathPlanner(),
		loop:    NewLoopDetector(params),
	}
}

// Decide picks the next direction for body given the direction it moved
// last tick and the current target.
func (a *Autopilot) Decide(body *board.Body, prev board.Direction, target board.Cell) Decision {
	head := body.Head()

	repeats, looping := a.loop.Observe(head, target)
	if looping {
		stall := a.loop.Stall()
		if d, ok := a.loop.Escape(a.grid, body, head, prev, a.rng); ok {
			slog.Debug("loop detected",
				"head", head.String(),
				"repeats", repeats,
				"stall", stall,
				"dir", d.String(),
				"reversed", d == prev.Opposite(),
			)
			return Decision{Dir: d, Tier: TierLoopEscape, Repeats: repeats}
		}
	}

	if path, ok := a.planner.FindPath(a.grid, body, head, target); ok && len(path) > 0 {
		d, _ := board.DirectionBetween(head, path[0])
		return Decision{Dir: d, Tier: TierPath, PathLen: len(path), Repeats: repeats}
	}

	if d, space, ok := OpenSpaceStep(a.grid, body, head); ok {
		return Decision{Dir: d, Tier: TierOpenSpace, Space: space, Repeats: repeats}
	}

	if d, ok := SafeStep(a.grid, body, head); ok {
		return Decision{Dir: d, Tier: TierSafety, Repeats: repeats}
	}

	return Decision{Dir: board.Directions[a.rng.Intn(4)], Tier: TierRandom, Repeats: repeats}
}

// Loop exposes the loop detector state.
func (a *Autopilot) Loop() *LoopDetector {
	return a.loop
}

// Reset clears all decision state for a fresh round.
func (a *Autopilot) Reset() {
	a.loop.Reset()
}
