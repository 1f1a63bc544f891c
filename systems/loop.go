package systems

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/serpent/board"
)

// LoopParams tunes loop detection.
type LoopParams struct {
	HistorySize  int // head positions remembered
	RepeatLimit  int // trigger when the head was seen more than this many times
	StallLimit   int // trigger after more than this many ticks without getting closer
	EpisodeLimit int // clear history after more than this many triggers
}

// DefaultLoopParams returns the stock tuning.
func DefaultLoopParams() LoopParams {
	return LoopParams{
		HistorySize:  100,
		RepeatLimit:  3,
		StallLimit:   15,
		EpisodeLimit: 3,
	}
}

// LoopDetector watches recent head positions and target distance to spot
// the snake circling without progress.
type LoopDetector struct {
	params LoopParams

	// Ring buffer of recent heads plus per-cell counts
	history []board.Cell
	start   int
	size    int
	counts  map[board.Cell]int

	lastDistance int
	stall        int
	episodes     int
}

// NewLoopDetector creates a detector with empty history.
func NewLoopDetector(params LoopParams) *LoopDetector {
	if params.HistorySize < 1 {
		params.HistorySize = 1
	}
	return &LoopDetector{
		params:  params,
		history: make([]board.Cell, params.HistorySize),
		counts:  make(map[board.Cell]int, params.HistorySize),
	}
}

// Observe records one tick and reports whether a loop is detected. repeats
// is how often head now appears in the history.
func (l *LoopDetector) Observe(head, target board.Cell) (repeats int, triggered bool) {
	dist := board.Manhattan(head, target)
	if dist >= l.lastDistance {
		l.stall++
	} else {
		l.stall = 0
	}
	l.lastDistance = dist

	l.push(head)
	repeats = l.counts[head]

	return repeats, repeats > l.params.RepeatLimit || l.stall > l.params.StallLimit
}

// Escape handles a detected loop. It counts the episode, resets the stall
// counter and picks a free neighbour of head, preferring the reverse of
// prev. ok is false when head has no free neighbour.
func (l *LoopDetector) Escape(g board.Grid, occ board.Occupancy, head board.Cell, prev board.Direction, rng *rand.Rand) (board.Direction, bool) {
	l.episodes++
	l.stall = 0

	var available [4]board.Direction
	n := 0
	for _, d := range board.Directions {
		next := head.Step(d)
		if g.Contains(next) && !occ.Contains(next) {
			available[n] = d
			n++
		}
	}
	if n == 0 {
		return board.Up, false
	}

	if l.episodes > l.params.EpisodeLimit {
		l.clearHistory()
		l.episodes = 0
		slog.Debug("loop memory cleared", "head", head.String())
	}

	reverse := prev.Opposite()
	for _, d := range available[:n] {
		if d == reverse {
			return d, true
		}
	}
	return available[rng.Intn(n)], true
}

func (l *LoopDetector) push(c board.Cell) {
	capacity := len(l.history)
	if l.size == capacity {
		evicted := l.history[l.start]
		if l.counts[evicted]--; l.counts[evicted] == 0 {
			delete(l.counts, evicted)
		}
		l.history[l.start] = c
		l.start = (l.start + 1) % capacity
	} else {
		l.history[(l.start+l.size)%capacity] = c
		l.size++
	}
	l.counts[c]++
}

func (l *LoopDetector) clearHistory() {
	l.start = 0
	l.size = 0
	clear(l.counts)
}

// Len returns the number of remembered head positions.
func (l *LoopDetector) Len() int { return l.size }

// Episodes returns the loop triggers since the history was last cleared.
func (l *LoopDetector) Episodes() int { return l.episodes }

// Stall returns the consecutive ticks without getting closer to the target.
func (l *LoopDetector) Stall() int { return l.stall }

// Reset forgets all state.
func (l *LoopDetector) Reset() {
	l.clearHistory()
	l.lastDistance = 0
	l.stall = 0
	l.episodes = 0
}
