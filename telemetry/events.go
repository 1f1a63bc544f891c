// Package telemetry provides run statistics, milestones, crash snapshots and
// structured output for the autopilot.
package telemetry

import "github.com/pthm-cable/serpent/board"

// EventType identifies game events delivered to subscribers.
type EventType uint8

const (
	EventFood EventType = iota
	EventCrash
	EventBoardFull
	EventLoopEscape
	EventSpeed
)

func (t EventType) String() string {
	switch t {
	case EventFood:
		return "food"
	case EventCrash:
		return "crash"
	case EventBoardFull:
		return "board_full"
	case EventLoopEscape:
		return "loop_escape"
	case EventSpeed:
		return "speed"
	}
	return "unknown"
}

// Event is a single notable thing that happened during a tick.
type Event struct {
	Type    EventType
	Tick    int32
	Episode int
	Score   int
	Length  int
	Cell    board.Cell // head for crashes and escapes, eaten target for food
	Speed   int        // multiplier, set for EventSpeed
}
