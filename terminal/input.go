package terminal

import "github.com/gdamore/tcell/v2"

// Action is what a key press asks the run loop to do.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionSpeed
)

// KeyAction maps a key event to an action.
func KeyAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return ActionSpeed
		case 'q', 'Q':
			return ActionQuit
		}
	}
	return ActionNone
}
