package terminal

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/serpent/game"
)

// Run ticks g at its current rate and draws every tick until ctx is
// cancelled, the user quits, or maxTicks is reached (0 = unlimited).
func Run(ctx context.Context, screen tcell.Screen, v *View, g *game.Game, maxTicks int) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	interval := g.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	v.Draw(g.Frame())
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch KeyAction(ev) {
				case ActionQuit:
					return
				case ActionSpeed:
					g.CycleSpeed()
				}
			case *tcell.EventResize:
				screen.Sync()
				v.Draw(g.Frame())
			}

		case <-ticker.C:
			g.Step()
			v.Draw(g.Frame())
			if maxTicks > 0 && int(g.Tick()) >= maxTicks {
				return
			}
		}

		// Speed changes come from keys and from crashes.
		if next := g.TickInterval(); next != interval {
			interval = next
			ticker.Reset(interval)
		}
	}
}
