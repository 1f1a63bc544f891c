// Package spectate streams live boards to WebSocket spectators.
package spectate

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm-cable/serpent/game"
)

// Frame is the wire form of a board, sent as one binary msgpack message.
type Frame struct {
	Tick    int32 `msgpack:"tick"`
	Episode int   `msgpack:"episode"`
	Score   int   `msgpack:"score"`
	Best    int   `msgpack:"best"`
	Speed   int   `msgpack:"speed"`

	Width  int      `msgpack:"w"`
	Height int      `msgpack:"h"`
	Body   [][2]int `msgpack:"body"` // head first
	Target [2]int   `msgpack:"target"`
	Dir    string   `msgpack:"dir"`
	Tier   string   `msgpack:"tier"`
}

// NewFrame converts a game frame to its wire form.
func NewFrame(f game.Frame) Frame {
	body := make([][2]int, len(f.Body))
	for i, c := range f.Body {
		body[i] = [2]int{c.X, c.Y}
	}
	return Frame{
		Tick:    f.Tick,
		Episode: f.Episode,
		Score:   f.Score,
		Best:    f.Best,
		Speed:   f.Speed,
		Width:   f.Grid.Width,
		Height:  f.Grid.Height,
		Body:    body,
		Target:  [2]int{f.Target.X, f.Target.Y},
		Dir:     f.Dir.String(),
		Tier:    f.Tier.String(),
	}
}

// Encode marshals the frame.
func (f Frame) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", f.Tick, err)
	}
	return data, nil
}
