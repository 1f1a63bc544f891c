// Package audio plays short chimes for game events with beep.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/telemetry"
)

// Kind selects a chime.
type Kind uint8

const (
	KindFood Kind = iota
	KindCrash
)

// Player plays chimes on the default speaker. The zero value is silent.
type Player struct {
	enabled    bool
	sampleRate beep.SampleRate
	foodHz     float64
	crashHz    float64
	duration   time.Duration
	volume     float64
}

// Silent returns a player that ignores every chime.
func Silent() *Player {
	return &Player{}
}

// New initialises the speaker. On failure the returned player is silent
// and the error says why.
func New(cfg config.AudioConfig) (*Player, error) {
	p := newPlayer(cfg)
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10)); err != nil {
		return Silent(), fmt.Errorf("speaker init: %w", err)
	}
	p.enabled = true
	return p, nil
}

func newPlayer(cfg config.AudioConfig) *Player {
	return &Player{
		sampleRate: beep.SampleRate(cfg.SampleRate),
		foodHz:     cfg.FoodHz,
		crashHz:    cfg.CrashHz,
		duration:   cfg.Chime,
		volume:     cfg.Volume,
	}
}

// Chime plays the tone for kind without blocking.
func (p *Player) Chime(kind Kind) {
	if p == nil || !p.enabled {
		return
	}
	s, err := p.tone(kind)
	if err != nil {
		return
	}
	speaker.Play(s)
}

// tone builds the finite streamer for kind.
func (p *Player) tone(kind Kind) (beep.Streamer, error) {
	hz := p.foodHz
	if kind == KindCrash {
		hz = p.crashHz
	}
	sine, err := generators.SineTone(p.sampleRate, hz)
	if err != nil {
		return nil, fmt.Errorf("sine %.0fHz: %w", hz, err)
	}
	return &effects.Volume{
		Streamer: beep.Take(p.sampleRate.N(p.duration), sine),
		Base:     2,
		Volume:   math.Log2(p.volume),
		Silent:   p.volume <= 0,
	}, nil
}

// HandleEvent chimes for food, crashes and full boards.
func (p *Player) HandleEvent(ev telemetry.Event) {
	if kind, ok := KindFor(ev.Type); ok {
		p.Chime(kind)
	}
}

// KindFor maps an event to its chime.
func KindFor(t telemetry.EventType) (Kind, bool) {
	switch t {
	case telemetry.EventFood, telemetry.EventBoardFull:
		return KindFood, true
	case telemetry.EventCrash:
		return KindCrash, true
	}
	return 0, false
}

// Close releases the speaker.
func (p *Player) Close() {
	if p != nil && p.enabled {
		speaker.Close()
		p.enabled = false
	}
}
