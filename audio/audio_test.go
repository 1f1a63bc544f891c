package audio

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/serpent/config"
	"github.com/pthm-cable/serpent/telemetry"
)

func testAudioConfig() config.AudioConfig {
	return config.AudioConfig{
		SampleRate: 44100,
		FoodHz:     880,
		CrashHz:    220,
		Chime:      80 * time.Millisecond,
		Volume:     0.25,
	}
}

func TestToneLengthAndVolume(t *testing.T) {
	p := newPlayer(testAudioConfig())

	for _, kind := range []Kind{KindFood, KindCrash} {
		s, err := p.tone(kind)
		if err != nil {
			t.Fatalf("tone(%d): %v", kind, err)
		}

		buf := make([][2]float64, 512)
		total := 0
		peak := 0.0
		for {
			n, ok := s.Stream(buf)
			for _, smp := range buf[:n] {
				peak = math.Max(peak, math.Abs(smp[0]))
			}
			total += n
			if !ok || n == 0 {
				break
			}
		}

		if want := p.sampleRate.N(80 * time.Millisecond); total != want {
			t.Errorf("kind %d: %d samples, want %d", kind, total, want)
		}
		if peak > 0.25+1e-9 {
			t.Errorf("kind %d: peak %.3f above volume", kind, peak)
		}
		if peak == 0 {
			t.Errorf("kind %d: silent tone", kind)
		}
	}
}

func TestToneRejectsBadFrequency(t *testing.T) {
	cfg := testAudioConfig()
	cfg.CrashHz = 40000 // above Nyquist for 44.1kHz
	p := newPlayer(cfg)
	if _, err := p.tone(KindCrash); err == nil {
		t.Error("expected error for frequency above Nyquist")
	}
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		ev   telemetry.EventType
		want Kind
		ok   bool
	}{
		{telemetry.EventFood, KindFood, true},
		{telemetry.EventBoardFull, KindFood, true},
		{telemetry.EventCrash, KindCrash, true},
		{telemetry.EventSpeed, 0, false},
		{telemetry.EventLoopEscape, 0, false},
	}
	for _, tt := range tests {
		got, ok := KindFor(tt.ev)
		if got != tt.want || ok != tt.ok {
			t.Errorf("KindFor(%v) = %d, %v; want %d, %v", tt.ev, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSilentPlayerIgnoresChimes(t *testing.T) {
	p := Silent()
	p.Chime(KindFood)
	p.HandleEvent(telemetry.Event{Type: telemetry.EventCrash})
	p.Close()

	var nilPlayer *Player
	nilPlayer.Chime(KindCrash)
	nilPlayer.Close()
}
