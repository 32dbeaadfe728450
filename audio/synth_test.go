package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/telemetry"
)

const rate = beep.SampleRate(44100)

// drain streams s to the end and returns the sample count and peak amplitude.
func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := 0; i < k; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		n += k
		if !ok {
			return n, peak
		}
	}
}

func TestOscillatorWaves(t *testing.T) {
	tests := []struct {
		name string
		wave WaveType
	}{
		{"sine", WaveSine},
		{"square", WaveSquare},
		{"saw", WaveSaw},
		{"noise", WaveNoise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osc := NewOscillator(440, 10*time.Millisecond, tt.wave, rate)
			n, peak := drain(osc)
			if n != rate.N(10*time.Millisecond) {
				t.Errorf("samples = %d, want %d", n, rate.N(10*time.Millisecond))
			}
			if peak > 1 {
				t.Errorf("peak = %f, want at most 1", peak)
			}
			if osc.Err() != nil {
				t.Errorf("Err = %v", osc.Err())
			}
		})
	}
}

func TestOscillatorSquareValues(t *testing.T) {
	osc := NewOscillator(220, 5*time.Millisecond, WaveSquare, rate)
	buf := make([][2]float64, 50)
	n, _ := osc.Stream(buf)
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v != 1 && v != -1 {
			t.Fatalf("sample %d = %f, want ±1", i, v)
		}
	}
}

func TestEnvelopeShapes(t *testing.T) {
	osc := NewOscillator(0, 100*time.Millisecond, WaveSquare, rate) // phase stays 0: constant 1
	env := NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, rate.N(100*time.Millisecond))
	n, _ := env.Stream(buf)
	if n != len(buf) {
		t.Fatalf("streamed %d, want %d", n, len(buf))
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0 at attack start", buf[0][0])
	}
	mid := len(buf) / 2
	if buf[mid][0] != 1 {
		t.Errorf("sustain sample = %f, want 1", buf[mid][0])
	}
	if last := buf[n-1][0]; last <= 0 || last > 0.01 {
		t.Errorf("last sample = %f, want near 0", last)
	}
}

func TestNewCueFinite(t *testing.T) {
	for _, cue := range []Cue{CueBite, CueGrow, CueShrink, CueDeath, CueStar} {
		s := NewCue(cue, rate, 0.5)
		if s == nil {
			t.Fatalf("cue %d: nil streamer", cue)
		}
		n, peak := drain(s)
		if n == 0 || n > rate.N(time.Second) {
			t.Errorf("cue %d: %d samples, want under a second", cue, n)
		}
		if peak == 0 {
			t.Errorf("cue %d is silent", cue)
		}
	}
	if NewCue(Cue(42), rate, 1) != nil {
		t.Error("unknown cue produced a streamer")
	}
	if _, peak := drain(NewCue(CueDeath, rate, 0)); peak != 0 {
		t.Errorf("zero volume peak = %f, want silence", peak)
	}
}

func TestSelector(t *testing.T) {
	var sel Selector
	tests := []struct {
		name string
		ev   telemetry.Event
		cue  Cue
		ok   bool
	}{
		{"player spawn", telemetry.NewSpawnEvent(0, 1, components.SpeciesPlayer, 2), 0, false},
		{"player bite", telemetry.NewBiteEvent(1, 1, components.SpeciesPlayer, 5), CueBite, true},
		{"ai bite", telemetry.NewBiteEvent(1, 2, components.SpeciesPrey, 5), 0, false},
		{"player grows", telemetry.NewGrowthEvent(2, 1, components.SpeciesPlayer, 3), CueGrow, true},
		{"player shrinks", telemetry.NewGrowthEvent(3, 1, components.SpeciesPlayer, 2), CueShrink, true},
		{"ai growth", telemetry.NewGrowthEvent(3, 2, components.SpeciesPrey, 2), 0, false},
		{"star", telemetry.NewStarEvent(4, 1, 1), CueStar, true},
		{"fish death", telemetry.NewDeathEvent(5, 2, components.SpeciesPrey), CueDeath, true},
		{"algae death", telemetry.NewDeathEvent(5, 3, components.SpeciesAlgae), CueDeath, false},
	}
	for _, tt := range tests {
		cue, ok := sel.Cue(tt.ev)
		if ok != tt.ok || (ok && cue != tt.cue) {
			t.Errorf("%s: Cue = %d, %v; want %d, %v", tt.name, cue, ok, tt.cue, tt.ok)
		}
	}
}

func TestPlayerWithoutDevice(t *testing.T) {
	bus := telemetry.NewBus()
	sub, _ := bus.Subscribe("audio", 4)
	p := NewPlayer(44100, 0.5)
	p.Listen(sub)
	// Not initialized: events are consumed silently
	bus.Publish(telemetry.NewStarEvent(1, 1, 1))
	p.Play(CueBite)
	p.Close()
	p.Close()
}
