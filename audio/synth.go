// Package audio plays short synthesized cues for lifecycle notifications.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps s with a linear attack and release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly by vol. log2(0) is -Inf, so 0 is silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Cue identifies a sound.
type Cue int

const (
	CueBite Cue = iota
	CueGrow
	CueShrink
	CueDeath
	CueStar
)

// Cue lengths
const (
	biteDuration  = 60 * time.Millisecond
	growDuration  = 90 * time.Millisecond
	deathDuration = 250 * time.Millisecond
	starDuration  = 180 * time.Millisecond
	attack        = 5 * time.Millisecond
)

// NewCue builds the streamer for cue at the given sample rate and volume.
func NewCue(cue Cue, rate beep.SampleRate, vol float64) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case CueBite:
		// Short noisy chomp
		noise := NewEnvelope(NewOscillator(0, biteDuration, WaveNoise, rate), biteDuration, attack, 40*time.Millisecond, rate)
		thud := NewEnvelope(NewOscillator(140, biteDuration, WaveSine, rate), biteDuration, attack, 50*time.Millisecond, rate)
		s = beep.Mix(newVolume(noise, 0.4), newVolume(thud, 0.6))
	case CueGrow:
		// Rising fifth
		s = beep.Seq(
			NewEnvelope(NewOscillator(523.25, growDuration, WaveSine, rate), growDuration, attack, 40*time.Millisecond, rate),
			NewEnvelope(NewOscillator(783.99, growDuration, WaveSine, rate), growDuration, attack, 60*time.Millisecond, rate),
		)
	case CueShrink:
		// Falling fifth
		s = beep.Seq(
			NewEnvelope(NewOscillator(392.00, growDuration, WaveSaw, rate), growDuration, attack, 40*time.Millisecond, rate),
			NewEnvelope(NewOscillator(261.63, growDuration, WaveSaw, rate), growDuration, attack, 60*time.Millisecond, rate),
		)
	case CueDeath:
		s = NewEnvelope(NewOscillator(90, deathDuration, WaveSquare, rate), deathDuration, attack, 200*time.Millisecond, rate)
	case CueStar:
		// Two-note chime with an octave overtone
		fund := NewEnvelope(NewOscillator(987.77, starDuration, WaveSine, rate), starDuration, attack, 150*time.Millisecond, rate)
		over := NewEnvelope(NewOscillator(1975.53, starDuration, WaveSine, rate), starDuration, attack, 80*time.Millisecond, rate)
		s = beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	default:
		return nil
	}
	return newVolume(s, vol)
}
