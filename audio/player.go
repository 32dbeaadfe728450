package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/telemetry"
)

// Selector picks the cue for a notification. It tracks the player's tier so
// growth and shrink sound different.
type Selector struct {
	tier int
}

// Cue returns the cue for ev and whether ev should be heard at all.
func (s *Selector) Cue(ev telemetry.Event) (Cue, bool) {
	switch ev.Type {
	case telemetry.EventBite:
		return CueBite, ev.Species == components.SpeciesPlayer
	case telemetry.EventGrowthTierChanged:
		if ev.Species != components.SpeciesPlayer {
			return 0, false
		}
		prev := s.tier
		s.tier = ev.Value
		if prev != 0 && ev.Value < prev {
			return CueShrink, true
		}
		return CueGrow, true
	case telemetry.EventSpawn:
		if ev.Species == components.SpeciesPlayer {
			// A respawned player starts over
			s.tier = ev.Value
		}
	case telemetry.EventStarCollected:
		return CueStar, true
	case telemetry.EventDeath:
		return CueDeath, ev.Species.IsFish()
	}
	return 0, false
}

// Player mixes cues onto the speaker.
type Player struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	initialized bool

	sel  Selector
	done chan struct{}
	wg   sync.WaitGroup
}

// NewPlayer creates a player; nothing is heard until Init succeeds.
func NewPlayer(sampleRate int, volume float64) *Player {
	return &Player{
		rate:   beep.SampleRate(sampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
		done:   make(chan struct{}),
	}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues cue on the mixer.
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := NewCue(cue, p.rate, p.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Listen plays cues for events from sub until the subscription closes or
// the player is closed.
func (p *Player) Listen(sub *telemetry.Subscription) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-p.done:
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				if cue, ok := p.sel.Cue(ev); ok {
					p.Play(cue)
				}
			}
		}
	}()
}

// Close stops listening and silences the mixer.
func (p *Player) Close() {
	select {
	case <-p.done:
		return
	default:
		close(p.done)
	}
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		speaker.Lock()
		p.mixer.Clear()
		speaker.Unlock()
		p.initialized = false
	}
}
