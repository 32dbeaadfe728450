package telemetry

import "github.com/pthm-cable/shoal/components"

// Census is the population snapshot taken at the end of a window.
type Census struct {
	Counts      [components.NumSpecies]int
	FishTiers   []float64 // AI fish only
	AlgaeUnits  []float64
	PlayerTier  int
	PlayerStars int
	Dropped     uint64 // bus drops so far
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64
	runID               string

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns         int
	deaths         int
	eaten          [components.NumSpecies]int
	bitesAttempted int
	bitesHit       int
	growths        int
	shrinks        int
	regrowth       int
	stars          int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64, runID string) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		runID:               runID,
	}
}

// Record counts a lifecycle notification.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		c.spawns++
	case EventDeath:
		c.deaths++
	case EventStarCollected:
		c.stars += ev.Value
	}
}

// RecordBiteAttempt records a bite that got past the cooldown.
func (c *Collector) RecordBiteAttempt() {
	c.bitesAttempted++
}

// RecordBiteHit records a successful bite on a victim of the given species.
func (c *Collector) RecordBiteHit(victim components.Species) {
	c.bitesHit++
	c.eaten[victim]++
}

// RecordTierChange records a growth or a shrink of a fish.
func (c *Collector) RecordTierChange(grew bool) {
	if grew {
		c.growths++
	} else {
		c.shrinks++
	}
}

// RecordRegrowth records a regenerating resource gaining units.
func (c *Collector) RecordRegrowth() {
	c.regrowth++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census) WindowStats {
	var hitRate float64
	if c.bitesAttempted > 0 {
		hitRate = float64(c.bitesHit) / float64(c.bitesAttempted)
	}

	tiers := ComputeDistribution(census.FishTiers)
	algae := ComputeDistribution(census.AlgaeUnits)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Prey:           census.Counts[components.SpeciesPrey],
		Predators:      census.Counts[components.SpeciesPredator],
		PlanktonBlue:   census.Counts[components.SpeciesPlanktonBlue],
		PlanktonPurple: census.Counts[components.SpeciesPlanktonPurple],
		Algae:          census.Counts[components.SpeciesAlgae],

		Spawns: c.spawns,
		Deaths: c.deaths,

		PlanktonEaten: c.eaten[components.SpeciesPlanktonBlue] + c.eaten[components.SpeciesPlanktonPurple],
		AlgaeEaten:    c.eaten[components.SpeciesAlgae],
		FishEaten:     c.eaten[components.SpeciesPrey] + c.eaten[components.SpeciesPredator],

		BitesAttempted: c.bitesAttempted,
		BitesHit:       c.bitesHit,
		HitRate:        hitRate,

		Growths:  c.growths,
		Shrinks:  c.shrinks,
		Regrowth: c.regrowth,
		Stars:    c.stars,

		FishTierMean: tiers.Mean,
		FishTierStd:  tiers.Std,
		FishTierP10:  tiers.P10,
		FishTierP50:  tiers.P50,
		FishTierP90:  tiers.P90,

		AlgaeUnits:     sum(census.AlgaeUnits),
		AlgaeUnitsMean: algae.Mean,

		PlayerTier:  census.PlayerTier,
		PlayerStars: census.PlayerStars,

		NotificationsDropped: census.Dropped,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.deaths = 0
	c.eaten = [components.NumSpecies]int{}
	c.bitesAttempted = 0
	c.bitesHit = 0
	c.growths = 0
	c.shrinks = 0
	c.regrowth = 0
	c.stars = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
