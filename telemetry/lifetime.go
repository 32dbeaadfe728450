package telemetry

import "github.com/pthm-cable/shoal/components"

// LifetimeStats tracks per-organism statistics over its lifetime. It doubles
// as the lifetimes.csv row written when the organism dies.
type LifetimeStats struct {
	RunID           string  `csv:"run_id"`
	ID              uint32  `csv:"id"`
	Species         string  `csv:"species"`
	BirthTick       int32   `csv:"birth_tick"`
	DeathTick       int32   `csv:"death_tick"`
	SurvivalTimeSec float64 `csv:"survival_sec"`

	// Feeding
	BitesAttempted int `csv:"bites_attempted"`
	BitesHit       int `csv:"bites_hit"`

	// Size
	StartTier int `csv:"start_tier"`
	PeakTier  int `csv:"peak_tier"`
	Growths   int `csv:"growths"`
	Shrinks   int `csv:"shrinks"`

	// Times this organism lost a unit to a bite
	TimesBitten int `csv:"times_bitten"`

	Stars int `csv:"stars"`
}

// LifetimeTracker manages per-organism lifetime statistics, keyed by
// organism ID.
type LifetimeTracker struct {
	runID string
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker(runID string) *LifetimeTracker {
	return &LifetimeTracker{
		runID: runID,
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new organism.
func (lt *LifetimeTracker) Register(id uint32, species components.Species, birthTick int32, tier int) {
	lt.stats[id] = &LifetimeStats{
		RunID:     lt.runID,
		ID:        id,
		Species:   species.String(),
		BirthTick: birthTick,
		StartTier: tier,
		PeakTier:  tier,
	}
}

// Get returns the lifetime stats for an organism, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove finalizes an organism's stats and returns them, or nil if it was
// never registered.
func (lt *LifetimeTracker) Remove(id uint32, deathTick int32, dt float64) *LifetimeStats {
	s := lt.stats[id]
	if s == nil {
		return nil
	}
	delete(lt.stats, id)
	s.DeathTick = deathTick
	s.SurvivalTimeSec = float64(deathTick-s.BirthTick) * dt
	return s
}

// RecordBiteAttempt increments bite attempt count.
func (lt *LifetimeTracker) RecordBiteAttempt(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.BitesAttempted++
	}
}

// RecordBiteHit credits the biter and the victim.
func (lt *LifetimeTracker) RecordBiteHit(biter, victim uint32) {
	if s := lt.stats[biter]; s != nil {
		s.BitesHit++
	}
	if s := lt.stats[victim]; s != nil {
		s.TimesBitten++
	}
}

// RecordTier tracks tier changes and the peak tier.
func (lt *LifetimeTracker) RecordTier(id uint32, tier int, grew bool) {
	s := lt.stats[id]
	if s == nil {
		return
	}
	if grew {
		s.Growths++
	} else {
		s.Shrinks++
	}
	if tier > s.PeakTier {
		s.PeakTier = tier
	}
}

// RecordStar adds collected star value.
func (lt *LifetimeTracker) RecordStar(id uint32, value int) {
	if s := lt.stats[id]; s != nil {
		s.Stars += value
	}
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
