package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Prey           int `csv:"prey"`
	Predators      int `csv:"predators"`
	PlanktonBlue   int `csv:"plankton_blue"`
	PlanktonPurple int `csv:"plankton_purple"`
	Algae          int `csv:"algae"`

	// Events during window
	Spawns int `csv:"spawns"`
	Deaths int `csv:"deaths"`

	PlanktonEaten int `csv:"plankton_eaten"`
	AlgaeEaten    int `csv:"algae_eaten"`
	FishEaten     int `csv:"fish_eaten"`

	// Bites. Attempts exclude those rejected by the cooldown.
	BitesAttempted int     `csv:"bites_attempted"`
	BitesHit       int     `csv:"bites_hit"`
	HitRate        float64 `csv:"hit_rate"`

	Growths  int `csv:"growths"`
	Shrinks  int `csv:"shrinks"`
	Regrowth int `csv:"regrowth"`
	Stars    int `csv:"stars"`

	// Fish tier distribution (sampled at window end)
	FishTierMean float64 `csv:"fish_tier_mean"`
	FishTierStd  float64 `csv:"fish_tier_std"`
	FishTierP10  float64 `csv:"fish_tier_p10"`
	FishTierP50  float64 `csv:"fish_tier_p50"`
	FishTierP90  float64 `csv:"fish_tier_p90"`

	// Algae stock
	AlgaeUnits     float64 `csv:"algae_units"`
	AlgaeUnitsMean float64 `csv:"algae_units_mean"`

	PlayerTier  int `csv:"player_tier"`
	PlayerStars int `csv:"player_stars"`

	NotificationsDropped uint64 `csv:"notifications_dropped"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles. The input is not modified.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// sum returns the total of values, 0 for an empty slice.
func sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("prey", s.Prey),
		slog.Int("predators", s.Predators),
		slog.Int("plankton_blue", s.PlanktonBlue),
		slog.Int("plankton_purple", s.PlanktonPurple),
		slog.Int("algae", s.Algae),
		slog.Int("spawns", s.Spawns),
		slog.Int("deaths", s.Deaths),
		slog.Int("plankton_eaten", s.PlanktonEaten),
		slog.Int("algae_eaten", s.AlgaeEaten),
		slog.Int("fish_eaten", s.FishEaten),
		slog.Int("bites_attempted", s.BitesAttempted),
		slog.Int("bites_hit", s.BitesHit),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("growths", s.Growths),
		slog.Int("shrinks", s.Shrinks),
		slog.Int("regrowth", s.Regrowth),
		slog.Int("stars", s.Stars),
		slog.Float64("fish_tier_mean", s.FishTierMean),
		slog.Float64("fish_tier_std", s.FishTierStd),
		slog.Float64("fish_tier_p50", s.FishTierP50),
		slog.Float64("algae_units", s.AlgaeUnits),
		slog.Int("player_tier", s.PlayerTier),
		slog.Int("player_stars", s.PlayerStars),
		slog.Uint64("notifications_dropped", s.NotificationsDropped),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"prey", s.Prey,
		"predators", s.Predators,
		"plankton_blue", s.PlanktonBlue,
		"plankton_purple", s.PlanktonPurple,
		"algae", s.Algae,
		"deaths", s.Deaths,
		"bites_hit", s.BitesHit,
		"hit_rate", s.HitRate,
		"growths", s.Growths,
		"fish_tier_mean", s.FishTierMean,
		"algae_units", s.AlgaeUnits,
		"player_tier", s.PlayerTier,
		"notifications_dropped", s.NotificationsDropped,
	)
}
