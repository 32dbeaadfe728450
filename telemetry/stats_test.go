package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/shoal/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{3, 1, 2, 1, 3}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-2) > 1e-9 {
		t.Errorf("mean = %v, want 2", d.Mean)
	}
	// Sample std of {1,1,2,3,3}: sqrt(4/4)
	if math.Abs(d.Std-1) > 1e-9 {
		t.Errorf("std = %v, want 1", d.Std)
	}
	if d.P50 != 2 {
		t.Errorf("p50 = %v, want 2", d.P50)
	}
	if values[0] != 3 {
		t.Error("input was reordered")
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty = %+v, want zero", d)
	}
	d := ComputeDistribution([]float64{2})
	if d.Mean != 2 || d.Std != 0 || d.P90 != 2 {
		t.Errorf("single = %+v, want mean 2 std 0", d)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 0.1, "run")
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window ticks = %d, want 10", c.WindowDurationTicks())
	}

	c.Record(NewSpawnEvent(1, 1, components.SpeciesPrey, 1))
	c.Record(NewDeathEvent(2, 5, components.SpeciesAlgae))
	c.Record(NewStarEvent(3, 9, 2))
	for i := 0; i < 4; i++ {
		c.RecordBiteAttempt()
	}
	c.RecordBiteHit(components.SpeciesAlgae)
	c.RecordBiteHit(components.SpeciesPlanktonBlue)
	c.RecordBiteHit(components.SpeciesPlanktonPurple)
	c.RecordTierChange(true)
	c.RecordTierChange(false)

	if c.ShouldFlush(9) {
		t.Error("ShouldFlush(9) = true before the window ended")
	}
	if !c.ShouldFlush(10) {
		t.Error("ShouldFlush(10) = false at window end")
	}

	var census Census
	census.Counts[components.SpeciesPrey] = 4
	census.Counts[components.SpeciesAlgae] = 2
	census.AlgaeUnits = []float64{3, 1}
	census.FishTiers = []float64{1, 2, 3}
	s := c.Flush(10, census)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"prey", float64(s.Prey), 4},
		{"spawns", float64(s.Spawns), 1},
		{"deaths", float64(s.Deaths), 1},
		{"stars", float64(s.Stars), 2},
		{"bites_hit", float64(s.BitesHit), 3},
		{"hit_rate", s.HitRate, 0.75},
		{"plankton_eaten", float64(s.PlanktonEaten), 2},
		{"algae_eaten", float64(s.AlgaeEaten), 1},
		{"growths", float64(s.Growths), 1},
		{"shrinks", float64(s.Shrinks), 1},
		{"algae_units", s.AlgaeUnits, 4},
		{"fish_tier_mean", s.FishTierMean, 2},
		{"sim_time", s.SimTimeSec, 1},
	}
	for _, tt := range checks {
		if math.Abs(tt.got-tt.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if s.RunID != "run" {
		t.Errorf("run id = %q, want run", s.RunID)
	}

	next := c.Flush(20, Census{})
	if next.BitesHit != 0 || next.Spawns != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}
