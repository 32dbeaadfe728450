package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorTracksPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseBehavior)
		time.Sleep(300 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Fatalf("AvgTickDuration = %v, want > 0", stats.AvgTickDuration)
	}
	grid := stats.Phase(PhaseSpatialGrid)
	behavior := stats.Phase(PhaseBehavior)
	if grid.Avg <= 0 || behavior.Avg <= 0 {
		t.Errorf("phase averages = %v / %v, want both > 0", grid.Avg, behavior.Avg)
	}
	if behavior.Pct <= grid.Pct {
		t.Errorf("behavior pct = %v, want above spatial grid pct %v", behavior.Pct, grid.Pct)
	}
	if p := stats.Phase(PhasePhysics); p.Avg != 0 {
		t.Errorf("physics avg = %v, want 0 for an unused phase", p.Avg)
	}
}

func TestPerfCollectorReenteredPhaseAccumulates(t *testing.T) {
	pc := NewPerfCollector(1)
	pc.StartTick()
	pc.StartPhase(PhaseBehavior)
	time.Sleep(200 * time.Microsecond)
	pc.StartPhase(PhasePredation)
	pc.StartPhase(PhaseBehavior)
	time.Sleep(200 * time.Microsecond)
	pc.EndTick()

	if avg := pc.Stats().Phase(PhaseBehavior).Avg; avg < 400*time.Microsecond {
		t.Errorf("behavior avg = %v, want at least 400µs", avg)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpatialGrid)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.TicksPerSecond <= 0 {
		t.Errorf("TicksPerSecond = %v, want > 0", stats.TicksPerSecond)
	}
	if stats.P50TickDuration > stats.P95TickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("p50 %v, p95 %v, max %v are not ordered", stats.P50TickDuration, stats.P95TickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorEmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty stats = %+v, want zero", stats)
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("FrameDuration = %v, want >= 15ms", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want in (0, 70]", stats.FPS)
	}
}

func TestPhaseNames(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseSpatialGrid, "spatial_grid"},
		{PhasePredation, "predation"},
		{PhaseTelemetry, "telemetry"},
		{NumPhases, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
	if n := len(Phases()); n != int(NumPhases) {
		t.Errorf("len(Phases()) = %d, want %d", n, NumPhases)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.AvgTickDuration = 250 * time.Microsecond
	s.Phases[PhasePhysics].Pct = 40
	s.Phases[PhaseSensors].Pct = 10

	row := s.ToCSV("run", 600, 42)
	if row.AvgTickUS != 250 || row.PhysicsPct != 40 || row.SensorsPct != 10 || row.Bodies != 42 {
		t.Errorf("ToCSV = %+v", row)
	}
	if row.RunID != "run" || row.WindowEnd != 600 {
		t.Errorf("run/window = %q/%d, want run/600", row.RunID, row.WindowEnd)
	}
}
