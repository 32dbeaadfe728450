package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase identifies a timed section of the simulation step.
type Phase uint8

// Phases of the simulation step, in tick order.
const (
	PhaseSpatialGrid Phase = iota
	PhaseSensors
	PhaseRegeneration
	PhaseBehavior
	PhasePredation
	PhaseZones
	PhasePhysics
	PhaseCleanup
	PhasePopulation
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{
	"spatial_grid", "sensors", "regeneration", "behavior", "predation",
	"zones", "physics", "cleanup", "population", "telemetry",
}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases returns every phase in tick order.
func Phases() []Phase {
	out := make([]Phase, NumPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// noPhase marks that no phase is running.
const noPhase = NumPhases

// perfSample is the timing of one tick.
type perfSample struct {
	tick   time.Duration
	phases [NumPhases]time.Duration
}

// PerfCollector times ticks and their phases over a rolling window.
// Samples are fixed-size so recording a tick never allocates.
type PerfCollector struct {
	samples []perfSample
	next    int
	count   int

	cur        perfSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase

	lastFrame     time.Time
	frameDuration time.Duration

	scratch []float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]perfSample, windowSize),
		phase:   noPhase,
		scratch: make([]float64, 0, windowSize),
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = perfSample{}
	p.phase = noPhase
}

// StartPhase ends the running phase, if any, and starts timing ph.
// A phase entered more than once in a tick accumulates.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = ph
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase < NumPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes the tick and stores its sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = noPhase
	p.cur.tick = now.Sub(p.tickStart)

	p.samples[p.next] = p.cur
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// RecordFrame records the time since the previous frame (graphical mode).
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseStats is the window average of one phase.
type PhaseStats struct {
	Avg time.Duration
	Pct float64 // share of the average tick, 0-100
}

// PerfStats summarizes the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	P50TickDuration time.Duration
	P95TickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	Phases [NumPhases]PhaseStats

	FrameDuration time.Duration
	FPS           float64
}

// Phase returns the stats of one phase.
func (s PerfStats) Phase(ph Phase) PhaseStats {
	if ph >= NumPhases {
		return PhaseStats{}
	}
	return s.Phases[ph]
}

// Stats aggregates the samples in the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	s.FrameDuration = p.frameDuration
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.count == 0 {
		return s
	}

	ticks := p.scratch[:0]
	var phaseSum [NumPhases]time.Duration
	for i := 0; i < p.count; i++ {
		smp := &p.samples[i]
		ticks = append(ticks, float64(smp.tick))
		for ph, d := range smp.phases {
			phaseSum[ph] += d
		}
	}
	sort.Float64s(ticks)
	p.scratch = ticks

	n := time.Duration(p.count)
	s.AvgTickDuration = time.Duration(stat.Mean(ticks, nil))
	s.P50TickDuration = time.Duration(stat.Quantile(0.5, stat.Empirical, ticks, nil))
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	for ph := range phaseSum {
		avg := phaseSum[ph] / n
		s.Phases[ph].Avg = avg
		if s.AvgTickDuration > 0 {
			s.Phases[ph].Pct = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs the window summary.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for ph, st := range s.Phases {
		if st.Pct > 0.1 {
			attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", float64(int(st.Pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the perf.csv row.
type PerfStatsCSV struct {
	RunID           string  `csv:"run_id"`
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	P50TickUS       int64   `csv:"p50_tick_us"`
	P95TickUS       int64   `csv:"p95_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	Bodies          int     `csv:"bodies"`
	SpatialGridPct  float64 `csv:"spatial_grid_pct"`
	SensorsPct      float64 `csv:"sensors_pct"`
	RegenerationPct float64 `csv:"regeneration_pct"`
	BehaviorPct     float64 `csv:"behavior_pct"`
	PredationPct    float64 `csv:"predation_pct"`
	ZonesPct        float64 `csv:"zones_pct"`
	PhysicsPct      float64 `csv:"physics_pct"`
	CleanupPct      float64 `csv:"cleanup_pct"`
	PopulationPct   float64 `csv:"population_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(runID string, windowEnd int32, bodies int) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:           runID,
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		P50TickUS:       s.P50TickDuration.Microseconds(),
		P95TickUS:       s.P95TickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		Bodies:          bodies,
		SpatialGridPct:  s.Phases[PhaseSpatialGrid].Pct,
		SensorsPct:      s.Phases[PhaseSensors].Pct,
		RegenerationPct: s.Phases[PhaseRegeneration].Pct,
		BehaviorPct:     s.Phases[PhaseBehavior].Pct,
		PredationPct:    s.Phases[PhasePredation].Pct,
		ZonesPct:        s.Phases[PhaseZones].Pct,
		PhysicsPct:      s.Phases[PhasePhysics].Pct,
		CleanupPct:      s.Phases[PhaseCleanup].Pct,
		PopulationPct:   s.Phases[PhasePopulation].Pct,
		TelemetryPct:    s.Phases[PhaseTelemetry].Pct,
	}
}
