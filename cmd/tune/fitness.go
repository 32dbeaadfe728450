package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A fish species below minViablePop for extinctionGraceSec counts as extinct.
const (
	minViablePop       = 2
	extinctionGraceSec = 20.0
	warmupSec          = 5.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32 // ticks before functional extinction, or maxTicks
	windowStats   []telemetry.WindowStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Seeds run in parallel; each builds its own game from its own config.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	fitness := make([]float64, len(fe.seeds))
	quality := make([]float64, len(fe.seeds))

	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			q := computeQuality(r.windowStats)
			quality[idx] = q
			fitness[idx] = computeFitness(r.survivalTicks, q)
		}(i, seed)
	}
	wg.Wait()

	fe.mu.Lock()
	fe.lastQuality = stat.Mean(quality, nil)
	fe.mu.Unlock()

	return stat.Mean(fitness, nil)
}

// runSimulation executes a single headless run until functional extinction
// of either fish species or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{survivalTicks: fe.maxTicks}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		FeedAddr:       "off",
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.survivalTicks = 0
		return result
	}
	defer g.Unload()

	dt := cfg.Physics.DT
	warmupTicks := int32(warmupSec / dt)
	var preyBelow, predBelow float64

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		prey := g.Count(components.SpeciesPrey)
		pred := g.Count(components.SpeciesPredator)
		if prey == 0 || pred == 0 {
			result.survivalTicks = tick
			return result
		}

		preyBelow = belowFor(preyBelow, prey, dt)
		predBelow = belowFor(predBelow, pred, dt)
		if preyBelow >= extinctionGraceSec || predBelow >= extinctionGraceSec {
			result.survivalTicks = tick
			return result
		}
	}
	return result
}

// belowFor extends the time a population has spent under minViablePop.
func belowFor(acc float64, count int, dt float64) float64 {
	if count < minViablePop {
		return acc + dt
	}
	return 0
}

// copyConfig returns a copy of the base config that parameters can be
// written into. Slices are shared; tuning never touches them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Audio.Enabled = false
	cfg.Telemetry.TrackLifetime = false
	return &cfg
}

// computeFitness combines survival and quality into a scalar (lower = better).
// Survival dominates; quality adds up to a 20% bonus.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.25
	qualityWeightFood      = 0.20
	qualityWeightHunting   = 0.20

	qualityWarmupWindows = 2
	targetPreyPerPred    = 4.0
)

// computeQuality scores coexistence in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratio, food, hunt []float64
	var prey, pred []float64
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Prey < minViablePop || w.Predators < minViablePop {
			continue
		}
		prey = append(prey, float64(w.Prey))
		pred = append(pred, float64(w.Predators))

		logErr := math.Log(float64(w.Prey) / float64(w.Predators) / targetPreyPerPred)
		ratio = append(ratio, math.Exp(-logErr*logErr))

		// Prey should be finding food
		eaten := float64(w.AlgaeEaten + w.PlanktonEaten)
		food = append(food, 1-math.Exp(-eaten/float64(w.Prey)))

		if w.BitesAttempted > 0 {
			hunt = append(hunt, math.Exp(-math.Pow((w.HitRate-0.5)/0.3, 2)))
		}
	}
	if len(ratio) == 0 {
		return 0
	}

	stability := 0.0
	if len(prey) >= 2 {
		cp, cd := cv(prey), cv(pred)
		stability = math.Exp(-(cp*cp + cd*cd))
	}

	q := qualityWeightRatio*stat.Mean(ratio, nil) +
		qualityWeightStability*stability +
		qualityWeightFood*stat.Mean(food, nil) +
		qualityWeightHunting*meanOrZero(hunt)
	return clampTo(q, 0, 1)
}

// cv computes the coefficient of variation (std/mean).
func cv(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
