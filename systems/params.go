package systems

import (
	"math"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

// PlanktonParams holds flocking drifter tuning in simulation units.
type PlanktonParams struct {
	NormalSpeed     float64
	FleeSpeed       float64
	TurnRate        float64 // radians per second
	SmoothTime      float64
	NeighborRadius  float64
	Separation      float64
	Alignment       float64
	Cohesion        float64
	FleeDistance    float64
	ContagionRadius float64 // absolute distance
	PanicTime       float64
	ForceGain       float64
	MaxForce        float64

	StuckInterval  float64
	StuckThreshold float64
	StuckTurn      float64 // radians
	StuckImpulse   float64

	Avoid AvoidanceParams
}

// Flock returns the flocking weights.
func (p *PlanktonParams) Flock() FlockParams {
	return FlockParams{
		Radius:     p.NeighborRadius,
		Separation: p.Separation,
		Alignment:  p.Alignment,
		Cohesion:   p.Cohesion,
	}
}

// FishParams holds AI fish tuning. Prey and predators share the shape.
type FishParams struct {
	MoveSpeed    float64
	TurnRate     float64 // radians per second
	Wander       WanderParams
	SmoothTime   float64
	SenseRadius  float64
	ScanMin      float64
	ScanMax      float64
	StopDistance float64
	SeekBoost    float64
	ForceGain    float64
	MaxForce     float64
	EatChance    float64
	AlwaysFeed   bool

	Avoid AvoidanceParams
}

// PlayerParams holds player locomotion tuning.
type PlayerParams struct {
	MaxSpeed     float64
	Accel        float64
	Decel        float64
	TurnRate     float64 // radians per second
	WallDistance float64
}

// BiteParams holds the shared bite protocol.
type BiteParams struct {
	Cooldown    float64
	BitesToGrow int
	CloseDelay  float64
}

// Params is the species parameter table behavior dispatch reads from.
type Params struct {
	Plankton PlanktonParams
	Prey     FishParams
	Predator FishParams
	Player   PlayerParams
	Bite     BiteParams
}

// NewParams converts a loaded config into simulation units.
func NewParams(cfg *config.Config) *Params {
	pc := cfg.Plankton
	return &Params{
		Plankton: PlanktonParams{
			NormalSpeed:     pc.NormalSpeed,
			FleeSpeed:       pc.FleeSpeed,
			TurnRate:        deg(pc.TurnSpeed),
			SmoothTime:      pc.SmoothTime,
			NeighborRadius:  pc.NeighborRadius,
			Separation:      pc.SeparationWeight,
			Alignment:       pc.AlignmentWeight,
			Cohesion:        pc.CohesionWeight,
			FleeDistance:    pc.FleeDistance,
			ContagionRadius: pc.ContagionRadius * pc.NeighborRadius,
			PanicTime:       pc.PanicTime,
			ForceGain:       pc.ForceGain,
			MaxForce:        pc.MaxForce,
			StuckInterval:   pc.StuckCheckInterval,
			StuckThreshold:  pc.StuckThreshold,
			StuckTurn:       deg(pc.StuckTurnAngle),
			StuckImpulse:    pc.StuckImpulse,
			Avoid:           AvoidanceFromConfig(pc.Avoidance),
		},
		Prey:     fishParams(cfg.VegFish),
		Predator: fishParams(cfg.MeatFish),
		Player: PlayerParams{
			MaxSpeed:     cfg.Player.MaxSpeed,
			Accel:        cfg.Player.Acceleration,
			Decel:        cfg.Player.Deceleration,
			TurnRate:     deg(cfg.Player.TurnSpeed),
			WallDistance: cfg.Player.WallDistance,
		},
		Bite: BiteParams{
			Cooldown:    cfg.Bite.Cooldown,
			BitesToGrow: cfg.Bite.BitesToGrow,
			CloseDelay:  cfg.Bite.MouthCloseDelay,
		},
	}
}

func fishParams(fc config.FishConfig) FishParams {
	return FishParams{
		MoveSpeed: fc.MoveSpeed,
		TurnRate:  deg(fc.TurnSpeed),
		Wander: WanderParams{
			StraightMoveTime: fc.StraightMoveTime,
			RandomTurn:       deg(fc.RandomTurnAngle),
		},
		SmoothTime:   fc.SmoothTime,
		SenseRadius:  fc.SenseRadius,
		ScanMin:      fc.ScanIntervalMin,
		ScanMax:      fc.ScanIntervalMax,
		StopDistance: fc.StopDistance,
		SeekBoost:    fc.SeekBoost,
		ForceGain:    fc.ForceGain,
		MaxForce:     fc.MaxForce,
		EatChance:    fc.EatDecisionChance,
		AlwaysFeed:   fc.DebugAlwaysFeed,
		Avoid:        AvoidanceFromConfig(fc.Avoidance),
	}
}

// Fish returns the fish parameters for a species, or nil.
func (p *Params) Fish(s components.Species) *FishParams {
	switch s {
	case components.SpeciesPrey:
		return &p.Prey
	case components.SpeciesPredator:
		return &p.Predator
	}
	return nil
}

// CruiseSpeed is the nominal speed of a species. Speed and turn clamps are
// twice the nominal values.
func (p *Params) CruiseSpeed(s components.Species) float64 {
	switch {
	case s.IsPlankton():
		return p.Plankton.NormalSpeed
	case s == components.SpeciesPlayer:
		return p.Player.MaxSpeed
	}
	if f := p.Fish(s); f != nil {
		return f.MoveSpeed
	}
	return 0
}

// Limits returns the speed and turn-rate clamps for a species.
func (p *Params) Limits(s components.Species) (maxSpeed, maxTurn float64) {
	switch {
	case s.IsPlankton():
		return 2 * math.Max(p.Plankton.FleeSpeed, p.Plankton.NormalSpeed), 2 * p.Plankton.TurnRate
	case s == components.SpeciesPlayer:
		return p.Player.MaxSpeed, p.Player.TurnRate
	}
	if f := p.Fish(s); f != nil {
		return 2 * f.MoveSpeed, 2 * f.TurnRate
	}
	return 0, 0
}
