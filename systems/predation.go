package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// BiteOutcome is the result of a bite attempt. Every failure is local and
// leaves all state untouched.
type BiteOutcome uint8

const (
	BiteOK BiteOutcome = iota
	BiteCooldownActive
	BiteNoTarget
	BiteDepleted
	BiteMissingSensor
)

// String returns the snake_case name used in logs.
func (o BiteOutcome) String() string {
	switch o {
	case BiteOK:
		return "ok"
	case BiteCooldownActive:
		return "cooldown_active"
	case BiteNoTarget:
		return "no_target"
	case BiteDepleted:
		return "depleted"
	case BiteMissingSensor:
		return "missing_sensor"
	}
	return "unknown"
}

// BiteResult describes what a bite did.
type BiteResult struct {
	Outcome   BiteOutcome
	Target    ecs.Entity
	Remaining int  // target units left after the bite
	Grew      bool // biter moved up a tier
	Tier      int  // biter tier after the bite
}

// OK reports whether a unit was consumed.
func (r BiteResult) OK() bool {
	return r.Outcome == BiteOK
}

// TryBite runs the bite protocol: cooldown, target checks, one unit
// consumed, bite counted toward growth, cooldown restarted. target is the
// resource behind sensor.Target, or nil if it could not be looked up.
// growth may be nil for biters that never grow.
func TryBite(now float64, clock *components.BiteClock, sensor *components.ProximitySensor,
	target *components.ConsumableResource, growth *components.GrowthProfile) BiteResult {

	if sensor == nil {
		return BiteResult{Outcome: BiteMissingSensor}
	}
	if !clock.Ready(now) {
		return BiteResult{Outcome: BiteCooldownActive, Target: sensor.Target}
	}
	if !sensor.HasTarget() || target == nil {
		return BiteResult{Outcome: BiteNoTarget}
	}
	if target.IsDepleted() {
		return BiteResult{Outcome: BiteDepleted, Target: sensor.Target}
	}
	if !target.ConsumeOneUnit() {
		return BiteResult{Outcome: BiteDepleted, Target: sensor.Target}
	}

	res := BiteResult{Outcome: BiteOK, Target: sensor.Target, Remaining: target.Units}

	clock.Bites++
	if clock.Bites >= clock.BitesToGrow {
		clock.Bites = 0
		if growth != nil {
			res.Grew = growth.Grow()
		}
	}
	if growth != nil {
		res.Tier = growth.Tier
	}
	clock.NextBiteAt = now + clock.Cooldown
	return res
}

// CanEat reports whether an eater may target a candidate.
// Prey fish eat food, predators eat strictly smaller fish, and the player
// eats both.
func CanEat(eater components.Species, eaterTier int, target components.Species, targetTier int) bool {
	switch eater {
	case components.SpeciesPrey:
		return target == components.SpeciesAlgae
	case components.SpeciesPredator:
		return target.IsFish() && targetTier < eaterTier
	case components.SpeciesPlayer:
		return target.IsFood() || target.IsFish() && targetTier < eaterTier
	}
	return false
}
