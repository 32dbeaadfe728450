package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// ResolveMouth opens, closes and bites for one agent. AI fish open their
// mouth when the sensor holds a target they want, bite once and close it
// after the close delay. The player bites once per press of the bite
// button, subject to the cooldown.
//
// attempted is false when no bite was tried this tick.
func ResolveMouth(a *Agent, env *Env) (res BiteResult, attempted bool) {
	if a.Bite == nil || a.Behavior.BiteDisabled {
		return BiteResult{}, false
	}
	if a.Sensor == nil {
		// Missing mouth sensor: report once and stop trying
		a.Behavior.BiteDisabled = true
		env.Log.Warn("bite_disabled", "id", a.Org.ID, "species", a.Org.Species.String(), "reason", BiteMissingSensor.String())
		return BiteResult{Outcome: BiteMissingSensor}, true
	}

	if a.Org.Species == components.SpeciesPlayer {
		return playerMouth(a, env)
	}

	if a.Bite.CloseDue(env.Now) {
		a.Behavior.Eating = false
	}
	if a.Bite.MouthOpen || !a.Sensor.HasTarget() {
		return BiteResult{}, false
	}

	target := a.Sensor.Target
	if a.Org.Species == components.SpeciesPredator && target != a.Behavior.Target {
		// Predators only bite what they decided to hunt
		return BiteResult{}, false
	}

	a.Bite.ScheduleClose(env.Now + env.Params.Bite.CloseDelay)
	a.Behavior.Eating = true
	return TryBite(env.Now, a.Bite, a.Sensor, resourceOf(env, target), a.Growth), true
}

// playerMouth tries one bite per press. Release only closes the mouth.
func playerMouth(a *Agent, env *Env) (BiteResult, bool) {
	if a.Intent == nil {
		return BiteResult{}, false
	}
	var (
		res       BiteResult
		attempted bool
	)
	if a.Intent.BiteRequested {
		a.Bite.MouthOpen = true
		if a.Sensor.HasTarget() {
			res = TryBite(env.Now, a.Bite, a.Sensor, resourceOf(env, a.Sensor.Target), a.Growth)
			attempted = true
		}
	}
	if a.Intent.BiteReleased {
		a.Bite.CloseMouth()
	}
	return res, attempted
}

func resourceOf(env *Env, e ecs.Entity) *components.ConsumableResource {
	if _, ok := env.World.Species(e); !ok {
		return nil
	}
	return env.World.Resource(e)
}
