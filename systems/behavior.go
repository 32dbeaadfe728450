package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

var (
	threatMask = MaskOf(components.SpeciesPrey, components.SpeciesPredator, components.SpeciesPlayer)
	algaeMask  = MaskOf(components.SpeciesAlgae)
	fishMask   = threatMask
)

// huntWanderBlend is how much of the wander direction stays mixed into a
// predator's pursuit.
const huntWanderBlend = 0.25

// DecideBehavior runs the species state machine for one agent and returns
// the steering it asks for.
func DecideBehavior(a *Agent, env *Env) SteeringIntent {
	switch s := a.Org.Species; {
	case s.IsPlankton():
		return decidePlankton(a, env)
	case s == components.SpeciesPrey:
		return decidePrey(a, env)
	case s == components.SpeciesPredator:
		return decidePredator(a, env)
	case s == components.SpeciesPlayer:
		return decidePlayer(a, env)
	}
	a.Behavior.State = components.StateIdle
	return SteeringIntent{}
}

// decidePlankton flees the nearest fish inside the flee distance, or while a
// broadcast panic holds, and otherwise flocks with its colour.
func decidePlankton(a *Agent, env *Env) SteeringIntent {
	p := &env.Params.Plankton
	b := a.Behavior

	fleeing := false
	if env.Now < b.PanicUntil {
		fleeing = true
	} else if n, ok := env.Grid.Nearest(a.Pos, p.FleeDistance, threatMask, a.E); ok {
		b.Threat = r2.Add(a.Pos, n.Delta)
		fleeing = true
	}

	var in SteeringIntent
	if fleeing {
		b.State = components.StateFleeing
		in = SteeringIntent{Source: components.SourceFlee, Desired: Flee(a.Pos, b.Threat, p.FleeSpeed)}
	} else {
		b.State = components.StateGathering
		env.mates = GatherFlock(env.Flock, a.Org.Species.Group(), a.E, a.Pos, p.NeighborRadius, env.World, env.mates[:0])
		dir := Flocking(a.Pos, a.Rot.Forward(), env.mates, p.Flock())
		in = SteeringIntent{Source: components.SourceFlock, Desired: r2.Scale(p.NormalSpeed, dir)}
	}

	// Stuck recovery: turn hard and kick forward if barely moved
	st := a.Steering
	if p.StuckInterval > 0 && env.Now >= st.NextCheckAt {
		if st.NextCheckAt > 0 && distanceSq(a.Pos, st.LastCheckPos) < p.StuckThreshold*p.StuckThreshold {
			turn := p.StuckTurn
			if env.RNG.Float64() < 0.5 {
				turn = -turn
			}
			in.Impulse = r2.Scale(p.StuckImpulse, fromHeading(a.Rot.Heading+turn))
		}
		st.LastCheckPos = a.Pos
		st.NextCheckAt = env.Now + p.StuckInterval
	}
	return in
}

// decidePrey wanders until a scan finds food within its sense radius, then
// seeks it. Wander is suppressed entirely while feeding.
func decidePrey(a *Agent, env *Env) SteeringIntent {
	fp := &env.Params.Prey
	b := a.Behavior

	if !b.Target.IsZero() && !Edible(env.World, a.E, b.Target) {
		b.Target = ecs.Entity{}
	}
	if env.Now >= b.NextScanAt {
		b.Target = nearestFood(a, env, fp.SenseRadius)
		b.NextScanAt = env.Now + uniform(env.RNG, fp.ScanMin, fp.ScanMax)
	}

	if b.Target.IsZero() {
		// Forced feeding keeps the Feed state but still swims around
		b.State = components.StateWander
		if fp.AlwaysFeed {
			b.State = components.StateFeed
		}
		dir := WanderStep(a.Wander, a.Rot.Heading, env.Now, fp.Wander, env.RNG)
		return SteeringIntent{Source: components.SourceWander, Desired: r2.Scale(fp.MoveSpeed, dir)}
	}

	b.State = components.StateFeed
	pos, _, _ := env.World.Kinematics(b.Target)
	desired, soft := Seek(a.Pos, pos, fp.MoveSpeed*fp.SeekBoost, fp.StopDistance)
	return SteeringIntent{Source: components.SourceSeek, Desired: desired, SoftStop: soft}
}

// nearestFood returns the closest algae with units left, or the zero entity.
// Plankton is left to the player.
func nearestFood(a *Agent, env *Env, radius float64) ecs.Entity {
	n, _ := env.Grid.NearestMatch(a.Pos, radius, algaeMask, a.E, func(n Neighbor) bool {
		res := env.World.Resource(n.E)
		return res != nil && !res.IsDepleted()
	})
	return n.E
}

// decidePredator always wanders. The nearest strictly smaller fish gets one
// roll against the eat chance; a hit switches to Hunt, which layers a seek
// toward the target over the wander.
func decidePredator(a *Agent, env *Env) SteeringIntent {
	fp := &env.Params.Predator
	b := a.Behavior
	tier := a.Tier()

	if b.State == components.StateHunt && !huntable(a, env, b.Target, fp.SenseRadius*1.5) {
		b.State = components.StateWander
		b.Target = ecs.Entity{}
	}

	if cand, ok := nearestSmallerFish(a, env, tier, fp.SenseRadius); ok {
		if cand != b.Rolled {
			b.Rolled = cand
			b.RolledYes = env.RNG.Float64() < fp.EatChance
		}
		if b.RolledYes && b.State != components.StateHunt {
			b.State = components.StateHunt
			b.Target = cand
		}
	}
	if b.State != components.StateHunt {
		b.State = components.StateWander
	}

	wander := r2.Scale(fp.MoveSpeed, WanderStep(a.Wander, a.Rot.Heading, env.Now, fp.Wander, env.RNG))
	if b.State != components.StateHunt {
		return SteeringIntent{Source: components.SourceWander, Desired: wander}
	}

	pos, _, _ := env.World.Kinematics(b.Target)
	seek, soft := Seek(a.Pos, pos, fp.MoveSpeed*fp.SeekBoost, fp.StopDistance)
	if soft {
		return SteeringIntent{Source: components.SourceSeek, SoftStop: true}
	}
	desired := clampNorm(r2.Add(seek, r2.Scale(huntWanderBlend, wander)), fp.MoveSpeed*fp.SeekBoost)
	return SteeringIntent{Source: components.SourceSeek, Desired: desired}
}

// nearestSmallerFish finds the closest edible fish of lower tier.
func nearestSmallerFish(a *Agent, env *Env, tier int, radius float64) (ecs.Entity, bool) {
	n, ok := env.Grid.NearestMatch(a.Pos, radius, fishMask, a.E, func(n Neighbor) bool {
		if env.World.Tier(n.E) >= tier {
			return false
		}
		res := env.World.Resource(n.E)
		return res != nil && !res.IsDepleted()
	})
	return n.E, ok
}

// huntable reports whether a hunt target is still worth chasing.
func huntable(a *Agent, env *Env, target ecs.Entity, maxDist float64) bool {
	if target.IsZero() || !Edible(env.World, a.E, target) {
		return false
	}
	pos, _, ok := env.World.Kinematics(target)
	return ok && distanceSq(pos, a.Pos) <= maxDist*maxDist
}

// decidePlayer turns external intent into a velocity: accelerate toward
// intent times max speed, decelerate without input, stop at walls.
func decidePlayer(a *Agent, env *Env) SteeringIntent {
	pp := &env.Params.Player
	a.Behavior.State = components.StateDriven

	var move r2.Vec
	if a.Intent != nil {
		move = clampNorm(a.Intent.Move, 1)
	}
	moving := r2.Norm2(move) > 1e-6

	if moving && env.Obstacles != nil {
		if hit, ok := env.Obstacles.Raycast(a.Pos, unitOrZero(move), pp.WallDistance); ok && hit.Distance < pp.WallDistance {
			return SteeringIntent{Source: components.SourceDrive, Direct: true, Halt: true}
		}
	}

	rate := pp.Decel
	if moving {
		rate = pp.Accel
	}
	target := r2.Scale(pp.MaxSpeed, move)
	dv := clampNorm(r2.Sub(target, a.Vel), rate*env.DT)
	return SteeringIntent{Source: components.SourceDrive, Desired: r2.Add(a.Vel, dv), Direct: true, Facing: move}
}
