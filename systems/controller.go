package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// Steer resolves an intent into the motion request for this tick.
// Obstacle avoidance is checked first and, when it fires, replaces the
// intent outright. The rest is smoothed and turned into force and torque.
func Steer(a *Agent, in SteeringIntent, env *Env) components.Motion {
	if in.Direct {
		return steerDirect(a, in, env)
	}

	cp, avoid := controlFor(a, env.Params)
	desired, source := in.Desired, in.Source

	if av := ComputeAvoidance(env.Obstacles, a.Pos, a.Rot.Heading, avoid); av.Active() {
		dir := av.Dir
		if avoid.Jitter > 0 {
			dir = rotate(dir, uniform(env.RNG, -avoid.Jitter, avoid.Jitter))
		}
		desired = r2.Scale(av.Strength, dir)
		source = components.SourceAvoid
		in.SoftStop = false
	}
	a.Steering.Source = source

	if in.SoftStop {
		// Soft stop: halve velocity and let the filter settle there
		a.Steering.Smoothed = r2.Scale(0.5, a.Vel)
		a.Steering.SmoothRate = r2.Vec{}
		return components.Motion{
			Damp:    0.5,
			Torque:  clampFloat(-a.Rot.AngVel/math.Max(env.DT, 1e-3), -cp.MaxTorque, cp.MaxTorque),
			Impulse: in.Impulse,
		}
	}

	m := ComputeMotion(a.Steering, desired, a.Vel, a.Rot, cp, env.DT)
	m.Impulse = in.Impulse
	if a.Org.Species.IsPlankton() && env.Current != nil {
		m.Force = r2.Add(m.Force, env.Current.Force(a.Pos, env.Now))
	}
	return m
}

// steerDirect hands a player velocity straight to the integrator.
func steerDirect(a *Agent, in SteeringIntent, env *Env) components.Motion {
	a.Steering.Source = in.Source
	dt := math.Max(env.DT, 1e-3)
	turn := env.Params.Player.TurnRate

	if in.Halt {
		return components.Motion{Stop: true, Torque: -a.Rot.AngVel / dt}
	}

	m := components.Motion{Force: r2.Scale(1/dt, r2.Sub(in.Desired, a.Vel))}
	if r2.Norm2(in.Facing) > 1e-6 {
		m.Torque = turnTorque(a.Rot, heading(in.Facing), turn, math.Inf(1), dt)
	} else {
		m.Torque = -a.Rot.AngVel / dt
	}
	return m
}

// controlFor returns the smoothing and avoidance parameters for an agent.
// Plankton turn three times faster while fleeing than their base rate, and
// at a third of it while gathering.
func controlFor(a *Agent, p *Params) (ControlParams, AvoidanceParams) {
	if a.Org.Species.IsPlankton() {
		pp := &p.Plankton
		torque := pp.TurnRate * 0.3
		if a.Behavior.State == components.StateFleeing {
			torque = pp.TurnRate * 3
		}
		return ControlParams{
			SmoothTime: pp.SmoothTime,
			ForceGain:  pp.ForceGain,
			MaxForce:   pp.MaxForce,
			TurnRate:   pp.TurnRate,
			MaxTorque:  torque,
		}, pp.Avoid
	}
	if fp := p.Fish(a.Org.Species); fp != nil {
		return ControlParams{
			SmoothTime: fp.SmoothTime,
			ForceGain:  fp.ForceGain,
			MaxForce:   fp.MaxForce,
			TurnRate:   fp.TurnRate,
			MaxTorque:  fp.TurnRate * 3,
		}, fp.Avoid
	}
	return ControlParams{SmoothTime: 0.3, ForceGain: 1, MaxForce: 1}, AvoidanceParams{}
}

// AvoidanceFor returns the ray fan a species steers with.
func AvoidanceFor(s components.Species, p *Params) AvoidanceParams {
	if s.IsPlankton() {
		return p.Plankton.Avoid
	}
	if fp := p.Fish(s); fp != nil {
		return fp.Avoid
	}
	return AvoidanceParams{}
}
