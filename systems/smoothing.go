package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// SmoothDamp moves current toward target with a critically damped spring.
// rate carries the filter derivative between calls. smoothTime is roughly
// the time to reach the target; it never overshoots.
func SmoothDamp(current, target r2.Vec, rate *r2.Vec, smoothTime, dt float64) r2.Vec {
	if smoothTime < 1e-4 {
		smoothTime = 1e-4
	}
	omega := 2 / smoothTime
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := r2.Sub(current, target)
	temp := r2.Scale(dt, r2.Add(*rate, r2.Scale(omega, change)))
	*rate = r2.Scale(decay, r2.Sub(*rate, r2.Scale(omega, temp)))
	out := r2.Add(target, r2.Scale(decay, r2.Add(change, temp)))

	// Clamp if we passed the target
	if r2.Dot(r2.Sub(target, current), r2.Sub(out, target)) > 0 {
		out = target
		*rate = r2.Vec{}
	}
	return out
}

// ControlParams converts a smoothed desired velocity into a motion request.
type ControlParams struct {
	SmoothTime float64
	ForceGain  float64
	MaxForce   float64
	TurnRate   float64 // radians per second
	MaxTorque  float64 // radians per second squared
}

// ComputeMotion smooths desired and returns the force and torque that move
// the body toward it. Torque follows the shortest signed angle to the
// smoothed direction.
func ComputeMotion(st *components.Steering, desired, vel r2.Vec, rot components.Rotation, p ControlParams, dt float64) components.Motion {
	st.Smoothed = SmoothDamp(st.Smoothed, desired, &st.SmoothRate, p.SmoothTime, dt)

	var m components.Motion
	m.Force = clampNorm(r2.Scale(p.ForceGain, r2.Sub(st.Smoothed, vel)), p.MaxForce)

	if r2.Norm2(st.Smoothed) > 1e-6 {
		m.Torque = turnTorque(rot, heading(st.Smoothed), p.TurnRate, p.MaxTorque, dt)
	} else {
		m.Torque = clampFloat(-rot.AngVel/math.Max(dt, 1e-3), -p.MaxTorque, p.MaxTorque)
	}
	return m
}

// turnTorque returns the angular acceleration that brings the angular
// velocity to the rate needed to face target, capped at maxTorque.
func turnTorque(rot components.Rotation, target, turnRate, maxTorque, dt float64) float64 {
	delta := DeltaAngle(rot.Heading, target)
	wantVel := clampFloat(delta/math.Max(dt, 1e-3), -turnRate, turnRate)
	return clampFloat((wantVel-rot.AngVel)/math.Max(dt, 1e-3), -maxTorque, maxTorque)
}
