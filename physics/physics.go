// Package physics moves organism bodies and reports when something starts
// or stops overlapping a mouth sensor. Two backends share one interface: a
// small kinematic integrator and a Box2D world.
package physics

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

// Backend names accepted by New.
const (
	BackendKinematic = "kinematic"
	BackendBox2D     = "box2d"
)

// State is the kinematic state of one body.
type State struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Heading float64
	AngVel  float64
}

// BodyDef describes a body to add.
type BodyDef struct {
	Species components.Species
	Body    components.Body
	Scale   float64 // growth scale applied to Radius and the mouth
	State   State
}

// Options configures an integrator.
type Options struct {
	Width, Height  float64
	CellSize       float64
	LinearDamping  float64 // per second
	AngularDamping float64 // per second
	VelocityIters  int
	PositionIters  int
}

// Integrator owns the bodies of every organism. Motion requests are queued
// with Apply and consumed by the next Step. Sensor events accumulate until
// drained, in the order they happened.
type Integrator interface {
	Add(e ecs.Entity, def BodyDef)
	Remove(e ecs.Entity)
	SetScale(e ecs.Entity, scale float64)
	Apply(e ecs.Entity, m components.Motion)
	Step(dt float64)
	State(e ecs.Entity) (State, bool)
	DrainEvents(dst []systems.SensorEvent) []systems.SensorEvent
	Len() int
}

// New creates the integrator for backend.
func New(backend string, field *systems.ObstacleField, opts Options) (Integrator, error) {
	switch backend {
	case BackendKinematic, "":
		return NewKinematic(field, opts), nil
	case BackendBox2D:
		return NewBox2D(field, opts), nil
	}
	return nil, fmt.Errorf("unknown physics backend %q", backend)
}

// MouthCenter returns where the mouth sensor sits for a body at pos facing
// heading.
func MouthCenter(pos r2.Vec, heading, offset float64) r2.Vec {
	return r2.Add(pos, r2.Vec{X: offset * math.Cos(heading), Y: offset * math.Sin(heading)})
}

// clampSpeed limits v to max; max <= 0 means unlimited.
func clampSpeed(v r2.Vec, max float64) r2.Vec {
	if max <= 0 {
		return v
	}
	n := r2.Norm(v)
	if n <= max {
		return v
	}
	return r2.Scale(max/n, v)
}

func clampTurn(w, max float64) float64 {
	if max <= 0 {
		return w
	}
	return math.Max(-max, math.Min(max, w))
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
