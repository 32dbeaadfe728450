package physics

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

type kBody struct {
	e       ecs.Entity
	species components.Species
	body    components.Body
	scale   float64
	st      State
	motion  components.Motion
	inRange []ecs.Entity // overlapping the mouth after the last step
}

func (b *kBody) radius() float64 {
	return b.body.Radius * b.scale
}

// Kinematic is a semi-implicit Euler integrator with circle-vs-obstacle
// resolution. Mouth overlaps are found with a spatial grid after every step.
type Kinematic struct {
	opts  Options
	field *systems.ObstacleField

	bodies    map[ecs.Entity]*kBody
	order     []ecs.Entity
	maxRadius float64

	grid   *systems.SpatialGrid
	events []systems.SensorEvent
	seen   []ecs.Entity
}

// NewKinematic creates an empty integrator. field may be nil for an open tank.
func NewKinematic(field *systems.ObstacleField, opts Options) *Kinematic {
	if opts.CellSize <= 0 {
		opts.CellSize = 10
	}
	return &Kinematic{
		opts:   opts,
		field:  field,
		bodies: make(map[ecs.Entity]*kBody),
		grid:   systems.NewSpatialGrid(opts.Width, opts.Height, opts.CellSize),
	}
}

// Add implements Integrator.
func (k *Kinematic) Add(e ecs.Entity, def BodyDef) {
	if _, ok := k.bodies[e]; ok {
		return
	}
	if def.Scale <= 0 {
		def.Scale = 1
	}
	b := &kBody{e: e, species: def.Species, body: def.Body, scale: def.Scale, st: def.State}
	k.bodies[e] = b
	k.order = append(k.order, e)
	k.maxRadius = math.Max(k.maxRadius, b.radius())
}

// Remove implements Integrator. Other mouths forget the body silently; the
// caller scrubs sensors itself when something dies.
func (k *Kinematic) Remove(e ecs.Entity) {
	if _, ok := k.bodies[e]; !ok {
		return
	}
	delete(k.bodies, e)
	for i, o := range k.order {
		if o == e {
			k.order = append(k.order[:i], k.order[i+1:]...)
			break
		}
	}
	for _, b := range k.bodies {
		b.inRange = removeEntity(b.inRange, e)
	}
}

// SetScale implements Integrator.
func (k *Kinematic) SetScale(e ecs.Entity, scale float64) {
	b, ok := k.bodies[e]
	if !ok || scale <= 0 {
		return
	}
	b.scale = scale
	k.maxRadius = math.Max(k.maxRadius, b.radius())
}

// Apply implements Integrator.
func (k *Kinematic) Apply(e ecs.Entity, m components.Motion) {
	if b, ok := k.bodies[e]; ok {
		b.motion = m
	}
}

// State implements Integrator.
func (k *Kinematic) State(e ecs.Entity) (State, bool) {
	b, ok := k.bodies[e]
	if !ok {
		return State{}, false
	}
	return b.st, true
}

// Len implements Integrator.
func (k *Kinematic) Len() int {
	return len(k.order)
}

// DrainEvents implements Integrator.
func (k *Kinematic) DrainEvents(dst []systems.SensorEvent) []systems.SensorEvent {
	dst = append(dst, k.events...)
	k.events = k.events[:0]
	return dst
}

// Step implements Integrator.
func (k *Kinematic) Step(dt float64) {
	for _, e := range k.order {
		k.integrate(k.bodies[e], dt)
	}
	k.detect()
}

func (k *Kinematic) integrate(b *kBody, dt float64) {
	m := b.motion
	b.motion.Reset()
	st := &b.st

	if b.body.Static {
		st.Vel, st.AngVel = r2.Vec{}, 0
		return
	}

	if m.Stop {
		st.Vel, st.AngVel = r2.Vec{}, 0
	} else {
		st.Vel = r2.Add(st.Vel, r2.Scale(dt, m.Force))
		st.Vel = r2.Add(st.Vel, m.Impulse)
		if m.Damp > 0 {
			st.Vel = r2.Scale(m.Damp, st.Vel)
		}
		st.AngVel += m.Torque * dt
	}

	if !b.body.Driven {
		// Same damping model as Box2D
		st.Vel = r2.Scale(1/(1+dt*k.opts.LinearDamping), st.Vel)
		st.AngVel *= 1 / (1 + dt*k.opts.AngularDamping)
	}
	st.Vel = clampSpeed(st.Vel, b.body.MaxSpeed)
	st.AngVel = clampTurn(st.AngVel, b.body.MaxTurnRate)

	st.Pos = r2.Add(st.Pos, r2.Scale(dt, st.Vel))
	st.Heading = normalizeAngle(st.Heading + st.AngVel*dt)

	if k.field == nil {
		return
	}
	pos, n, hit := k.field.Resolve(st.Pos, b.radius())
	if !hit {
		return
	}
	st.Pos = pos
	// Drop the velocity component pointing into the obstacle
	if d := r2.Dot(st.Vel, n); d < 0 {
		st.Vel = r2.Sub(st.Vel, r2.Scale(d, n))
	}
}

// detect diffs every mouth's overlaps against the previous step. Exits are
// reported before enters for each sensor.
func (k *Kinematic) detect() {
	k.grid.Clear()
	for _, e := range k.order {
		b := k.bodies[e]
		k.grid.Insert(e, b.species, b.st.Pos)
	}

	for _, e := range k.order {
		b := k.bodies[e]
		if b.body.MouthRadius <= 0 {
			continue
		}
		mouth := MouthCenter(b.st.Pos, b.st.Heading, b.body.MouthOffset*b.scale)
		mr := b.body.MouthRadius * b.scale

		k.seen = k.seen[:0]
		k.grid.ForEachInRadius(mouth, mr+k.maxRadius, systems.AllSpecies, e, func(n systems.Neighbor) {
			r := mr + k.bodies[n.E].radius()
			if n.DistSq <= r*r {
				k.seen = append(k.seen, n.E)
			}
		})

		for _, c := range b.inRange {
			if !containsEntity(k.seen, c) {
				k.events = append(k.events, systems.SensorEvent{Kind: systems.SensorExit, Sensor: e, Candidate: c})
			}
		}
		for _, c := range k.seen {
			if !containsEntity(b.inRange, c) {
				k.events = append(k.events, systems.SensorEvent{Kind: systems.SensorEnter, Sensor: e, Candidate: c})
			}
		}
		b.inRange = append(b.inRange[:0], k.seen...)
	}
}

func containsEntity(s []ecs.Entity, e ecs.Entity) bool {
	for _, x := range s {
		if x == e {
			return true
		}
	}
	return false
}

func removeEntity(s []ecs.Entity, e ecs.Entity) []ecs.Entity {
	for i, x := range s {
		if x == e {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
