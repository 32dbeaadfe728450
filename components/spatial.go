package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Set copies v into the position.
func (p *Position) Set(v r2.Vec) { p.X, p.Y = v.X, v.Y }

// Velocity represents an entity's velocity in units per second.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Set copies r into the velocity.
func (v *Velocity) Set(r r2.Vec) { v.X, v.Y = r.X, r.Y }

// Rotation represents an entity's heading and angular velocity.
type Rotation struct {
	Heading float64 // radians, 0 = +X
	AngVel  float64 // radians per second
}

// Forward returns the unit vector the entity faces.
func (r Rotation) Forward() r2.Vec {
	return r2.Vec{X: math.Cos(r.Heading), Y: math.Sin(r.Heading)}
}
