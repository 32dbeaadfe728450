package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// CurrentField is a slowly evolving water current sampled from 3D simplex
// noise (x, y, time). Drifting organisms feel it as an extra force.
type CurrentField struct {
	noise    opensimplex.Noise
	scale    float64
	strength float64
	speed    float64
}

// NewCurrentField creates a field from a seed.
func NewCurrentField(seed int64, scale, strength, speed float64) *CurrentField {
	return &CurrentField{
		noise:    opensimplex.New(seed),
		scale:    scale,
		strength: strength,
		speed:    speed,
	}
}

// Angle returns the flow direction at p and time t, radians.
func (c *CurrentField) Angle(p r2.Vec, t float64) float64 {
	n := c.noise.Eval3(p.X*c.scale, p.Y*c.scale, t*c.speed)
	return n * 2 * math.Pi
}

// Force returns the current's push at p and time t.
func (c *CurrentField) Force(p r2.Vec, t float64) r2.Vec {
	// Second octave modulates strength so calm patches exist
	mag := 0.5 + 0.5*c.noise.Eval3(p.X*c.scale*2+100, p.Y*c.scale*2, t*c.speed)
	return r2.Scale(c.strength*mag, fromHeading(c.Angle(p, t)))
}
