package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/config"
)

// RayHit describes where a ray met an obstacle.
type RayHit struct {
	Distance float64
	Point    r2.Vec
	Normal   r2.Vec // unit, pointing away from the obstacle
}

// Raycaster answers ray queries against static obstacles.
type Raycaster interface {
	Raycast(origin, dir r2.Vec, maxDist float64) (RayHit, bool)
}

// AvoidanceParams configures the ray fan. Angles are radians.
type AvoidanceParams struct {
	LookAhead float64
	RayCount  int
	RayAngle  float64 // total spread
	Force     float64
	Jitter    float64 // max random rotation applied by callers
}

// AvoidanceFromConfig converts a config block.
func AvoidanceFromConfig(c config.AvoidanceConfig) AvoidanceParams {
	return AvoidanceParams{
		LookAhead: c.LookAhead,
		RayCount:  c.RayCount,
		RayAngle:  deg(c.RayAngle),
		Force:     c.Force,
		Jitter:    deg(c.Jitter),
	}
}

// Avoidance is the outcome of a ray fan.
type Avoidance struct {
	Dir      r2.Vec  // unit direction away from the closest hit
	Strength float64 // Force * (1 - hit/lookAhead)
	Hit      RayHit
}

// Active reports whether avoidance should override other steering.
func (a Avoidance) Active() bool {
	return a.Strength > 0
}

// Vector returns the scaled avoidance force.
func (a Avoidance) Vector() r2.Vec {
	return r2.Scale(a.Strength, a.Dir)
}

// RayDirections returns the fan directions around heading h.
// Rays are spread symmetrically: (i/(n-1) - 0.5) * spread.
func RayDirections(h float64, p AvoidanceParams, dst []r2.Vec) []r2.Vec {
	n := p.RayCount
	if n <= 1 {
		return append(dst, fromHeading(h))
	}
	for i := 0; i < n; i++ {
		t := float64(i)/float64(n-1) - 0.5
		dst = append(dst, fromHeading(h+t*p.RayAngle))
	}
	return dst
}

// ComputeAvoidance casts the ray fan from origin along heading h.
// The closest hit wins: its ray is reflected off the surface normal and
// scaled by how close the hit is.
func ComputeAvoidance(rc Raycaster, origin r2.Vec, h float64, p AvoidanceParams) Avoidance {
	if rc == nil || p.LookAhead <= 0 {
		return Avoidance{}
	}

	var dirs [16]r2.Vec
	rays := RayDirections(h, p, dirs[:0])

	var best RayHit
	var bestDir r2.Vec
	found := false
	for _, d := range rays {
		hit, ok := rc.Raycast(origin, d, p.LookAhead)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			bestDir = d
			found = true
		}
	}
	if !found || best.Distance >= p.LookAhead {
		return Avoidance{}
	}

	reflected := reflect(bestDir, best.Normal)
	dir := unitOrZero(reflected)
	if dir == (r2.Vec{}) {
		dir = best.Normal
	}
	return Avoidance{
		Dir:      dir,
		Strength: p.Force * (1 - best.Distance/p.LookAhead),
		Hit:      best,
	}
}

// reflect mirrors d about the surface with normal n.
func reflect(d, n r2.Vec) r2.Vec {
	return r2.Sub(d, r2.Scale(2*r2.Dot(d, n), n))
}
