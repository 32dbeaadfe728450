package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clampFloat clamps a value between min and max.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Angle functions

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle+math.Pi, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle - math.Pi
}

// DeltaAngle returns the shortest signed rotation from a to b.
func DeltaAngle(a, b float64) float64 {
	return normalizeAngle(b - a)
}

// deg converts degrees to radians.
func deg(d float64) float64 {
	return d * math.Pi / 180
}

// Vector functions

// heading returns the angle of v.
func heading(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// fromHeading returns the unit vector for angle a.
func fromHeading(a float64) r2.Vec {
	return r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
}

// unitOrZero normalizes v, returning the zero vector for degenerate input.
func unitOrZero(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n < 1e-9 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// clampNorm limits the length of v to max.
func clampNorm(v r2.Vec, max float64) r2.Vec {
	n := r2.Norm(v)
	if n <= max || n == 0 {
		return v
	}
	return r2.Scale(max/n, v)
}

// distanceSq returns the squared distance between two points.
func distanceSq(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// rotate turns v by angle a about the origin.
func rotate(v r2.Vec, a float64) r2.Vec {
	return r2.Rotate(v, a, r2.Vec{})
}

// uniform returns a sample from [lo, hi).
func uniform(rng RNG, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
