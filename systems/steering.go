package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// SteeringIntent is what a behavior decision asks the controller for.
type SteeringIntent struct {
	Source  components.SteeringSource
	Desired r2.Vec // desired velocity

	SoftStop bool   // inside the stopping distance: halve velocity instead of steering
	Impulse  r2.Vec // one-off velocity change, e.g. stuck recovery

	// Player intents bypass smoothing and avoidance
	Direct bool
	Halt   bool   // blocked by a wall: zero velocity
	Facing r2.Vec // direction to turn toward, zero keeps the heading
}

// WanderParams configures the random heading walk. Angles are radians.
type WanderParams struct {
	StraightMoveTime float64
	RandomTurn       float64
}

// WanderStep advances the walk and returns the unit direction to travel.
// Every uniform[1, StraightMoveTime] seconds the heading is offset from the
// current facing by a uniform angle in ±RandomTurn; in between it holds.
func WanderStep(w *components.Wander, facing, now float64, p WanderParams, rng RNG) r2.Vec {
	maxInterval := p.StraightMoveTime
	if maxInterval < 1 {
		maxInterval = 1
	}
	if !w.Armed {
		// First call arms the timer without turning
		w.Heading = facing
		w.NextTurnAt = now + uniform(rng, 1, maxInterval)
		w.Armed = true
	} else if now >= w.NextTurnAt {
		w.Heading = normalizeAngle(facing + uniform(rng, -p.RandomTurn, p.RandomTurn))
		w.NextTurnAt = now + uniform(rng, 1, maxInterval)
		w.Turns++
	}
	return fromHeading(w.Heading)
}

// Seek returns the desired velocity toward target at speed. Inside stopDist
// it reports a soft stop instead.
func Seek(pos, target r2.Vec, speed, stopDist float64) (r2.Vec, bool) {
	d := r2.Sub(target, pos)
	if r2.Norm2(d) <= stopDist*stopDist {
		return r2.Vec{}, true
	}
	return r2.Scale(speed, unitOrZero(d)), false
}

// Flee returns the desired velocity directly away from threat.
func Flee(pos, threat r2.Vec, fleeSpeed float64) r2.Vec {
	d := unitOrZero(r2.Sub(pos, threat))
	if d == (r2.Vec{}) {
		// Sitting on the threat: any direction is away
		d = r2.Vec{X: 1}
	}
	return r2.Scale(fleeSpeed, d)
}

// FlockParams holds flocking radius and weights.
type FlockParams struct {
	Radius     float64
	Separation float64
	Alignment  float64
	Cohesion   float64
}

// FlockMate is a neighbor seen by the flocking rule.
type FlockMate struct {
	Pos r2.Vec
	Vel r2.Vec
}

// Kinematics looks up the position and velocity of a live organism.
type Kinematics interface {
	Kinematics(e ecs.Entity) (pos, vel r2.Vec, ok bool)
}

// GatherFlock collects live registry members of group within radius of pos,
// skipping self. Members that are no longer alive are skipped.
func GatherFlock(reg *FlockRegistry, group components.FlockGroup, self ecs.Entity, pos r2.Vec, radius float64, world Kinematics, dst []FlockMate) []FlockMate {
	r2max := radius * radius
	for _, m := range reg.Members(group) {
		if m == self {
			continue
		}
		p, v, ok := world.Kinematics(m)
		if !ok {
			continue
		}
		if distanceSq(p, pos) >= r2max {
			continue
		}
		dst = append(dst, FlockMate{Pos: p, Vel: v})
	}
	return dst
}

// SeparationContribution is the push one neighbor exerts: the unit vector
// away from it scaled by max(0, 1 - d/radius), so it fades to zero at the
// edge of the radius.
func SeparationContribution(self, other r2.Vec, radius float64) r2.Vec {
	d := r2.Sub(self, other)
	dist := r2.Norm(d)
	w := 1 - dist/radius
	if w <= 0 || dist < 1e-9 {
		return r2.Vec{}
	}
	return r2.Scale(w/dist, d)
}

// Flocking combines separation, alignment and cohesion over mates.
// With no mates the result is forward unchanged.
func Flocking(pos, forward r2.Vec, mates []FlockMate, p FlockParams) r2.Vec {
	if len(mates) == 0 {
		return forward
	}

	var sep, align, centroid r2.Vec
	for _, m := range mates {
		sep = r2.Add(sep, SeparationContribution(pos, m.Pos, p.Radius))
		align = r2.Add(align, unitOrZero(m.Vel))
		centroid = r2.Add(centroid, m.Pos)
	}
	centroid = r2.Scale(1/float64(len(mates)), centroid)
	coh := unitOrZero(r2.Sub(centroid, pos))

	sum := r2.Add(r2.Add(r2.Scale(p.Separation, sep), r2.Scale(p.Alignment, align)), r2.Scale(p.Cohesion, coh))
	dir := unitOrZero(sum)
	if dir == (r2.Vec{}) {
		return forward
	}
	return dir
}
