package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

func testField(t *testing.T) *ObstacleField {
	t.Helper()
	f := NewObstacleField(80, 50)
	if err := f.AddRock(r2.Vec{X: 40, Y: 25}, 3); err != nil {
		t.Fatalf("AddRock: %v", err)
	}
	return f
}

func TestObstacleRaycast(t *testing.T) {
	f := testField(t)

	tests := []struct {
		name     string
		origin   r2.Vec
		dir      r2.Vec
		maxDist  float64
		wantHit  bool
		wantDist float64
		wantNorm r2.Vec
	}{
		{"rock ahead", r2.Vec{X: 30, Y: 25}, r2.Vec{X: 1}, 20, true, 7, r2.Vec{X: -1}},
		{"rock out of reach", r2.Vec{X: 30, Y: 25}, r2.Vec{X: 1}, 5, false, 0, r2.Vec{}},
		{"rock behind", r2.Vec{X: 30, Y: 25}, r2.Vec{X: -1}, 5, false, 0, r2.Vec{}},
		{"left wall", r2.Vec{X: 2, Y: 10}, r2.Vec{X: -1}, 5, true, 2, r2.Vec{X: 1}},
		{"top wall", r2.Vec{X: 10, Y: 49}, r2.Vec{Y: 1}, 5, true, 1, r2.Vec{Y: -1}},
		{"open water", r2.Vec{X: 10, Y: 10}, r2.Vec{Y: 1}, 5, false, 0, r2.Vec{}},
	}
	for _, tt := range tests {
		hit, ok := f.Raycast(tt.origin, tt.dir, tt.maxDist)
		if ok != tt.wantHit {
			t.Errorf("%s: hit = %v, want %v", tt.name, ok, tt.wantHit)
			continue
		}
		if !ok {
			continue
		}
		if !near(hit.Distance, tt.wantDist, 1e-9) {
			t.Errorf("%s: distance = %f, want %f", tt.name, hit.Distance, tt.wantDist)
		}
		if !near(hit.Normal.X, tt.wantNorm.X, 1e-9) || !near(hit.Normal.Y, tt.wantNorm.Y, 1e-9) {
			t.Errorf("%s: normal = %v, want %v", tt.name, hit.Normal, tt.wantNorm)
		}
	}
}

func TestObstacleResolve(t *testing.T) {
	f := testField(t)

	pos, n, hit := f.Resolve(r2.Vec{X: 42, Y: 25}, 0.5)
	if !hit {
		t.Fatal("overlapping the rock reported no contact")
	}
	if !near(pos.X, 43.5, 1e-9) || !near(pos.Y, 25, 1e-9) {
		t.Errorf("resolved to %v, want (43.5, 25)", pos)
	}
	if !near(n.X, 1, 1e-9) {
		t.Errorf("normal = %v, want (1, 0)", n)
	}

	pos, _, hit = f.Resolve(r2.Vec{X: 0.2, Y: 10}, 0.5)
	if !hit || !near(pos.X, 0.5, 1e-9) {
		t.Errorf("wall resolve = %v (hit %v), want x=0.5", pos, hit)
	}

	if f.Blocked(r2.Vec{X: 10, Y: 10}, 0.5) {
		t.Error("open water reported blocked")
	}
}

func TestAvoidanceReflectsOffWall(t *testing.T) {
	f := testField(t)
	p := AvoidanceParams{LookAhead: 1.5, RayCount: 5, RayAngle: deg(45), Force: 6}

	av := ComputeAvoidance(f, r2.Vec{X: 1, Y: 10}, math.Pi, p)
	if !av.Active() {
		t.Fatal("avoidance inactive facing a wall 1 unit away")
	}
	if av.Dir.X <= 0 {
		t.Errorf("avoidance dir = %v, want away from the left wall", av.Dir)
	}
	if !near(av.Strength, 6*(1-1/1.5), 1e-9) {
		t.Errorf("strength = %f, want %f", av.Strength, 6*(1-1/1.5))
	}

	if av := ComputeAvoidance(f, r2.Vec{X: 10, Y: 10}, 0, p); av.Active() {
		t.Errorf("avoidance active in open water: %+v", av)
	}
}

func TestRayDirectionsSymmetric(t *testing.T) {
	p := AvoidanceParams{RayCount: 5, RayAngle: deg(60)}
	dirs := RayDirections(0, p, nil)
	if len(dirs) != 5 {
		t.Fatalf("got %d rays, want 5", len(dirs))
	}
	if !near(heading(dirs[0]), -deg(30), 1e-9) || !near(heading(dirs[4]), deg(30), 1e-9) {
		t.Errorf("outer rays at %f and %f, want ±30°", heading(dirs[0]), heading(dirs[4]))
	}
	if !near(heading(dirs[2]), 0, 1e-9) {
		t.Errorf("centre ray at %f, want 0", heading(dirs[2]))
	}
}

// wallEverywhere reports a hit straight back at every ray.
type wallEverywhere struct{}

func (wallEverywhere) Raycast(origin, dir r2.Vec, maxDist float64) (RayHit, bool) {
	return RayHit{Distance: maxDist / 4, Point: r2.Add(origin, r2.Scale(maxDist/4, dir)), Normal: r2.Scale(-1, dir)}, true
}

func TestSteerAvoidanceOverrides(t *testing.T) {
	tw := newTestWorld()
	tw.env.Obstacles = wallEverywhere{}
	e := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	a := tw.agent(e)

	in := SteeringIntent{Source: components.SourceSeek, Desired: r2.Vec{X: 3}}
	m := Steer(a, in, tw.env)

	if a.Steering.Source != components.SourceAvoid {
		t.Errorf("source = %v, want %v", a.Steering.Source, components.SourceAvoid)
	}
	if m.Force.X >= 0 {
		t.Errorf("force = %v, want pushing back from the hit ahead", m.Force)
	}

	// Without obstacles the seek goes through
	tw.env.Obstacles = nil
	a.Steering.Smoothed, a.Steering.SmoothRate = r2.Vec{}, r2.Vec{}
	m = Steer(a, in, tw.env)
	if a.Steering.Source != components.SourceSeek || m.Force.X <= 0 {
		t.Errorf("source = %v force = %v, want seek toward +x", a.Steering.Source, m.Force)
	}
}
