package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

func TestSeparationFalloff(t *testing.T) {
	const radius = 10.0
	self := r2.Vec{}

	prev := math.Inf(1)
	for d := 0.5; d <= radius; d += 0.5 {
		got := r2.Norm(SeparationContribution(self, r2.Vec{X: d}, radius))
		if got > prev {
			t.Errorf("magnitude at d=%.1f is %f, greater than %f at a closer distance", d, got, prev)
		}
		prev = got
	}

	if got := SeparationContribution(self, r2.Vec{X: radius}, radius); got != (r2.Vec{}) {
		t.Errorf("contribution at the radius = %v, want zero", got)
	}
	if got := SeparationContribution(self, r2.Vec{X: radius + 1}, radius); got != (r2.Vec{}) {
		t.Errorf("contribution beyond the radius = %v, want zero", got)
	}

	// Pushes away from the neighbor
	if got := SeparationContribution(self, r2.Vec{X: 2}, radius); got.X >= 0 {
		t.Errorf("contribution from a neighbor on +x = %v, want -x", got)
	}
}

func TestFlockingNoMatesKeepsForward(t *testing.T) {
	forward := r2.Vec{X: 0, Y: 1}
	got := Flocking(r2.Vec{X: 5, Y: 5}, forward, nil, FlockParams{Radius: 10, Separation: 1, Alignment: 1, Cohesion: 1})
	if got != forward {
		t.Errorf("Flocking with no mates = %v, want %v", got, forward)
	}
}

func TestFlockingAlignment(t *testing.T) {
	mates := []FlockMate{
		{Pos: r2.Vec{X: 5, Y: 0}, Vel: r2.Vec{X: 0, Y: 2}},
		{Pos: r2.Vec{X: -5, Y: 0}, Vel: r2.Vec{X: 0, Y: 3}},
	}
	got := Flocking(r2.Vec{}, r2.Vec{X: 1}, mates, FlockParams{Radius: 10, Alignment: 1})
	if !near(got.X, 0, 1e-9) || !near(got.Y, 1, 1e-9) {
		t.Errorf("pure alignment = %v, want (0, 1)", got)
	}
}

func TestGatherFlockSkipsOtherGroupsAndDead(t *testing.T) {
	tw := newTestWorld()
	self := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 20, Y: 20}, 1, 1)
	mate := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 22, Y: 20}, 1, 1)
	dead := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 21, Y: 20}, 1, 1)
	tw.spawn(components.SpeciesPlanktonPurple, r2.Vec{X: 20, Y: 21}, 1, 1)
	tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 40, Y: 40}, 1, 1) // out of range

	tw.view.Organism(dead).Alive = false

	got := GatherFlock(tw.flock, components.FlockBlue, self, r2.Vec{X: 20, Y: 20}, 10, tw.view, nil)
	if len(got) != 1 {
		t.Fatalf("gathered %d mates, want 1", len(got))
	}
	want, _, _ := tw.view.Kinematics(mate)
	if got[0].Pos != want {
		t.Errorf("mate at %v, want %v", got[0].Pos, want)
	}
}

func TestSeek(t *testing.T) {
	tests := []struct {
		name     string
		target   r2.Vec
		wantSoft bool
	}{
		{"far", r2.Vec{X: 5}, false},
		{"inside stop distance", r2.Vec{X: 0.05}, true},
	}
	for _, tt := range tests {
		v, soft := Seek(r2.Vec{}, tt.target, 3, 0.1)
		if soft != tt.wantSoft {
			t.Errorf("%s: soft = %v, want %v", tt.name, soft, tt.wantSoft)
		}
		if !soft && !near(r2.Norm(v), 3, 1e-9) {
			t.Errorf("%s: speed = %f, want 3", tt.name, r2.Norm(v))
		}
	}
}

func TestFleeAwayFromThreat(t *testing.T) {
	got := Flee(r2.Vec{X: 5, Y: 5}, r2.Vec{X: 5, Y: 2}, 3)
	if !near(got.X, 0, 1e-9) || !near(got.Y, 3, 1e-9) {
		t.Errorf("Flee = %v, want (0, 3)", got)
	}
}

func TestWanderInterval(t *testing.T) {
	p := WanderParams{StraightMoveTime: 3, RandomTurn: deg(45)}
	var w components.Wander

	// First call arms the timer and keeps the facing
	dir := WanderStep(&w, 0, 0, p, constRNG(0.5))
	if !near(dir.X, 1, 1e-9) || w.Turns != 0 {
		t.Fatalf("first step dir=%v turns=%d, want (1,0) and 0", dir, w.Turns)
	}
	if w.NextTurnAt < 1 || w.NextTurnAt > 3 {
		t.Errorf("next turn at %f, want within [1, 3]", w.NextTurnAt)
	}

	WanderStep(&w, 0, w.NextTurnAt-0.01, p, constRNG(1))
	if w.Turns != 0 {
		t.Errorf("turned before the interval elapsed")
	}

	WanderStep(&w, 0, w.NextTurnAt, p, constRNG(1))
	if w.Turns != 1 {
		t.Errorf("turns = %d, want 1", w.Turns)
	}
	if math.Abs(w.Heading) > deg(45)+1e-9 {
		t.Errorf("turned %f rad, want at most %f", w.Heading, deg(45))
	}
}

func TestSmoothDampConverges(t *testing.T) {
	target := r2.Vec{X: 4, Y: -2}
	var cur, rate r2.Vec
	for i := 0; i < 600; i++ {
		cur = SmoothDamp(cur, target, &rate, 0.3, 1.0/60)
		if cur.X > target.X+1e-9 {
			t.Fatalf("overshot at step %d: %v", i, cur)
		}
	}
	if !near(cur.X, target.X, 1e-3) || !near(cur.Y, target.Y, 1e-3) {
		t.Errorf("after 10s = %v, want %v", cur, target)
	}
}

func TestDeltaAngle(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, math.Pi / 2, math.Pi / 2},
		{math.Pi / 2, 0, -math.Pi / 2},
		{deg(170), deg(-170), deg(20)},
		{deg(-170), deg(170), deg(-20)},
	}
	for _, tt := range tests {
		if got := DeltaAngle(tt.a, tt.b); !near(got, tt.want, 1e-9) {
			t.Errorf("DeltaAngle(%f, %f) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFlockRegistry(t *testing.T) {
	tw := newTestWorld()
	a := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 1, Y: 1}, 1, 1)
	b := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 2, Y: 1}, 1, 1)
	c := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 3, Y: 1}, 1, 1)
	tw.spawn(components.SpeciesPlanktonPurple, r2.Vec{X: 4, Y: 1}, 1, 1)
	tw.spawn(components.SpeciesPrey, r2.Vec{X: 5, Y: 1}, 1, 3)

	if tw.flock.Len() != 4 {
		t.Errorf("Len = %d, want 4", tw.flock.Len())
	}
	tw.flock.Register(a, components.FlockBlue)
	if tw.flock.Count(components.FlockBlue) != 3 {
		t.Errorf("double register changed count to %d", tw.flock.Count(components.FlockBlue))
	}

	if !tw.flock.Remove(b) {
		t.Fatal("Remove(b) = false")
	}
	if tw.flock.Remove(b) {
		t.Error("second Remove(b) = true")
	}
	members := tw.flock.Members(components.FlockBlue)
	if len(members) != 2 || members[0] != a || members[1] != c {
		t.Errorf("members after remove = %v, want [a c] in order", members)
	}
	if g, ok := tw.flock.GroupOf(c); !ok || g != components.FlockBlue {
		t.Errorf("GroupOf(c) = %v, %v", g, ok)
	}
}
