package physics

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/systems"
)

const dt = 1.0 / 60

func entities(n int) []ecs.Entity {
	w := ecs.NewWorld()
	m := ecs.NewMap[components.Organism](w)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = m.NewEntity(&components.Organism{ID: uint32(i + 1), Alive: true})
	}
	return out
}

func newTestKinematic() *Kinematic {
	return NewKinematic(systems.NewObstacleField(80, 50), Options{
		Width: 80, Height: 50, CellSize: 10,
		LinearDamping: 1.5, AngularDamping: 4,
	})
}

func fishBody() components.Body {
	return components.Body{Radius: 0.5, MouthRadius: 0.6, MouthOffset: 0.7, MaxSpeed: 6, MaxTurnRate: 4}
}

func TestKinematicSpeedClamp(t *testing.T) {
	k := newTestKinematic()
	e := entities(1)[0]
	k.Add(e, BodyDef{Species: components.SpeciesPrey, Body: fishBody(), State: State{Pos: r2.Vec{X: 40, Y: 10}}})

	for i := 0; i < 60; i++ {
		k.Apply(e, components.Motion{Force: r2.Vec{X: 1000}, Torque: 1000})
		k.Step(dt)
	}
	st, _ := k.State(e)
	if s := r2.Norm(st.Vel); s > 6+1e-9 {
		t.Errorf("speed = %f, want at most 6", s)
	}
	if st.AngVel > 4+1e-9 {
		t.Errorf("turn rate = %f, want at most 4", st.AngVel)
	}
}

func TestKinematicDampingSlowsUndriven(t *testing.T) {
	k := newTestKinematic()
	ents := entities(2)
	body := fishBody()
	k.Add(ents[0], BodyDef{Body: body, State: State{Pos: r2.Vec{X: 20, Y: 20}, Vel: r2.Vec{X: 2}}})
	body.Driven = true
	k.Add(ents[1], BodyDef{Body: body, State: State{Pos: r2.Vec{X: 20, Y: 30}, Vel: r2.Vec{X: 2}}})

	k.Step(dt)
	damped, _ := k.State(ents[0])
	driven, _ := k.State(ents[1])
	if damped.Vel.X >= 2 {
		t.Errorf("damped velocity = %f, want below 2", damped.Vel.X)
	}
	if driven.Vel.X != 2 {
		t.Errorf("driven velocity = %f, want 2", driven.Vel.X)
	}
}

func TestKinematicStopAndDamp(t *testing.T) {
	k := newTestKinematic()
	e := entities(1)[0]
	body := fishBody()
	body.Driven = true
	k.Add(e, BodyDef{Body: body, State: State{Pos: r2.Vec{X: 20, Y: 20}, Vel: r2.Vec{X: 4}}})

	k.Apply(e, components.Motion{Damp: 0.5})
	k.Step(dt)
	st, _ := k.State(e)
	if !near(st.Vel.X, 2) {
		t.Errorf("velocity after soft stop = %f, want 2", st.Vel.X)
	}

	k.Apply(e, components.Motion{Stop: true})
	k.Step(dt)
	st, _ = k.State(e)
	if st.Vel != (r2.Vec{}) {
		t.Errorf("velocity after stop = %v, want zero", st.Vel)
	}
}

func TestKinematicWallContact(t *testing.T) {
	k := newTestKinematic()
	e := entities(1)[0]
	body := fishBody()
	body.Driven = true
	k.Add(e, BodyDef{Body: body, State: State{Pos: r2.Vec{X: 1, Y: 20}, Vel: r2.Vec{X: -5}}})

	for i := 0; i < 30; i++ {
		k.Step(dt)
	}
	st, _ := k.State(e)
	if st.Pos.X < 0.5-1e-9 {
		t.Errorf("x = %f, body passed into the wall", st.Pos.X)
	}
	if st.Vel.X < 0 {
		t.Errorf("velocity x = %f, still pointing into the wall", st.Vel.X)
	}
}

func TestKinematicStaticBodyStays(t *testing.T) {
	k := newTestKinematic()
	e := entities(1)[0]
	start := r2.Vec{X: 30, Y: 30}
	k.Add(e, BodyDef{Species: components.SpeciesAlgae, Body: components.Body{Radius: 0.8, Static: true}, State: State{Pos: start}})

	k.Apply(e, components.Motion{Force: r2.Vec{X: 50}})
	k.Step(dt)
	if st, _ := k.State(e); st.Pos != start {
		t.Errorf("static body moved to %v", st.Pos)
	}
}

func TestKinematicSensorEvents(t *testing.T) {
	k := newTestKinematic()
	ents := entities(2)
	fish, algae := ents[0], ents[1]

	body := fishBody()
	body.Driven = true
	k.Add(fish, BodyDef{Species: components.SpeciesPrey, Body: body, State: State{Pos: r2.Vec{X: 10, Y: 10}, Vel: r2.Vec{X: -3}}})
	k.Add(algae, BodyDef{Species: components.SpeciesAlgae, Body: components.Body{Radius: 0.8, Static: true}, State: State{Pos: r2.Vec{X: 11, Y: 10}}})

	k.Step(dt)
	events := k.DrainEvents(nil)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 enter", len(events))
	}
	if ev := events[0]; ev.Kind != systems.SensorEnter || ev.Sensor != fish || ev.Candidate != algae {
		t.Errorf("event = %+v, want fish entering algae", ev)
	}
	if again := k.DrainEvents(nil); len(again) != 0 {
		t.Errorf("drain returned %d events twice", len(again))
	}

	// Swim away until the overlap ends
	var exit *systems.SensorEvent
	for i := 0; i < 120 && exit == nil; i++ {
		k.Step(dt)
		for _, ev := range k.DrainEvents(nil) {
			if ev.Kind == systems.SensorExit {
				ev := ev
				exit = &ev
			}
		}
	}
	if exit == nil {
		t.Fatal("no exit event after swimming away")
	}
	if exit.Sensor != fish || exit.Candidate != algae {
		t.Errorf("exit = %+v, want fish leaving algae", *exit)
	}
}

func TestKinematicRemove(t *testing.T) {
	k := newTestKinematic()
	ents := entities(2)
	k.Add(ents[0], BodyDef{Body: fishBody(), State: State{Pos: r2.Vec{X: 10, Y: 10}}})
	k.Add(ents[1], BodyDef{Body: components.Body{Radius: 0.8, Static: true}, State: State{Pos: r2.Vec{X: 11, Y: 10}}})
	k.Step(dt)
	k.DrainEvents(nil)

	k.Remove(ents[1])
	if k.Len() != 1 {
		t.Errorf("Len = %d, want 1", k.Len())
	}
	if _, ok := k.State(ents[1]); ok {
		t.Error("removed body still has state")
	}
	k.Step(dt)
	if events := k.DrainEvents(nil); len(events) != 0 {
		t.Errorf("removed body produced events %+v", events)
	}
}

func TestNewBackend(t *testing.T) {
	if _, err := New("bogus", nil, Options{Width: 10, Height: 10}); err == nil {
		t.Error("unknown backend accepted")
	}
	in, err := New(BackendKinematic, nil, Options{Width: 10, Height: 10})
	if err != nil || in == nil {
		t.Errorf("kinematic backend: %v", err)
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
