package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

func TestSensorApplyOrdering(t *testing.T) {
	tw := newTestWorld()
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	a := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 11, Y: 10}, 1, 3)
	b := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 10, Y: 11}, 1, 3)
	sensor := tw.view.Sensor(prey)

	tw.index.Apply([]SensorEvent{
		{Kind: SensorEnter, Sensor: prey, Candidate: a},
		{Kind: SensorEnter, Sensor: prey, Candidate: b},
	}, tw.view)
	if sensor.Target != b {
		t.Fatalf("target after two enters = %v, want most recent %v", sensor.Target, b)
	}

	tw.index.Apply([]SensorEvent{{Kind: SensorExit, Sensor: prey, Candidate: b}}, tw.view)
	if sensor.Target != a {
		t.Errorf("target after exit = %v, want fallback %v", sensor.Target, a)
	}

	tw.index.Apply([]SensorEvent{{Kind: SensorExit, Sensor: prey, Candidate: a}}, tw.view)
	if sensor.HasTarget() {
		t.Errorf("target after all exits = %v, want none", sensor.Target)
	}
	if len(tw.index.Holders(a)) != 0 {
		t.Errorf("holders of a = %v, want none", tw.index.Holders(a))
	}
}

func TestSensorInvalidCandidateNotTargeted(t *testing.T) {
	tw := newTestWorld()
	pred := tw.spawn(components.SpeciesPredator, r2.Vec{X: 10, Y: 10}, 2, 4)
	big := tw.spawn(components.SpeciesPrey, r2.Vec{X: 11, Y: 10}, 2, 3)

	tw.enter(pred, big)
	sensor := tw.view.Sensor(pred)
	if sensor.HasTarget() {
		t.Errorf("predator targeted same-tier prey %v", sensor.Target)
	}
	if len(sensor.InRange()) != 1 {
		t.Errorf("in range = %d, want 1", len(sensor.InRange()))
	}
}

func TestSensorRecycledEntity(t *testing.T) {
	tw := newTestWorld()
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	old := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 11, Y: 10}, 1, 3)
	tw.enter(prey, old)

	tw.w.RemoveEntity(old)
	fresh := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 11, Y: 10}, 1, 3)
	if fresh == old {
		t.Fatal("recycled entity compares equal to the removed one")
	}

	// A new candidate entering and the old one exiting in the same batch
	tw.index.Apply([]SensorEvent{
		{Kind: SensorEnter, Sensor: prey, Candidate: fresh},
		{Kind: SensorExit, Sensor: prey, Candidate: old},
	}, tw.view)

	sensor := tw.view.Sensor(prey)
	if sensor.Target != fresh {
		t.Errorf("target = %v, want %v", sensor.Target, fresh)
	}
	for _, c := range sensor.InRange() {
		if c == old {
			t.Errorf("removed entity still in range")
		}
	}
}

func TestSensorIgnoresDeadCandidateEnter(t *testing.T) {
	tw := newTestWorld()
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	food := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 10.5, Y: 10}, 1, 3)

	tw.view.Organism(food).Alive = false
	tw.enter(prey, food)

	if holders := tw.index.Holders(food); len(holders) != 0 {
		t.Errorf("Holders(dead) = %v, want none", holders)
	}
	if s := tw.view.Sensor(prey); s.HasTarget() || len(s.InRange()) != 0 {
		t.Errorf("sensor target=%v range=%d, want empty", s.Target, len(s.InRange()))
	}
}

func TestSensorReleaseOnDeath(t *testing.T) {
	tw := newTestWorld()
	p1 := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	p2 := tw.spawn(components.SpeciesPrey, r2.Vec{X: 12, Y: 10}, 1, 3)
	food := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 11, Y: 10}, 1, 3)
	other := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 12, Y: 11}, 1, 3)

	tw.enter(p2, other)
	tw.enter(p1, food)
	tw.enter(p2, food)

	tw.view.Organism(food).Alive = false
	if n := tw.index.Release(food, nil, tw.view); n != 2 {
		t.Errorf("released from %d sensors, want 2", n)
	}
	if s := tw.view.Sensor(p1); s.HasTarget() {
		t.Errorf("p1 still targets %v", s.Target)
	}
	if s := tw.view.Sensor(p2); s.Target != other {
		t.Errorf("p2 target = %v, want fallback %v", s.Target, other)
	}

	// A dying holder forgets its own candidates
	own := tw.view.Sensor(p2)
	tw.view.Organism(p2).Alive = false
	tw.index.Release(p2, tw.view.OwnSensor(p2), tw.view)
	if own.HasTarget() || len(own.InRange()) != 0 {
		t.Errorf("dead holder sensor not reset: target=%v range=%d", own.Target, len(own.InRange()))
	}
	if len(tw.index.Holders(other)) != 0 {
		t.Errorf("holders of other = %v, want none", tw.index.Holders(other))
	}
}

func TestRetargetDropsDepleted(t *testing.T) {
	tw := newTestWorld()
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	a := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 11, Y: 10}, 1, 3)
	b := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 10, Y: 11}, 1, 3)
	tw.enter(prey, a)
	tw.enter(prey, b)

	tw.view.Resource(b).Units = 0
	sensor := tw.view.Sensor(prey)
	Retarget(prey, sensor, tw.view)
	if sensor.Target != a {
		t.Errorf("target = %v, want %v", sensor.Target, a)
	}
}
