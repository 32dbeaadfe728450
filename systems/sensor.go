package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// SensorEventKind distinguishes overlap starts from overlap ends.
type SensorEventKind uint8

const (
	SensorEnter SensorEventKind = iota
	SensorExit
)

// SensorEvent is reported by the integrator when a candidate starts or stops
// overlapping a mouth sensor.
type SensorEvent struct {
	Kind      SensorEventKind
	Sensor    ecs.Entity // owner of the sensor
	Candidate ecs.Entity
}

// SensorIndex remembers which sensors have each candidate in range, so that
// a death can be scrubbed from every sensor at once.
type SensorIndex struct {
	holders map[ecs.Entity][]ecs.Entity
}

// NewSensorIndex creates an empty index.
func NewSensorIndex() *SensorIndex {
	return &SensorIndex{holders: make(map[ecs.Entity][]ecs.Entity)}
}

// Apply feeds events to their sensors in order. Enters for candidates that
// already died are dropped. Handles are compared with
// their generation, so a candidate leaving is never confused with a recycled
// one entering in the same batch.
func (x *SensorIndex) Apply(events []SensorEvent, world Organisms) {
	for _, ev := range events {
		s := world.Sensor(ev.Sensor)
		if s == nil {
			continue
		}
		owner := ev.Sensor
		valid := func(c ecs.Entity) bool { return Edible(world, owner, c) }

		switch ev.Kind {
		case SensorEnter:
			if _, alive := world.Species(ev.Candidate); !alive {
				continue
			}
			s.Enter(ev.Candidate, valid(ev.Candidate))
			x.add(ev.Candidate, owner)
		case SensorExit:
			s.Exit(ev.Candidate, valid)
			x.drop(ev.Candidate, owner)
		}
	}
}

// Retarget drops a target that became invalid and promotes the most recent
// valid candidate still in range.
func Retarget(owner ecs.Entity, s *components.ProximitySensor, world Organisms) {
	s.Retarget(func(c ecs.Entity) bool { return Edible(world, owner, c) })
}

// Release scrubs a dead organism from every sensor that had it in range and
// forgets the candidates its own sensor held. Returns how many sensors were
// touched.
func (x *SensorIndex) Release(dead ecs.Entity, own *components.ProximitySensor, world Organisms) int {
	owners := x.holders[dead]
	delete(x.holders, dead)
	for _, owner := range owners {
		s := world.Sensor(owner)
		if s == nil {
			continue
		}
		s.Exit(dead, func(c ecs.Entity) bool { return Edible(world, owner, c) })
	}

	if own != nil {
		for _, c := range own.InRange() {
			x.drop(c, dead)
		}
		own.Reset()
	}
	return len(owners)
}

// Holders returns the sensors that currently have e in range.
func (x *SensorIndex) Holders(e ecs.Entity) []ecs.Entity {
	return x.holders[e]
}

func (x *SensorIndex) add(c, owner ecs.Entity) {
	for _, o := range x.holders[c] {
		if o == owner {
			return
		}
	}
	x.holders[c] = append(x.holders[c], owner)
}

func (x *SensorIndex) drop(c, owner ecs.Entity) {
	owners := x.holders[c]
	for i, o := range owners {
		if o == owner {
			owners = append(owners[:i], owners[i+1:]...)
			break
		}
	}
	if len(owners) == 0 {
		delete(x.holders, c)
		return
	}
	x.holders[c] = owners
}
