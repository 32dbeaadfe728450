package components

import "github.com/mlange-42/ark/ecs"

// ProximitySensor holds the single candidate an agent may bite.
// Target is a handle into the world; it is looked up every time it is used
// and never keeps the target alive.
type ProximitySensor struct {
	Target ecs.Entity

	// Candidates overlapping the mouth, oldest first.
	inRange []ecs.Entity
}

// HasTarget reports whether a target is set.
func (s *ProximitySensor) HasTarget() bool {
	return !s.Target.IsZero()
}

// Clear drops the current target. Candidates stay in range.
func (s *ProximitySensor) Clear() {
	s.Target = ecs.Entity{}
}

// Enter records a candidate entering range. A valid candidate becomes the
// target immediately.
func (s *ProximitySensor) Enter(e ecs.Entity, valid bool) {
	s.remove(e)
	s.inRange = append(s.inRange, e)
	if valid {
		s.Target = e
	}
}

// Exit records a candidate leaving range. If it was the target, the most
// recently entered remaining candidate that passes valid takes over.
func (s *ProximitySensor) Exit(e ecs.Entity, valid func(ecs.Entity) bool) {
	s.remove(e)
	if s.Target == e {
		s.Target = ecs.Entity{}
		s.Retarget(valid)
	}
}

// Retarget keeps the current target if it is still valid, otherwise picks the
// most recently entered valid candidate, or clears.
func (s *ProximitySensor) Retarget(valid func(ecs.Entity) bool) {
	if s.HasTarget() && valid(s.Target) {
		return
	}
	s.Target = ecs.Entity{}
	for i := len(s.inRange) - 1; i >= 0; i-- {
		if valid(s.inRange[i]) {
			s.Target = s.inRange[i]
			return
		}
	}
}

// InRange returns the overlapping candidates, oldest first.
func (s *ProximitySensor) InRange() []ecs.Entity {
	return s.inRange
}

// Reset forgets every candidate.
func (s *ProximitySensor) Reset() {
	s.Target = ecs.Entity{}
	s.inRange = s.inRange[:0]
}

func (s *ProximitySensor) remove(e ecs.Entity) {
	for i, c := range s.inRange {
		if c == e {
			s.inRange = append(s.inRange[:i], s.inRange[i+1:]...)
			return
		}
	}
}
