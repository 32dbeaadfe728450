package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// FlockRegistry holds every alive flocking organism, grouped by flock.
// It is owned by the simulation and passed to steering by reference.
// Membership changes only on spawn and death; steering only reads it.
type FlockRegistry struct {
	groups map[components.FlockGroup][]ecs.Entity
	index  map[ecs.Entity]components.FlockGroup
}

// NewFlockRegistry creates an empty registry.
func NewFlockRegistry() *FlockRegistry {
	return &FlockRegistry{
		groups: make(map[components.FlockGroup][]ecs.Entity),
		index:  make(map[ecs.Entity]components.FlockGroup),
	}
}

// Register adds an entity to a group. Registering twice is a no-op.
func (r *FlockRegistry) Register(e ecs.Entity, group components.FlockGroup) {
	if group == components.FlockNone {
		return
	}
	if _, ok := r.index[e]; ok {
		return
	}
	r.index[e] = group
	r.groups[group] = append(r.groups[group], e)
}

// Remove drops an entity. Order of the remaining members is preserved so
// iteration stays deterministic.
func (r *FlockRegistry) Remove(e ecs.Entity) bool {
	group, ok := r.index[e]
	if !ok {
		return false
	}
	delete(r.index, e)
	members := r.groups[group]
	for i, m := range members {
		if m == e {
			r.groups[group] = append(members[:i], members[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether e is registered.
func (r *FlockRegistry) Contains(e ecs.Entity) bool {
	_, ok := r.index[e]
	return ok
}

// GroupOf returns the group e is registered under.
func (r *FlockRegistry) GroupOf(e ecs.Entity) (components.FlockGroup, bool) {
	g, ok := r.index[e]
	return g, ok
}

// Members returns the registered entities of a group. The slice is owned by
// the registry and must not be modified.
func (r *FlockRegistry) Members(group components.FlockGroup) []ecs.Entity {
	return r.groups[group]
}

// Len returns the total number of registered entities.
func (r *FlockRegistry) Len() int {
	return len(r.index)
}

// Count returns the number of members in a group.
func (r *FlockRegistry) Count(group components.FlockGroup) int {
	return len(r.groups[group])
}
