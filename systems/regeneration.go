package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
)

// Regrown is a resource whose units changed during regeneration.
type Regrown struct {
	E     ecs.Entity
	ID    uint32
	Units int
	Tier  int
}

// RegenerationSystem advances every in-flight regeneration run on the tick
// thread and re-derives the display tier of food items.
type RegenerationSystem struct {
	filter *ecs.Filter3[components.Organism, components.ConsumableResource, components.GrowthProfile]
	out    []Regrown
}

// NewRegenerationSystem creates the system for a world.
func NewRegenerationSystem(w *ecs.World) *RegenerationSystem {
	return &RegenerationSystem{
		filter: ecs.NewFilter3[components.Organism, components.ConsumableResource, components.GrowthProfile](w),
	}
}

// Update advances regeneration by dt. The returned slice is reused on the
// next call.
func (s *RegenerationSystem) Update(dt float64) []Regrown {
	s.out = s.out[:0]
	query := s.filter.Query()
	for query.Next() {
		org, res, growth := query.Get()
		if !org.Alive || !res.Regenerating() {
			continue
		}
		if !res.AdvanceRegen(dt) {
			continue
		}
		tier := growth.Tier
		if org.Species.IsFood() {
			tier = growth.ApplyTier(res.VisualTier())
		}
		s.out = append(s.out, Regrown{E: query.Entity(), ID: org.ID, Units: res.Units, Tier: tier})
	}
	return s.out
}
