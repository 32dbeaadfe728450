package game

import (
	"log/slog"
	"strings"

	"github.com/pthm-cable/shoal/components"
)

// logWorldState logs population, behavior state and notification counters.
func (g *Game) logWorldState() {
	names := components.BehaviorStateNames()
	states := make([]int, len(names))
	var regenerating, eating int

	for _, e := range g.live {
		org := g.view.Organism(e)
		if org == nil || !org.Alive {
			continue
		}
		if b := g.view.Behavior(e); b != nil && int(b.State) < len(states) {
			states[b.State]++
			if b.Eating {
				eating++
			}
		}
		if r := g.view.Resource(e); r != nil && r.Regenerating() {
			regenerating++
		}
	}

	attrs := []any{
		"tick", g.tick,
		"sim_time", g.env.Now,
		"bodies", g.integrator.Len(),
		"flock_members", g.flock.Len(),
		"regenerating", regenerating,
		"eating", eating,
		"stars", g.stars,
		"published", g.bus.Published(),
		"dropped", g.bus.Dropped(),
	}
	for s := components.Species(0); int(s) < components.NumSpecies; s++ {
		attrs = append(attrs, s.String(), g.counts[s])
	}
	for i, n := range states {
		if n > 0 {
			attrs = append(attrs, "state_"+strings.ToLower(names[i]), n)
		}
	}
	slog.Info("world_state", attrs...)
}
