package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// BroadcastFlee panics every plankton of the eaten one's colour within the
// contagion radius of where it was eaten. They flee from that point for the
// panic time. Returns the number of plankton alerted.
func BroadcastFlee(env *Env, eaten ecs.Entity, species components.Species, at r2.Vec) int {
	if !species.IsPlankton() {
		return 0
	}
	p := &env.Params.Plankton

	alerted := 0
	env.Grid.ForEachInRadius(at, p.ContagionRadius, MaskOf(species), eaten, func(n Neighbor) {
		b := env.World.Behavior(n.E)
		if b == nil {
			return
		}
		b.State = components.StateFleeing
		b.Threat = at
		b.PanicUntil = env.Now + p.PanicTime
		alerted++
	})
	return alerted
}
