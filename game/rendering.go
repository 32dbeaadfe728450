package game

import (
	"github.com/pthm-cable/shoal/renderer"
)

// collectSprites snapshots every live organism into dst for drawing.
func (g *Game) collectSprites(dst []renderer.Sprite) []renderer.Sprite {
	query := g.orgFilter.Query()
	for query.Next() {
		e := query.Entity()
		org, pos := query.Get()
		if !org.Alive {
			continue
		}

		s := renderer.Sprite{
			Species:  org.Species,
			X:        float32(pos.X),
			Y:        float32(pos.Y),
			Radius:   float32(g.bodyMap.Get(e).Radius),
			Selected: e == g.selected,
		}
		if g.rotMap.Has(e) {
			s.Heading = float32(g.rotMap.Get(e).Heading)
		}
		if g.growthMap.Has(e) {
			s.Radius *= float32(g.growthMap.Get(e).Scale())
		}
		if g.resourceMap.Has(e) {
			res := g.resourceMap.Get(e)
			s.Units = res.Units
			s.Total = res.Total
		}
		if g.biteMap.Has(e) {
			s.MouthOpen = g.biteMap.Get(e).MouthOpen
		}
		if g.behaviorMap.Has(e) {
			s.Fleeing = fleeing(g.behaviorMap.Get(e))
		}
		dst = append(dst, s)
	}
	return dst
}
