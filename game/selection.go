package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/ui"
)

// selectRadiusPx is how far from an organism a click may land, in pixels.
const selectRadiusPx = 20

// handleSelection selects the organism under a left click and clears the
// selection on right click.
func (g *Game) handleSelection() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.selected = ecs.Entity{}
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	// Clicks on the HUD controls are not selections
	if mouse.X < 300 && mouse.Y < 180 {
		return
	}
	if e, ok := g.findOrganismAt(mouse.X, mouse.Y); ok {
		g.selected = e
	}
}

// findOrganismAt returns the organism closest to a screen position.
func (g *Game) findOrganismAt(sx, sy float32) (ecs.Entity, bool) {
	wx, wy := g.camera.ScreenToWorld(sx, sy)
	radius := float64(selectRadiusPx / g.camera.PixelsPerUnit())

	n, ok := g.grid.Nearest(r2.Vec{X: float64(wx), Y: float64(wy)}, radius, systems.AllSpecies, ecs.Entity{})
	if !ok || g.view.Organism(n.E) == nil {
		return ecs.Entity{}, false
	}
	return n.E, true
}

// inspectorData snapshots an organism for the inspector panel.
func (g *Game) inspectorData(e ecs.Entity) (*ui.InspectorData, bool) {
	org := g.view.Organism(e)
	if org == nil {
		return nil, false
	}
	d := &ui.InspectorData{
		ID:      org.ID,
		Species: org.Species,
		Age:     org.Age,
	}

	if b := g.view.Behavior(e); b != nil {
		d.State = b.State
	}
	if g.steeringMap.Has(e) {
		d.Source = g.steeringMap.Get(e).Source
	}
	if growth := g.view.Growth(e); growth != nil {
		d.Tier = growth.Tier
		d.MaxTier = growth.MaxTier
		d.Scale = growth.Scale()
	}
	if res := g.view.Resource(e); res != nil {
		d.Units = res.Units
		d.TotalUnits = res.Total
		d.Regenerating = res.Regenerating()
	}
	if _, vel, ok := g.view.Kinematics(e); ok {
		d.Speed = r2.Norm(vel)
	}
	d.Heading = math.Mod(g.rotMap.Get(e).Heading+2*math.Pi, 2*math.Pi)

	if s := g.view.Sensor(e); s != nil {
		d.HasSensor = true
		d.InRange = len(s.InRange())
		if s.HasTarget() {
			if t := g.view.Organism(s.Target); t != nil {
				d.TargetID = t.ID
			}
		}
	}
	if g.biteMap.Has(e) {
		clock := g.biteMap.Get(e)
		d.HasBiteClock = true
		d.Bites = clock.Bites
		d.BitesToGrow = clock.BitesToGrow
		d.MouthOpen = clock.MouthOpen
		d.Cooldown = math.Max(0, clock.NextBiteAt-g.env.Now)
	}
	if grp, ok := g.flock.GroupOf(e); ok {
		d.FlockSize = g.flock.Count(grp)
	}
	return d, true
}
