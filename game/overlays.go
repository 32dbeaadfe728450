package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/physics"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/ui"
)

var (
	mouthColor   = rl.Color{R: 255, G: 240, B: 120, A: 140}
	targetColor  = rl.Color{R: 255, G: 120, B: 90, A: 200}
	flockColor   = rl.Color{R: 140, G: 200, B: 255, A: 70}
	rayColor     = rl.Color{R: 200, G: 200, B: 200, A: 80}
	rayHitColor  = rl.Color{R: 255, G: 80, B: 80, A: 200}
	intentColor  = rl.Color{R: 255, G: 220, B: 80, A: 230}
	gridColor    = rl.Color{R: 255, G: 255, B: 255, A: 25}
	labelColor   = rl.Color{R: 230, G: 230, B: 230, A: 220}
	currentSpace = float32(4)
)

// drawActiveOverlays draws every enabled world-space overlay.
func (g *Game) drawActiveOverlays() {
	if g.overlays.IsEnabled(ui.OverlayGrid) {
		g.drawGrid()
	}
	if g.overlays.IsEnabled(ui.OverlayCurrent) {
		g.scene.Flow.DrawArrows(g.camera, g.env.Now, currentSpace)
	}

	flock := g.overlays.IsEnabled(ui.OverlayFlock)
	sensors := g.overlays.IsEnabled(ui.OverlaySensors)
	avoid := g.overlays.IsEnabled(ui.OverlayAvoidance)
	states := g.overlays.IsEnabled(ui.OverlayStates)
	if !flock && !sensors && !avoid && !states {
		return
	}

	query := g.orgFilter.Query()
	for query.Next() {
		e := query.Entity()
		org, pos := query.Get()
		if !org.Alive || org.Species == components.SpeciesAlgae {
			continue
		}
		p := pos.Vec()
		if !g.camera.IsVisible(float32(p.X), float32(p.Y), 4) {
			continue
		}
		if flock && org.Species.IsPlankton() {
			g.drawFlockLinks(e, org.Species, p)
		}
		if sensors {
			g.drawSensor(e, p)
		}
		if avoid {
			g.drawAvoidance(org.Species, e, p)
		}
		if states {
			g.drawStateLabel(e, p)
		}
	}

	if avoid {
		g.drawPlayerIntent()
	}
}

// drawGrid draws the spatial grid cell boundaries.
func (g *Game) drawGrid() {
	cell := g.cfg.World.CellSize
	w, h := g.cfg.World.Width, g.cfg.World.Height
	for x := 0.0; x <= w; x += cell {
		from := g.screen(r2.Vec{X: x})
		to := g.screen(r2.Vec{X: x, Y: h})
		rl.DrawLineV(from, to, gridColor)
	}
	for y := 0.0; y <= h; y += cell {
		from := g.screen(r2.Vec{Y: y})
		to := g.screen(r2.Vec{X: w, Y: y})
		rl.DrawLineV(from, to, gridColor)
	}
}

// drawFlockLinks connects a plankton to the flock mates it can see.
func (g *Game) drawFlockLinks(e ecs.Entity, s components.Species, p r2.Vec) {
	g.scratch = g.grid.QueryRadiusInto(g.scratch[:0], p, g.params.Plankton.NeighborRadius, systems.MaskOf(s), e)
	from := g.screen(p)
	for _, n := range g.scratch {
		// Each pair once
		if n.E.ID() < e.ID() {
			continue
		}
		rl.DrawLineV(from, g.screen(r2.Add(p, n.Delta)), flockColor)
	}
}

// drawSensor draws the mouth sensor and a line to the current target.
func (g *Game) drawSensor(e ecs.Entity, p r2.Vec) {
	body := g.bodyMap.Get(e)
	if body.MouthRadius <= 0 {
		return
	}
	scale := 1.0
	if g.growthMap.Has(e) {
		scale = g.growthMap.Get(e).Scale()
	}
	heading := g.rotMap.Get(e).Heading
	mouth := physics.MouthCenter(p, heading, body.MouthOffset*scale)
	at := g.screen(mouth)
	rl.DrawCircleLines(int32(at.X), int32(at.Y), g.camera.WorldLength(float32(body.MouthRadius*scale)), mouthColor)

	s := g.view.Sensor(e)
	if s == nil || !s.HasTarget() {
		return
	}
	if tp, ok := g.Position(s.Target); ok {
		rl.DrawLineEx(at, g.screen(tp), 1.5, targetColor)
	}
}

// drawAvoidance draws the obstacle ray fan, highlighting hits.
func (g *Game) drawAvoidance(species components.Species, e ecs.Entity, p r2.Vec) {
	params := systems.AvoidanceFor(species, g.params)
	if params.LookAhead <= 0 {
		return
	}
	heading := g.rotMap.Get(e).Heading
	var dirs [16]r2.Vec
	from := g.screen(p)
	for _, d := range systems.RayDirections(heading, params, dirs[:0]) {
		if hit, ok := g.obstacles.Raycast(p, d, params.LookAhead); ok {
			rl.DrawLineV(from, g.screen(hit.Point), rayHitColor)
			continue
		}
		rl.DrawLineV(from, g.screen(r2.Add(p, r2.Scale(params.LookAhead, d))), rayColor)
	}
}

// drawStateLabel writes the behavior state above an organism.
func (g *Game) drawStateLabel(e ecs.Entity, p r2.Vec) {
	b := g.view.Behavior(e)
	if b == nil {
		return
	}
	at := g.screen(p)
	text := b.State.String()
	w := rl.MeasureText(text, 10)
	rl.DrawText(text, int32(at.X)-w/2, int32(at.Y)-22, 10, labelColor)
}

// drawPlayerIntent draws the player's requested move direction.
func (g *Game) drawPlayerIntent() {
	p, ok := g.Position(g.Player())
	if !ok {
		return
	}
	in := g.playerIntent()
	if in.Move == (r2.Vec{}) {
		return
	}
	rl.DrawLineEx(g.screen(p), g.screen(r2.Add(p, r2.Scale(3, in.Move))), 2, intentColor)
}

func (g *Game) screen(p r2.Vec) rl.Vector2 {
	x, y := g.camera.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}
