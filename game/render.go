package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/ui"
)

// initViewer creates the camera, renderers and panels. No raylib calls are
// made here, so it may run before or after the window opens.
func (g *Game) initViewer() {
	sc := g.cfg.Screen
	w := g.cfg.World
	g.screenW = float32(sc.Width)
	g.screenH = float32(sc.Height)

	g.camera = camera.New(g.screenW, g.screenH, float32(w.Width), float32(w.Height), float32(sc.PixelsPerUnit))
	g.scene = renderer.NewScene(g.seed, g.obstacles, g.zones, g.current)

	g.hud = ui.NewHUD(maxStepsPerUpdate)
	g.perfPanel = ui.NewPerfPanel(0, 0)
	g.statsPanel = ui.NewWindowStatsPanel(0, 0, 320)
	g.controls = ui.NewControlsPanel(10, 190, 230)
	g.inspector = ui.NewInspector(0, 0, 260)
	g.overlays = ui.NewOverlayRegistry()

	g.follow = true
	g.scratch = make([]systems.Neighbor, 0, systems.MaxQueryResults)
	g.layoutPanels()
}

// layoutPanels anchors the right-hand panels to the current screen size.
func (g *Game) layoutPanels() {
	right := int32(g.screenW)
	bottom := int32(g.screenH)
	g.inspector.SetPosition(right-270, 10)
	g.perfPanel.SetPosition(right-330, bottom-200)
	g.statsPanel.SetPosition(10, bottom-160)
}

// effect spawns a visual effect at a world position. It does nothing when
// headless.
func (g *Game) effect(kind renderer.EffectKind, pos r2.Vec, scale float64) {
	if g.scene == nil {
		return
	}
	g.scene.Effects.Spawn(kind, float32(pos.X), float32(pos.Y), float32(scale))
}

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()

	frame := float64(rl.GetFrameTime())
	if g.paused {
		frame = 0
	}
	g.scene.Update(frame, g.env.Now)

	g.sprites = g.collectSprites(g.sprites[:0])
	g.scene.Draw(g.camera, g.sprites, g.overlays.IsEnabled(ui.OverlayZones))

	g.drawActiveOverlays()
	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the HUD and panels and applies HUD control changes.
func (g *Game) drawUI() {
	actions := g.hud.Draw(g.hudData())
	if actions.TogglePause {
		g.paused = !g.paused
	}
	if actions.Speed >= 1 && actions.Speed <= maxStepsPerUpdate {
		g.stepsPerUpdate = actions.Speed
	}
	g.hud.DrawControls(int32(g.screenH), controlsLegend)

	g.controls.Draw(g.overlays)
	g.statsPanel.Draw(g.lastStats)

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats(), g.integrator.Len())
	}

	if !g.selected.IsZero() {
		if data, ok := g.inspectorData(g.selected); ok {
			g.inspector.Draw(data)
		} else {
			g.selected = ecs.Entity{}
		}
	}
}

// hudData gathers the values shown in the HUD.
func (g *Game) hudData() ui.HUDData {
	d := ui.HUDData{
		Title:   "Shoal",
		Counts:  g.counts,
		Tick:    g.tick,
		SimTime: g.env.Now,
		Speed:   g.stepsPerUpdate,
		FPS:     rl.GetFPS(),
		Paused:  g.paused,
		MaxTier: g.cfg.Growth.MaxTier,
		Stars:   g.stars,
	}

	e := g.Player()
	if e.IsZero() {
		return d
	}
	d.PlayerAlive = true
	d.PlayerTier = g.growthMap.Get(e).Tier
	if limit := g.cfg.Player.DirtyWaterTime; limit > 0 {
		d.Exposure = float32(g.exposureMap.Get(e).Timer / limit)
	}
	return d
}

// fleeing reports whether a behavior is in the plankton flee state.
func fleeing(b *components.Behavior) bool {
	return b != nil && b.State == components.StateFleeing
}
