package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

const maxStepsPerUpdate = 10

// controlsLegend is drawn at the bottom of the screen.
const controlsLegend = "WASD: swim | J: bite | Space: pause | ,/.: speed | F: follow | O: overlays | Arrows/wheel: camera | Home: reset | Click: inspect"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyO) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.follow = !g.follow
	}

	// Overlay toggles
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.overlays.HandleKeyPress(key)
	}

	g.handlePlayerInput()
	g.handleCameraInput()
	g.handleSelection()
}

// handlePlayerInput maps keys to the player's intent. Bite edges stay set
// until a simulation step consumes them.
func (g *Game) handlePlayerInput() {
	e := g.Player()
	if e.IsZero() {
		return
	}
	in := g.intentMap.Get(e)

	var move r2.Vec
	if rl.IsKeyDown(rl.KeyW) {
		move.Y--
	}
	if rl.IsKeyDown(rl.KeyS) {
		move.Y++
	}
	if rl.IsKeyDown(rl.KeyA) {
		move.X--
	}
	if rl.IsKeyDown(rl.KeyD) {
		move.X++
	}
	in.Move = clampIntent(move)

	if rl.IsKeyPressed(rl.KeyJ) {
		in.BiteRequested = true
	}
	if rl.IsKeyReleased(rl.KeyJ) {
		in.BiteReleased = true
	}
}

// clampIntent limits a move vector to unit length.
func clampIntent(v r2.Vec) r2.Vec {
	if n := r2.Norm(v); n > 1 {
		return r2.Scale(1/n, v)
	}
	return v
}

// clearIntentEdges resets the one-shot bite edges after a step.
func (g *Game) clearIntentEdges() {
	e := g.Player()
	if e.IsZero() {
		return
	}
	in := g.intentMap.Get(e)
	in.BiteRequested = false
	in.BiteReleased = false
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenW && h == g.screenH {
		return
	}
	g.screenW = w
	g.screenH = h

	g.camera.Resize(w, h)
	g.layoutPanels()
}

// handleCameraInput processes camera pan/zoom controls. Panning by hand
// stops following the player.
func (g *Game) handleCameraInput() {
	panSpeed := float32(8.0)

	var dx, dy float32
	if rl.IsKeyDown(rl.KeyRight) {
		dx += panSpeed
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		dx -= panSpeed
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dy += panSpeed
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dy -= panSpeed
	}
	if dx != 0 || dy != 0 {
		g.follow = false
		g.camera.Pan(dx, dy)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// followPlayer keeps the camera on the player while following is on.
func (g *Game) followPlayer() {
	if g.camera == nil || !g.follow {
		return
	}
	if pos, ok := g.Position(g.Player()); ok {
		g.camera.Follow(float32(pos.X), float32(pos.Y))
	}
}

// playerIntent returns the current player intent, zero when there is no player.
func (g *Game) playerIntent() components.PlayerIntent {
	e := g.Player()
	if e.IsZero() {
		return components.PlayerIntent{}
	}
	return *g.intentMap.Get(e)
}
