package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/systems"
)

// ZoneRenderer draws dirty water and uncollected stars.
type ZoneRenderer struct {
	zones *systems.ZoneIndex
}

// NewZoneRenderer creates a renderer over a zone index.
func NewZoneRenderer(zones *systems.ZoneIndex) *ZoneRenderer {
	return &ZoneRenderer{zones: zones}
}

// Draw renders the zones. outline adds borders for the dirty-water overlay.
func (r *ZoneRenderer) Draw(cam *camera.Camera, time float32, outline bool) {
	murk := rl.Color{R: 90, G: 75, B: 40, A: 110}
	for _, z := range r.zones.Zones() {
		x0, y0 := cam.WorldToScreen(float32(z.Min.X), float32(z.Min.Y))
		x1, y1 := cam.WorldToScreen(float32(z.Max.X), float32(z.Max.Y))
		rect := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
		rl.DrawRectangleRec(rect, murk)
		if outline {
			rl.DrawRectangleLinesEx(rect, 2, rl.Color{R: 200, G: 160, B: 80, A: 220})
		}
	}

	pulse := float32(0.85 + 0.15*math.Sin(float64(time)*4))
	for _, s := range r.zones.Stars() {
		center := screenVec(cam, float32(s.Pos.X), float32(s.Pos.Y))
		size := cam.WorldLength(0.35+0.1*float32(s.Value)) * pulse
		rot := time * 40
		rl.DrawPoly(center, 5, size, rot, rl.Color{R: 255, G: 215, B: 70, A: 255})
		rl.DrawPoly(center, 5, size*0.5, rot+36, rl.Color{R: 255, G: 250, B: 200, A: 255})
	}
}
