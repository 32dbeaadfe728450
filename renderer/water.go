package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/shoal/camera"
)

// WaterRenderer draws the tank water: a depth gradient with slowly moving
// caustic light patches sampled from simplex noise.
type WaterRenderer struct {
	noise    opensimplex.Noise
	worldW   float32
	worldH   float32
	cellSize float32 // world units per caustic cell

	Top    rl.Color
	Bottom rl.Color
	Light  rl.Color
	Void   rl.Color // outside the tank
}

// NewWaterRenderer creates a water renderer for a tank of the given size.
func NewWaterRenderer(seed int64, worldW, worldH float32) *WaterRenderer {
	return &WaterRenderer{
		noise:    opensimplex.New(seed + 7),
		worldW:   worldW,
		worldH:   worldH,
		cellSize: 2,
		Top:      rl.Color{R: 24, G: 92, B: 128, A: 255},
		Bottom:   rl.Color{R: 6, G: 30, B: 52, A: 255},
		Light:    rl.Color{R: 160, G: 220, B: 240, A: 255},
		Void:     rl.Color{R: 4, G: 10, B: 16, A: 255},
	}
}

// Draw renders the water for the visible part of the tank.
func (w *WaterRenderer) Draw(cam *camera.Camera, time float32) {
	rl.ClearBackground(w.Void)

	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(w.worldW, w.worldH)
	rl.DrawRectangleGradientV(int32(x0), int32(y0), int32(x1-x0), int32(y1-y0), w.Top, w.Bottom)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	minX = maxf(minX, 0)
	minY = maxf(minY, 0)
	maxX = minf(maxX, w.worldW)
	maxY = minf(maxY, w.worldH)

	cell := w.cellSize
	px := cam.WorldLength(cell) + 1
	t := float64(time) * 0.15
	for y := floorTo(minY, cell); y < maxY; y += cell {
		// Light fades with depth
		depth := 1 - y/w.worldH
		for x := floorTo(minX, cell); x < maxX; x += cell {
			n := w.noise.Eval3(float64(x)*0.08, float64(y)*0.08, t)
			if n < 0.25 {
				continue
			}
			a := float32(n-0.25) * 70 * depth
			c := w.Light
			c.A = uint8(clampf(a, 0, 255))
			sx, sy := cam.WorldToScreen(x, y)
			rl.DrawRectangle(int32(sx), int32(sy), int32(px), int32(px), c)
		}
	}
}

func floorTo(v, step float32) float32 {
	return float32(int(v/step)) * step
}
