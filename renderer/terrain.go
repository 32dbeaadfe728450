package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/systems"
)

const rockSegments = 28

// rockShape is a precomputed rock outline in world units.
type rockShape struct {
	cx, cy  float32
	outline [rockSegments]rl.Vector2
	shade   uint8
}

// TerrainRenderer draws the tank walls and the rocks with organic edges.
type TerrainRenderer struct {
	worldW, worldH float32
	rocks          []rockShape
}

// NewTerrainRenderer precomputes rock outlines from the obstacle field.
// Edges are perturbed with simplex noise; collision still uses the circles.
func NewTerrainRenderer(seed int64, obstacles *systems.ObstacleField) *TerrainRenderer {
	noise := opensimplex.New(seed + 13)
	r := &TerrainRenderer{
		worldW: float32(obstacles.Width()),
		worldH: float32(obstacles.Height()),
	}

	for i, o := range obstacles.Rocks() {
		shape := rockShape{
			cx:    float32(o.Center.X),
			cy:    float32(o.Center.Y),
			shade: uint8(50 + 20*noise.Eval2(float64(i)*3.1, 0.5)),
		}
		for k := 0; k < rockSegments; k++ {
			a := float64(k) / rockSegments * 2 * math.Pi
			bump := 1 + 0.12*noise.Eval2(math.Cos(a)*1.5+float64(i)*10, math.Sin(a)*1.5)
			rad := o.Radius * bump
			shape.outline[k] = rl.Vector2{
				X: float32(o.Center.X + math.Cos(a)*rad),
				Y: float32(o.Center.Y + math.Sin(a)*rad),
			}
		}
		r.rocks = append(r.rocks, shape)
	}
	return r
}

// Draw renders walls and rocks.
func (r *TerrainRenderer) Draw(cam *camera.Camera) {
	for i := range r.rocks {
		r.drawRock(cam, &r.rocks[i])
	}

	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(r.worldW, r.worldH)
	thick := maxf(cam.WorldLength(0.4), 3)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: x0 - thick, Y: y0 - thick, Width: x1 - x0 + 2*thick, Height: y1 - y0 + 2*thick},
		thick,
		rl.Color{R: 70, G: 80, B: 85, A: 255},
	)
}

func (r *TerrainRenderer) drawRock(cam *camera.Camera, s *rockShape) {
	center := screenVec(cam, s.cx, s.cy)
	fill := rl.Color{R: s.shade, G: s.shade + 6, B: s.shade + 12, A: 255}
	edge := rl.Color{R: s.shade + 30, G: s.shade + 36, B: s.shade + 40, A: 255}

	prev := screenVec(cam, s.outline[rockSegments-1].X, s.outline[rockSegments-1].Y)
	for k := 0; k < rockSegments; k++ {
		cur := screenVec(cam, s.outline[k].X, s.outline[k].Y)
		fillTriangle(center, prev, cur, fill)
		rl.DrawLineEx(prev, cur, 2, edge)
		prev = cur
	}
}

func screenVec(cam *camera.Camera, x, y float32) rl.Vector2 {
	sx, sy := cam.WorldToScreen(x, y)
	return rl.Vector2{X: sx, Y: sy}
}

// fillTriangle draws a triangle regardless of winding; raylib culls
// clockwise triangles.
func fillTriangle(a, b, c rl.Vector2, color rl.Color) {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross > 0 {
		rl.DrawTriangle(a, c, b, color)
		return
	}
	rl.DrawTriangle(a, b, c, color)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampf(v, lo, hi float32) float32 {
	return minf(maxf(v, lo), hi)
}
