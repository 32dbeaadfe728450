package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
)

// Sprite is the draw-time snapshot of one organism.
type Sprite struct {
	Species   components.Species
	X, Y      float32 // world units
	Heading   float32 // radians
	Radius    float32 // world units, growth scale applied
	Units     int
	Total     int
	MouthOpen bool
	Fleeing   bool
	Selected  bool
}

// speciesColor returns the base color of a species.
func speciesColor(s components.Species) rl.Color {
	switch s {
	case components.SpeciesPrey:
		return rl.Color{R: 120, G: 210, B: 140, A: 255}
	case components.SpeciesPredator:
		return rl.Color{R: 225, G: 95, B: 80, A: 255}
	case components.SpeciesPlanktonBlue:
		return rl.Color{R: 90, G: 170, B: 255, A: 255}
	case components.SpeciesPlanktonPurple:
		return rl.Color{R: 185, G: 110, B: 240, A: 255}
	case components.SpeciesAlgae:
		return rl.Color{R: 70, G: 150, B: 70, A: 255}
	case components.SpeciesPlayer:
		return rl.Color{R: 255, G: 200, B: 60, A: 255}
	}
	return rl.White
}

// OrganismRenderer draws organisms by species.
type OrganismRenderer struct{}

// NewOrganismRenderer creates an organism renderer.
func NewOrganismRenderer() *OrganismRenderer {
	return &OrganismRenderer{}
}

// Draw renders the sprites. Food is drawn first so fish swim over it.
func (r *OrganismRenderer) Draw(cam *camera.Camera, sprites []Sprite) {
	for i := range sprites {
		if sprites[i].Species.IsFood() {
			r.drawSprite(cam, &sprites[i])
		}
	}
	for i := range sprites {
		if !sprites[i].Species.IsFood() {
			r.drawSprite(cam, &sprites[i])
		}
	}
}

func (r *OrganismRenderer) drawSprite(cam *camera.Camera, s *Sprite) {
	if !cam.IsVisible(s.X, s.Y, s.Radius*2) {
		return
	}
	switch {
	case s.Species == components.SpeciesAlgae:
		drawAlgae(cam, s)
	case s.Species.IsPlankton():
		drawPlankton(cam, s)
	default:
		drawFish(cam, s)
	}
	if s.Selected {
		sx, sy := cam.WorldToScreen(s.X, s.Y)
		rl.DrawCircleLines(int32(sx), int32(sy), cam.WorldLength(s.Radius*1.8)+3, rl.White)
	}
}

// drawAlgae draws a clump whose blade count follows the remaining units.
func drawAlgae(cam *camera.Camera, s *Sprite) {
	c := speciesColor(s.Species)
	if s.Units == 0 {
		c.A = 90
	}
	sx, sy := cam.WorldToScreen(s.X, s.Y)
	rl.DrawCircle(int32(sx), int32(sy), cam.WorldLength(s.Radius*0.5), c)

	blades := s.Units*2 + 1
	for i := 0; i < blades; i++ {
		a := float64(i)/float64(blades)*2*math.Pi + float64(s.X)
		tipX := s.X + float32(math.Cos(a))*s.Radius
		tipY := s.Y + float32(math.Sin(a))*s.Radius
		rl.DrawLineEx(rl.Vector2{X: sx, Y: sy}, screenVec(cam, tipX, tipY), maxf(cam.WorldLength(0.15), 1.5), c)
	}
}

func drawPlankton(cam *camera.Camera, s *Sprite) {
	c := speciesColor(s.Species)
	sx, sy := cam.WorldToScreen(s.X, s.Y)
	rad := maxf(cam.WorldLength(s.Radius), 2)
	if s.Fleeing {
		glow := c
		glow.A = 70
		rl.DrawCircle(int32(sx), int32(sy), rad*2, glow)
	}
	rl.DrawCircle(int32(sx), int32(sy), rad, c)
}

// drawFish draws a body, a tail and an eye oriented along the heading. An
// open mouth is drawn as a dark wedge.
func drawFish(cam *camera.Camera, s *Sprite) {
	c := speciesColor(s.Species)
	fx, fy := float32(math.Cos(float64(s.Heading))), float32(math.Sin(float64(s.Heading)))
	rad := s.Radius

	body := screenVec(cam, s.X, s.Y)
	tailBase := screenVec(cam, s.X-fx*rad*0.8, s.Y-fy*rad*0.8)
	tailA := screenVec(cam, s.X-fx*rad*1.6-fy*rad*0.6, s.Y-fy*rad*1.6+fx*rad*0.6)
	tailB := screenVec(cam, s.X-fx*rad*1.6+fy*rad*0.6, s.Y-fy*rad*1.6-fx*rad*0.6)

	tail := c
	tail.R = uint8(float32(tail.R) * 0.8)
	tail.G = uint8(float32(tail.G) * 0.8)
	tail.B = uint8(float32(tail.B) * 0.8)
	fillTriangle(tailBase, tailA, tailB, tail)
	rl.DrawCircleV(body, cam.WorldLength(rad), c)

	if s.MouthOpen {
		mouth := screenVec(cam, s.X+fx*rad*0.8, s.Y+fy*rad*0.8)
		left := screenVec(cam, s.X+fx*rad*0.4-fy*rad*0.35, s.Y+fy*rad*0.4+fx*rad*0.35)
		right := screenVec(cam, s.X+fx*rad*0.4+fy*rad*0.35, s.Y+fy*rad*0.4-fx*rad*0.35)
		fillTriangle(mouth, left, right, rl.Color{R: 20, G: 20, B: 30, A: 255})
	}

	eye := screenVec(cam, s.X+fx*rad*0.45-fy*rad*0.35, s.Y+fy*rad*0.45+fx*rad*0.35)
	rl.DrawCircleV(eye, maxf(cam.WorldLength(rad*0.15), 1), rl.Black)

	if s.Species == components.SpeciesPlayer {
		rl.DrawCircleLines(int32(body.X), int32(body.Y), cam.WorldLength(rad)+2, rl.Color{R: 255, G: 255, B: 255, A: 120})
	}
}
