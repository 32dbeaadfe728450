// Package renderer draws the tank with plain raylib primitives.
package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/systems"
)

const flowTrailLen = 6

// flowMote is a speck of suspended matter carried by the current.
type flowMote struct {
	x, y     float32
	trailX   [flowTrailLen]float32
	trailY   [flowTrailLen]float32
	trailLen uint8
	life     float32
	maxLife  float32
	opacity  float32
}

// FlowRenderer shows the water current as drifting motes with trails.
type FlowRenderer struct {
	current *systems.CurrentField
	rng     *rand.Rand
	motes   []flowMote
	worldW  float32
	worldH  float32

	// Drift is world units per second per unit of current force.
	Drift float32
}

// NewFlowRenderer creates count motes spread over the tank. A nil current
// renders nothing.
func NewFlowRenderer(seed int64, current *systems.CurrentField, worldW, worldH float32, count int) *FlowRenderer {
	r := &FlowRenderer{
		current: current,
		rng:     rand.New(rand.NewSource(seed + 29)),
		worldW:  worldW,
		worldH:  worldH,
		Drift:   3,
	}
	if current == nil {
		return r
	}
	r.motes = make([]flowMote, count)
	for i := range r.motes {
		r.respawn(&r.motes[i])
		// Stagger lifetimes so motes don't fade in together
		r.motes[i].life = r.rng.Float32() * r.motes[i].maxLife
	}
	return r
}

func (r *FlowRenderer) respawn(m *flowMote) {
	*m = flowMote{
		x:       r.rng.Float32() * r.worldW,
		y:       r.rng.Float32() * r.worldH,
		maxLife: 4 + r.rng.Float32()*6,
		opacity: 0.4 + r.rng.Float32()*0.6,
	}
	m.life = m.maxLife
}

// Update advects the motes through the current at simulation time now.
func (r *FlowRenderer) Update(dt, now float64) {
	for i := range r.motes {
		m := &r.motes[i]
		m.life -= float32(dt)
		if m.life <= 0 || m.x < 0 || m.y < 0 || m.x > r.worldW || m.y > r.worldH {
			r.respawn(m)
			continue
		}

		copy(m.trailX[1:], m.trailX[:flowTrailLen-1])
		copy(m.trailY[1:], m.trailY[:flowTrailLen-1])
		m.trailX[0], m.trailY[0] = m.x, m.y
		if m.trailLen < flowTrailLen {
			m.trailLen++
		}

		f := r.current.Force(r2.Vec{X: float64(m.x), Y: float64(m.y)}, now)
		m.x += float32(f.X) * r.Drift * float32(dt)
		m.y += float32(f.Y) * r.Drift * float32(dt)
	}
}

// Draw renders mote trails with additive blending.
func (r *FlowRenderer) Draw(cam *camera.Camera) {
	if len(r.motes) == 0 {
		return
	}
	width := maxf(cam.WorldLength(0.05), 1)

	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range r.motes {
		m := &r.motes[i]
		if m.trailLen < 1 || !cam.IsVisible(m.x, m.y, 1) {
			continue
		}

		lifeRatio := m.life / m.maxLife
		fadeIn := float32(math.Min(float64(1-lifeRatio)*5, 1))
		fadeOut := float32(math.Min(float64(lifeRatio)*3, 1))
		baseAlpha := m.opacity * fadeIn * fadeOut * 110
		if baseAlpha < 2 {
			continue
		}

		prev := screenVec(cam, m.x, m.y)
		for j := uint8(0); j < m.trailLen; j++ {
			fade := 1 - float32(j)/float32(m.trailLen)
			fade *= fade
			cur := screenVec(cam, m.trailX[j], m.trailY[j])
			rl.DrawLineEx(prev, cur, width*fade+0.5, rl.Color{R: 70, G: 140, B: 170, A: uint8(baseAlpha * fade)})
			prev = cur
		}
	}
	rl.EndBlendMode()
}

// DrawArrows renders a grid of current direction arrows, used by the
// current overlay.
func (r *FlowRenderer) DrawArrows(cam *camera.Camera, now float64, spacing float32) {
	if r.current == nil {
		return
	}
	color := rl.Color{R: 120, G: 200, B: 230, A: 160}
	for y := spacing / 2; y < r.worldH; y += spacing {
		for x := spacing / 2; x < r.worldW; x += spacing {
			if !cam.IsVisible(x, y, spacing) {
				continue
			}
			f := r.current.Force(r2.Vec{X: float64(x), Y: float64(y)}, now)
			tip := r2.Add(r2.Vec{X: float64(x), Y: float64(y)}, r2.Scale(float64(spacing)*0.8, f))
			from := screenVec(cam, x, y)
			to := screenVec(cam, float32(tip.X), float32(tip.Y))
			rl.DrawLineEx(from, to, 1.5, color)
			rl.DrawCircleV(to, 2, color)
		}
	}
}
