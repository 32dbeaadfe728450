package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/camera"
)

// EffectKind selects the look of an effect burst.
type EffectKind uint8

const (
	EffectBite EffectKind = iota
	EffectDeath
	EffectStar
	EffectGrow
	EffectShrink
)

// EffectParticle is one short-lived visual particle in world units.
type EffectParticle struct {
	Kind    EffectKind
	X, Y    float32
	VX, VY  float32
	Size    float32
	Life    float32
	MaxLife float32
}

// ParticleRenderer spawns, advances and draws effect particles.
type ParticleRenderer struct {
	rng       *rand.Rand
	particles []EffectParticle
	max       int
}

// NewParticleRenderer creates a pool holding at most max particles.
func NewParticleRenderer(seed int64, max int) *ParticleRenderer {
	return &ParticleRenderer{
		rng: rand.New(rand.NewSource(seed + 41)),
		max: max,
	}
}

// Len returns the number of live particles.
func (r *ParticleRenderer) Len() int {
	return len(r.particles)
}

// Spawn emits a burst of particles of the given kind at a world position.
// Bursts beyond the pool size are dropped.
func (r *ParticleRenderer) Spawn(kind EffectKind, x, y, scale float32) {
	n, speed, size, life := 6, float32(1.5), float32(0.12), float32(0.5)
	switch kind {
	case EffectDeath:
		n, speed, size, life = 10, 1.0, 0.2, 1.2
	case EffectStar:
		n, speed, size, life = 12, 2.5, 0.15, 0.8
	case EffectGrow, EffectShrink:
		n, speed, size, life = 1, 0, scale, 0.6
	}

	for i := 0; i < n && len(r.particles) < r.max; i++ {
		a := r.rng.Float64() * 2 * math.Pi
		v := speed * (0.5 + r.rng.Float32()*0.5)
		r.particles = append(r.particles, EffectParticle{
			Kind:    kind,
			X:       x,
			Y:       y,
			VX:      float32(math.Cos(a)) * v,
			VY:      float32(math.Sin(a)) * v,
			Size:    size * (0.7 + r.rng.Float32()*0.6),
			Life:    life,
			MaxLife: life,
		})
	}
}

// Update advances particles and drops expired ones.
func (r *ParticleRenderer) Update(dt float32) {
	live := r.particles[:0]
	for _, p := range r.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		// Bubbles rise
		if p.Kind == EffectBite {
			p.VY -= 2 * dt
		}
		live = append(live, p)
	}
	r.particles = live
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw(cam *camera.Camera) {
	for i := range r.particles {
		p := &r.particles[i]
		if !cam.IsVisible(p.X, p.Y, p.Size*4) {
			continue
		}
		lifeRatio := p.Life / p.MaxLife
		sx, sy := cam.WorldToScreen(p.X, p.Y)

		switch p.Kind {
		case EffectBite:
			rl.DrawCircleLines(int32(sx), int32(sy), maxf(cam.WorldLength(p.Size), 1.5),
				rl.Color{R: 200, G: 235, B: 255, A: uint8(lifeRatio * 200)})
		case EffectDeath:
			rl.DrawCircle(int32(sx), int32(sy), maxf(cam.WorldLength(p.Size*lifeRatio), 1),
				rl.Color{R: 110, G: 90, B: 70, A: uint8(lifeRatio * 160)})
		case EffectStar:
			rl.DrawCircle(int32(sx), int32(sy), maxf(cam.WorldLength(p.Size*lifeRatio), 1),
				rl.Color{R: 255, G: 220, B: 90, A: uint8(lifeRatio * 230)})
		case EffectGrow, EffectShrink:
			// Expanding ring around the organism
			c := rl.Color{R: 130, G: 240, B: 140, A: uint8(lifeRatio * 200)}
			if p.Kind == EffectShrink {
				c = rl.Color{R: 240, G: 120, B: 90, A: uint8(lifeRatio * 200)}
			}
			rl.DrawCircleLines(int32(sx), int32(sy), cam.WorldLength(p.Size*(2-lifeRatio)), c)
		}
	}
}
