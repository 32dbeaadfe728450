package renderer

import (
	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/systems"
)

// Scene groups the renderers for one tank.
type Scene struct {
	Water     *WaterRenderer
	Terrain   *TerrainRenderer
	Zones     *ZoneRenderer
	Flow      *FlowRenderer
	Organisms *OrganismRenderer
	Effects   *ParticleRenderer

	time float32
}

// NewScene builds the renderers for a tank layout. current may be nil.
func NewScene(seed int64, obstacles *systems.ObstacleField, zones *systems.ZoneIndex, current *systems.CurrentField) *Scene {
	w, h := float32(obstacles.Width()), float32(obstacles.Height())
	return &Scene{
		Water:     NewWaterRenderer(seed, w, h),
		Terrain:   NewTerrainRenderer(seed, obstacles),
		Zones:     NewZoneRenderer(zones),
		Flow:      NewFlowRenderer(seed, current, w, h, 300),
		Organisms: NewOrganismRenderer(),
		Effects:   NewParticleRenderer(seed, 2000),
	}
}

// Update advances animated parts by a frame of dt seconds at simulation
// time now.
func (s *Scene) Update(dt, now float64) {
	s.time += float32(dt)
	s.Flow.Update(dt, now)
	s.Effects.Update(float32(dt))
}

// Draw renders the whole tank back to front.
func (s *Scene) Draw(cam *camera.Camera, sprites []Sprite, zoneOutlines bool) {
	s.Water.Draw(cam, s.time)
	s.Zones.Draw(cam, s.time, zoneOutlines)
	s.Flow.Draw(cam)
	s.Terrain.Draw(cam)
	s.Organisms.Draw(cam, sprites)
	s.Effects.Draw(cam)
}

// Unload releases the particle pool.
func (s *Scene) Unload() {
	s.Effects.particles = nil
}
