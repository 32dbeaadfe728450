package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// WorldView resolves entity handles against the ECS world. It is the
// Organisms implementation the simulation runs on.
type WorldView struct {
	world *ecs.World

	orgMap      *ecs.Map[components.Organism]
	posMap      *ecs.Map[components.Position]
	velMap      *ecs.Map[components.Velocity]
	rotMap      *ecs.Map[components.Rotation]
	behaviorMap *ecs.Map[components.Behavior]
	wanderMap   *ecs.Map[components.Wander]
	steeringMap *ecs.Map[components.Steering]
	growthMap   *ecs.Map[components.GrowthProfile]
	resourceMap *ecs.Map[components.ConsumableResource]
	sensorMap   *ecs.Map[components.ProximitySensor]
	biteMap     *ecs.Map[components.BiteClock]
	intentMap   *ecs.Map[components.PlayerIntent]
}

// NewWorldView creates component accessors for w.
func NewWorldView(w *ecs.World) *WorldView {
	return &WorldView{
		world:       w,
		orgMap:      ecs.NewMap[components.Organism](w),
		posMap:      ecs.NewMap[components.Position](w),
		velMap:      ecs.NewMap[components.Velocity](w),
		rotMap:      ecs.NewMap[components.Rotation](w),
		behaviorMap: ecs.NewMap[components.Behavior](w),
		wanderMap:   ecs.NewMap[components.Wander](w),
		steeringMap: ecs.NewMap[components.Steering](w),
		growthMap:   ecs.NewMap[components.GrowthProfile](w),
		resourceMap: ecs.NewMap[components.ConsumableResource](w),
		sensorMap:   ecs.NewMap[components.ProximitySensor](w),
		biteMap:     ecs.NewMap[components.BiteClock](w),
		intentMap:   ecs.NewMap[components.PlayerIntent](w),
	}
}

// live returns the organism record if e exists and is alive.
func (v *WorldView) live(e ecs.Entity) *components.Organism {
	if e.IsZero() || !v.world.Alive(e) || !v.orgMap.Has(e) {
		return nil
	}
	org := v.orgMap.Get(e)
	if !org.Alive {
		return nil
	}
	return org
}

// Organism returns the core record of an existing entity, alive or not.
func (v *WorldView) Organism(e ecs.Entity) *components.Organism {
	if e.IsZero() || !v.world.Alive(e) || !v.orgMap.Has(e) {
		return nil
	}
	return v.orgMap.Get(e)
}

// Kinematics implements Organisms.
func (v *WorldView) Kinematics(e ecs.Entity) (pos, vel r2.Vec, ok bool) {
	if v.live(e) == nil || !v.posMap.Has(e) {
		return r2.Vec{}, r2.Vec{}, false
	}
	pos = v.posMap.Get(e).Vec()
	if v.velMap.Has(e) {
		vel = v.velMap.Get(e).Vec()
	}
	return pos, vel, true
}

// Species implements Organisms.
func (v *WorldView) Species(e ecs.Entity) (components.Species, bool) {
	org := v.live(e)
	if org == nil {
		return 0, false
	}
	return org.Species, true
}

// Tier implements Organisms. Organisms without a growth profile are tier 1.
func (v *WorldView) Tier(e ecs.Entity) int {
	if v.live(e) == nil {
		return 0
	}
	if !v.growthMap.Has(e) {
		return 1
	}
	return v.growthMap.Get(e).Tier
}

// Resource implements Organisms.
func (v *WorldView) Resource(e ecs.Entity) *components.ConsumableResource {
	if v.live(e) == nil || !v.resourceMap.Has(e) {
		return nil
	}
	return v.resourceMap.Get(e)
}

// Behavior implements Organisms.
func (v *WorldView) Behavior(e ecs.Entity) *components.Behavior {
	if v.live(e) == nil || !v.behaviorMap.Has(e) {
		return nil
	}
	return v.behaviorMap.Get(e)
}

// Sensor implements Organisms.
func (v *WorldView) Sensor(e ecs.Entity) *components.ProximitySensor {
	if v.live(e) == nil || !v.sensorMap.Has(e) {
		return nil
	}
	return v.sensorMap.Get(e)
}

// OwnSensor returns e's sensor even after it died, for cleanup.
func (v *WorldView) OwnSensor(e ecs.Entity) *components.ProximitySensor {
	if e.IsZero() || !v.world.Alive(e) || !v.sensorMap.Has(e) {
		return nil
	}
	return v.sensorMap.Get(e)
}

// Growth returns e's growth profile, or nil.
func (v *WorldView) Growth(e ecs.Entity) *components.GrowthProfile {
	if v.live(e) == nil || !v.growthMap.Has(e) {
		return nil
	}
	return v.growthMap.Get(e)
}

// Agent fills a with the components of a live organism. Returns false if e
// is dead or lacks the locomotion components.
func (v *WorldView) Agent(e ecs.Entity, a *Agent) bool {
	org := v.live(e)
	if org == nil || !v.posMap.Has(e) || !v.behaviorMap.Has(e) {
		return false
	}
	*a = Agent{
		E:        e,
		Org:      org,
		Pos:      v.posMap.Get(e).Vec(),
		Behavior: v.behaviorMap.Get(e),
	}
	if v.velMap.Has(e) {
		a.Vel = v.velMap.Get(e).Vec()
	}
	if v.rotMap.Has(e) {
		a.Rot = *v.rotMap.Get(e)
	}
	if v.wanderMap.Has(e) {
		a.Wander = v.wanderMap.Get(e)
	}
	if v.steeringMap.Has(e) {
		a.Steering = v.steeringMap.Get(e)
	}
	if v.growthMap.Has(e) {
		a.Growth = v.growthMap.Get(e)
	}
	if v.sensorMap.Has(e) {
		a.Sensor = v.sensorMap.Get(e)
	}
	if v.biteMap.Has(e) {
		a.Bite = v.biteMap.Get(e)
	}
	if v.intentMap.Has(e) {
		a.Intent = v.intentMap.Get(e)
	}
	return true
}
