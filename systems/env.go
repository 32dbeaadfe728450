package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

// RNG is the randomness source the systems draw from.
type RNG interface {
	Float64() float64
}

// Organisms is the live-organism table handles are resolved against.
// Lookups for dead or removed entities report not found, so a stale handle
// can never reach a despawned organism.
type Organisms interface {
	Kinematics
	Species(e ecs.Entity) (components.Species, bool)
	Tier(e ecs.Entity) int
	Resource(e ecs.Entity) *components.ConsumableResource
	Behavior(e ecs.Entity) *components.Behavior
	Sensor(e ecs.Entity) *components.ProximitySensor
}

// Env is the per-tick view every decision reads from.
type Env struct {
	Now float64
	DT  float64

	World     Organisms
	Grid      *SpatialGrid
	Flock     *FlockRegistry
	Obstacles Raycaster
	Current   *CurrentField // nil disables drift
	Params    *Params
	RNG       RNG
	Log       *slog.Logger

	mates []FlockMate
}

// NewEnv creates an environment with preallocated scratch buffers.
func NewEnv(world Organisms, grid *SpatialGrid, flock *FlockRegistry, obstacles Raycaster, params *Params, rng RNG) *Env {
	return &Env{
		World:     world,
		Grid:      grid,
		Flock:     flock,
		Obstacles: obstacles,
		Params:    params,
		RNG:       rng,
		Log:       slog.Default(),
		mates:     make([]FlockMate, 0, MaxQueryResults),
	}
}

// Advance moves the clock forward one step.
func (env *Env) Advance(dt float64) {
	env.DT = dt
	env.Now += dt
}

// Agent bundles the components one organism is decided with. Optional
// capabilities are nil when the organism lacks them.
type Agent struct {
	E        ecs.Entity
	Org      *components.Organism
	Pos      r2.Vec
	Vel      r2.Vec
	Rot      components.Rotation
	Behavior *components.Behavior
	Wander   *components.Wander
	Steering *components.Steering

	Growth *components.GrowthProfile
	Sensor *components.ProximitySensor
	Bite   *components.BiteClock
	Intent *components.PlayerIntent
}

// Tier returns the agent's growth tier, 1 without a profile.
func (a *Agent) Tier() int {
	if a.Growth == nil {
		return 1
	}
	return a.Growth.Tier
}

// Edible reports whether eater may bite cand right now: both alive, cand
// has units left and the pairing is allowed.
func Edible(world Organisms, eater, cand ecs.Entity) bool {
	es, ok := world.Species(eater)
	if !ok {
		return false
	}
	cs, ok := world.Species(cand)
	if !ok {
		return false
	}
	res := world.Resource(cand)
	if res == nil || res.IsDepleted() {
		return false
	}
	return CanEat(es, world.Tier(eater), cs, world.Tier(cand))
}
