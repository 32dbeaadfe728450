package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func init() {
	config.MustInit("")
}

// constRNG always returns the same draw.
type constRNG float64

func (c constRNG) Float64() float64 { return float64(c) }

// testWorld is a small ECS world with the indexes a tick needs.
type testWorld struct {
	w      *ecs.World
	view   *WorldView
	grid   *SpatialGrid
	flock  *FlockRegistry
	index  *SensorIndex
	env    *Env
	nextID uint32
}

func newTestWorld() *testWorld {
	w := ecs.NewWorld()
	cfg := config.Cfg()
	tw := &testWorld{
		w:     w,
		view:  NewWorldView(w),
		grid:  NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.World.CellSize),
		flock: NewFlockRegistry(),
		index: NewSensorIndex(),
	}
	tw.env = NewEnv(tw.view, tw.grid, tw.flock, nil, NewParams(cfg), rand.New(rand.NewSource(1)))
	tw.env.DT = cfg.Physics.DT
	return tw
}

func addComp[T any](w *ecs.World, e ecs.Entity, c T) {
	ecs.NewMap[T](w).Add(e, &c)
}

// spawn creates an organism with the components its species needs.
// units 0 leaves it without a resource.
func (tw *testWorld) spawn(species components.Species, pos r2.Vec, tier, units int) ecs.Entity {
	tw.nextID++
	e := ecs.NewMap[components.Organism](tw.w).NewEntity(&components.Organism{
		ID: tw.nextID, Species: species, Alive: true,
	})
	addComp(tw.w, e, components.Position{X: pos.X, Y: pos.Y})
	addComp(tw.w, e, components.Velocity{})
	addComp(tw.w, e, components.Rotation{})
	addComp(tw.w, e, components.Behavior{})
	addComp(tw.w, e, components.Wander{})
	addComp(tw.w, e, components.Steering{})
	addComp(tw.w, e, components.NewGrowthProfile(1, 3, tier))
	if units > 0 {
		addComp(tw.w, e, components.NewConsumableResource(units, 0, 0))
	}
	if species.IsFish() {
		addComp(tw.w, e, components.ProximitySensor{})
		addComp(tw.w, e, components.NewBiteClock(0.15, 5))
	}
	if species == components.SpeciesPlayer {
		addComp(tw.w, e, components.PlayerIntent{})
	}
	if g := species.Group(); g != components.FlockNone {
		tw.flock.Register(e, g)
	}
	tw.grid.Insert(e, species, pos)
	return e
}

func (tw *testWorld) agent(e ecs.Entity) *Agent {
	var a Agent
	if !tw.view.Agent(e, &a) {
		return nil
	}
	return &a
}

func (tw *testWorld) enter(owner, cand ecs.Entity) {
	tw.index.Apply([]SensorEvent{{Kind: SensorEnter, Sensor: owner, Candidate: cand}}, tw.view)
}

func near(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}
