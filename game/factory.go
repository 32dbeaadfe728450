package game

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/physics"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// buildTank creates the static layout: walls, rocks, dirty water, stars and
// the water current.
func (g *Game) buildTank() error {
	w := g.cfg.World
	g.obstacles = systems.NewObstacleField(w.Width, w.Height)
	for i, r := range w.Rocks {
		if err := g.obstacles.AddRock(r2.Vec{X: r.X, Y: r.Y}, r.Radius); err != nil {
			return fmt.Errorf("rock %d: %w", i, err)
		}
	}

	g.zones = systems.NewZoneIndex()
	for i, z := range w.DirtyWater {
		if err := g.zones.AddDirtyWater(r2.Vec{X: z.X, Y: z.Y}, z.Width, z.Height); err != nil {
			return fmt.Errorf("zone %d: %w", i, err)
		}
	}
	for i, s := range w.Stars {
		if _, err := g.zones.AddStar(r2.Vec{X: s.X, Y: s.Y}, s.Value); err != nil {
			return fmt.Errorf("star %d: %w", i, err)
		}
	}

	if c := g.cfg.Current; c.Enabled {
		g.current = systems.NewCurrentField(g.seed, c.Scale, c.Strength, c.Speed)
	}
	return nil
}

// bodyFor returns the physical body of a species.
func (g *Game) bodyFor(species components.Species) components.Body {
	cfg := g.cfg
	maxSpeed, maxTurn := g.params.Limits(species)
	body := components.Body{MaxSpeed: maxSpeed, MaxTurnRate: maxTurn}

	switch {
	case species.IsPlankton():
		body.Radius = cfg.Plankton.Radius
	case species == components.SpeciesAlgae:
		body.Radius = cfg.Algae.Radius
		body.Static = true
	case species == components.SpeciesPrey:
		body.Radius = cfg.VegFish.Radius
	case species == components.SpeciesPredator:
		body.Radius = cfg.MeatFish.Radius
	case species == components.SpeciesPlayer:
		body.Radius = cfg.Player.Radius
		body.Driven = true
	}
	if species.IsFish() {
		body.MouthRadius = cfg.Bite.MouthRadius
		body.MouthOffset = cfg.Bite.MouthOffset
	}
	return body
}

// resourceFor returns the edible units an organism starts with.
func (g *Game) resourceFor(species components.Species) components.ConsumableResource {
	cfg := g.cfg
	switch species {
	case components.SpeciesAlgae:
		return components.NewConsumableResource(cfg.Algae.Units, cfg.Algae.RegenTime, cfg.Algae.RegenInterval)
	case components.SpeciesPlanktonBlue, components.SpeciesPlanktonPurple:
		return components.NewConsumableResource(cfg.Plankton.Units, 0, 0)
	case components.SpeciesPredator:
		return components.NewConsumableResource(cfg.MeatFish.Units, 0, 0)
	}
	// Prey and the player are eaten like a veg fish
	return components.NewConsumableResource(cfg.VegFish.Units, 0, 0)
}

// growthFor returns the starting growth profile of a species. Food items use
// their remaining units as the display tier.
func (g *Game) growthFor(species components.Species, res components.ConsumableResource) components.GrowthProfile {
	cfg := g.cfg
	base := cfg.Growth.BaseScale
	switch species {
	case components.SpeciesPrey:
		return components.NewGrowthProfile(base, cfg.Growth.MaxTier, cfg.VegFish.StartTier)
	case components.SpeciesPredator:
		return components.NewGrowthProfile(base, cfg.Growth.MaxTier, cfg.MeatFish.StartTier)
	case components.SpeciesPlayer:
		return components.NewGrowthProfile(base, cfg.Growth.MaxTier, cfg.Player.StartTier)
	}
	return components.NewGrowthProfile(base, res.Total, res.VisualTier())
}

// spawnOrganism creates an organism with the components its species needs,
// registers it with the integrator and indexes, and announces it.
func (g *Game) spawnOrganism(species components.Species, pos r2.Vec, heading float64) ecs.Entity {
	id := g.nextID
	g.nextID++

	org := components.Organism{ID: id, Species: species, Alive: true}
	e := g.orgMap.NewEntity(&org)

	body := g.bodyFor(species)
	res := g.resourceFor(species)
	growth := g.growthFor(species, res)

	g.posMap.Add(e, &components.Position{X: pos.X, Y: pos.Y})
	g.velMap.Add(e, &components.Velocity{})
	g.rotMap.Add(e, &components.Rotation{Heading: heading})
	g.bodyMap.Add(e, &body)
	g.growthMap.Add(e, &growth)
	g.resourceMap.Add(e, &res)

	behavior := components.Behavior{State: components.StateIdle}
	switch {
	case species.IsPlankton():
		behavior.State = components.StateGathering
	case species == components.SpeciesPlayer:
		behavior.State = components.StateDriven
	case species.IsFish():
		behavior.State = components.StateWander
	}
	g.behaviorMap.Add(e, &behavior)

	if !body.Static {
		g.wanderMap.Add(e, &components.Wander{Heading: heading})
		g.steeringMap.Add(e, &components.Steering{
			LastCheckPos: pos,
			NextCheckAt:  g.env.Now + g.params.Plankton.StuckInterval,
		})
	}
	if species.IsFish() {
		clock := components.NewBiteClock(g.cfg.Bite.Cooldown, g.cfg.Bite.BitesToGrow)
		g.sensorMap.Add(e, &components.ProximitySensor{})
		g.biteMap.Add(e, &clock)
	}
	if species == components.SpeciesPlayer {
		g.intentMap.Add(e, &components.PlayerIntent{})
		g.exposureMap.Add(e, &components.Exposure{})
		g.scoreMap.Add(e, &components.Score{Stars: g.stars})
		g.player = e
		g.playerID = id
	}

	if grp := species.Group(); grp != components.FlockNone {
		g.flock.Register(e, grp)
	}

	scale := 1.0
	if species.IsFish() {
		scale = growth.Scale()
	}
	g.integrator.Add(e, physics.BodyDef{
		Species: species,
		Body:    body,
		Scale:   scale,
		State:   physics.State{Pos: pos, Heading: heading},
	})
	g.grid.Insert(e, species, pos)
	g.counts[species]++

	if g.lifetimeTracker != nil {
		g.lifetimeTracker.Register(id, species, g.tick, growth.Tier)
	}
	g.emit(telemetry.NewSpawnEvent(g.tick, id, species, growth.Tier))
	return e
}

// randomOpenPoint returns a point inside the tank clear of rocks.
func (g *Game) randomOpenPoint(radius float64) r2.Vec {
	w, h := g.cfg.World.Width, g.cfg.World.Height
	margin := radius + 1
	var p r2.Vec
	for attempt := 0; attempt < 32; attempt++ {
		p = r2.Vec{
			X: margin + g.rng.Float64()*(w-2*margin),
			Y: margin + g.rng.Float64()*(h-2*margin),
		}
		if !g.obstacles.Blocked(p, radius) {
			return p
		}
	}
	return p
}

// spawnRandom places an organism at a random open point with a random heading.
func (g *Game) spawnRandom(species components.Species) ecs.Entity {
	body := g.bodyFor(species)
	return g.spawnOrganism(species, g.randomOpenPoint(body.Radius), g.rng.Float64()*2*math.Pi)
}

// spawnSchool places n plankton of one colour around a shared centre so they
// start as a flock.
func (g *Game) spawnSchool(species components.Species, n int) {
	if n <= 0 {
		return
	}
	spread := g.cfg.Plankton.NeighborRadius * 0.5
	center := g.randomOpenPoint(spread)
	heading := g.rng.Float64() * 2 * math.Pi
	for i := 0; i < n; i++ {
		p := r2.Add(center, r2.Vec{
			X: (g.rng.Float64()*2 - 1) * spread,
			Y: (g.rng.Float64()*2 - 1) * spread,
		})
		if g.obstacles.Blocked(p, g.cfg.Plankton.Radius) {
			p = g.randomOpenPoint(g.cfg.Plankton.Radius)
		}
		g.spawnOrganism(species, p, heading+(g.rng.Float64()-0.5))
	}
}
