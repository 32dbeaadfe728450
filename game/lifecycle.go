package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/telemetry"
)

// spawnInitialPopulation creates the starting organisms. The player comes
// first so it always gets the lowest id.
func (g *Game) spawnInitialPopulation() {
	pop := g.cfg.Population

	if pop.Player {
		g.spawnRandom(components.SpeciesPlayer)
	}
	for i := 0; i < pop.Algae; i++ {
		g.spawnRandom(components.SpeciesAlgae)
	}
	g.spawnSchool(components.SpeciesPlanktonBlue, pop.PlanktonBlue)
	g.spawnSchool(components.SpeciesPlanktonPurple, pop.PlanktonPurple)
	for i := 0; i < pop.Prey; i++ {
		g.spawnRandom(components.SpeciesPrey)
	}
	for i := 0; i < pop.Predators; i++ {
		g.spawnRandom(components.SpeciesPredator)
	}
	g.nextRespawnAt = pop.RespawnInterval
}

// kill marks an organism dead and scrubs it from every index other agents
// read this tick. The entity itself is removed in cleanupDead.
func (g *Game) kill(e ecs.Entity) {
	org := g.view.Organism(e)
	if org == nil || !org.Alive {
		return
	}
	if pos, ok := g.Position(e); ok {
		g.effect(renderer.EffectDeath, pos, 1)
	}
	org.Alive = false

	g.flock.Remove(e)
	g.sensors.Release(e, g.view.OwnSensor(e), g.view)
	g.grid.MarkDead(e)
	// The body goes now so this tick's physics step cannot report it
	g.integrator.Remove(e)
	g.counts[org.Species]--
	g.dead = append(g.dead, e)

	g.emit(telemetry.NewDeathEvent(g.tick, org.ID, org.Species))
	if e == g.selected {
		g.selected = ecs.Entity{}
	}
}

// cleanupDead removes dead organisms from the world.
func (g *Game) cleanupDead() {
	if len(g.dead) == 0 {
		return
	}
	dt := g.cfg.Physics.DT
	for _, e := range g.dead {
		org := g.orgMap.Get(e)
		if g.lifetimeTracker != nil {
			if stats := g.lifetimeTracker.Remove(org.ID, g.tick, dt); stats != nil && g.outputManager != nil {
				if err := g.outputManager.WriteLifetime(stats); err != nil {
					slog.Error("failed to write lifetime", "error", err)
				}
			}
		}
		g.world.RemoveEntity(e)
	}
	g.dead = g.dead[:0]
}

// maintainPopulation respawns plankton, algae and the player once per
// respawn interval when they fall below their minimums.
func (g *Game) maintainPopulation() {
	pop := g.cfg.Population
	if pop.RespawnInterval <= 0 || g.env.Now < g.nextRespawnAt {
		return
	}
	g.nextRespawnAt = g.env.Now + pop.RespawnInterval

	for _, s := range []components.Species{components.SpeciesPlanktonBlue, components.SpeciesPlanktonPurple} {
		if missing := pop.MinPlankton - g.counts[s]; missing > 0 {
			g.spawnSchool(s, missing)
		}
	}
	for g.counts[components.SpeciesAlgae] < pop.MinAlgae {
		g.spawnRandom(components.SpeciesAlgae)
	}
	if pop.Player && g.Player().IsZero() {
		e := g.spawnRandom(components.SpeciesPlayer)
		slog.Info("player_respawned", "id", g.orgMap.Get(e).ID, "stars", g.stars)
	}
}
