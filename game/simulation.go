package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	dt := g.cfg.Physics.DT
	g.perfCollector.StartTick()
	g.env.Advance(dt)

	// 1. Rebuild the spatial index from live organisms
	g.perfCollector.StartPhase(telemetry.PhaseSpatialGrid)
	g.updateSpatialGrid(dt)

	// 2. Apply sensor overlaps reported by the last physics step
	g.perfCollector.StartPhase(telemetry.PhaseSensors)
	g.updateSensors()

	// 3. Refill regenerating food
	g.perfCollector.StartPhase(telemetry.PhaseRegeneration)
	g.updateRegeneration(dt)

	// 4. Decide, steer and bite, one agent at a time
	g.perfCollector.StartPhase(telemetry.PhaseBehavior)
	g.updateAgents()

	// 5. Dirty water and stars
	g.perfCollector.StartPhase(telemetry.PhaseZones)
	g.updateZones(dt)

	// 6. Integrate motion and copy the result back
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.updatePhysics(dt)

	// 7. Remove organisms that died this tick
	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()

	// 8. Keep food populations above their minimums
	g.perfCollector.StartPhase(telemetry.PhasePopulation)
	g.maintainPopulation()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateSpatialGrid rebuilds the spatial index and the live list, and ages
// every organism.
func (g *Game) updateSpatialGrid(dt float64) {
	g.grid.Clear()
	g.live = g.live[:0]

	query := g.orgFilter.Query()
	for query.Next() {
		org, pos := query.Get()
		if !org.Alive {
			continue
		}
		org.Age += dt
		e := query.Entity()
		g.grid.Insert(e, org.Species, pos.Vec())
		g.live = append(g.live, e)
	}
}

// updateSensors feeds the integrator's enter/exit events to the sensors in
// the order they happened, then drops targets that stopped being edible.
func (g *Game) updateSensors() {
	g.events = g.integrator.DrainEvents(g.events[:0])
	g.sensors.Apply(g.events, g.view)

	for _, e := range g.live {
		if s := g.view.Sensor(e); s != nil {
			systems.Retarget(e, s, g.view)
		}
	}
}

// updateRegeneration advances regenerating resources and announces the new
// display tier of food that regrew.
func (g *Game) updateRegeneration(dt float64) {
	for _, r := range g.regen.Update(dt) {
		g.collector.RecordRegrowth()
		species := g.orgMap.Get(r.E).Species
		g.emit(telemetry.NewGrowthEvent(g.tick, r.ID, species, r.Tier))
	}
}

// updateAgents runs sense, decide, steer and bite for every mobile organism.
// A bite's consequences, including a death, land before the next agent
// decides.
func (g *Game) updateAgents() {
	a := &g.agent
	for _, e := range g.live {
		if !g.view.Agent(e, a) {
			// Eaten earlier this tick
			continue
		}
		if g.bodyMap.Get(e).Static {
			continue
		}

		intent := systems.DecideBehavior(a, g.env)
		g.integrator.Apply(e, systems.Steer(a, intent, g.env))

		g.perfCollector.StartPhase(telemetry.PhasePredation)
		if res, attempted := systems.ResolveMouth(a, g.env); attempted {
			g.handleBite(a, res)
		}
		g.perfCollector.StartPhase(telemetry.PhaseBehavior)
	}
}

// handleBite records a bite attempt and applies the consequences of a
// successful one: notifications, growth, contagion and death.
func (g *Game) handleBite(a *systems.Agent, res systems.BiteResult) {
	switch res.Outcome {
	case systems.BiteCooldownActive, systems.BiteMissingSensor:
		return
	}

	g.collector.RecordBiteAttempt()
	if g.lifetimeTracker != nil {
		g.lifetimeTracker.RecordBiteAttempt(a.Org.ID)
	}
	if !res.OK() {
		return
	}

	victim := g.view.Organism(res.Target)
	if victim == nil {
		return
	}
	if pos, ok := g.Position(res.Target); ok {
		g.effect(renderer.EffectBite, pos, 1)
	}
	g.collector.RecordBiteHit(victim.Species)
	if g.lifetimeTracker != nil {
		g.lifetimeTracker.RecordBiteHit(a.Org.ID, victim.ID)
	}
	g.emit(telemetry.NewBiteEvent(g.tick, a.Org.ID, a.Org.Species, victim.ID))
	g.emit(telemetry.NewConsumedEvent(g.tick, victim.ID, victim.Species, res.Remaining))

	if res.Grew {
		g.integrator.SetScale(a.E, a.Growth.Scale())
		g.recordTierChange(a.E, a.Org, res.Tier, true)
	}

	targetRes := g.view.Resource(res.Target)
	if victim.Species.IsFood() {
		if growth := g.view.Growth(res.Target); growth != nil && targetRes != nil {
			before := growth.Tier
			if tier := growth.ApplyTier(targetRes.VisualTier()); tier != before {
				g.emit(telemetry.NewGrowthEvent(g.tick, victim.ID, victim.Species, tier))
			}
		}
	}

	if victim.Species.IsPlankton() {
		if pos, _, ok := g.view.Kinematics(res.Target); ok {
			systems.BroadcastFlee(g.env, res.Target, victim.Species, pos)
		}
	}

	if res.Remaining <= 0 && (targetRes == nil || !targetRes.Regenerates()) {
		g.kill(res.Target)
	}
}

// recordTierChange counts and announces a fish growing or shrinking.
func (g *Game) recordTierChange(e ecs.Entity, org *components.Organism, tier int, grew bool) {
	g.collector.RecordTierChange(grew)
	if g.lifetimeTracker != nil {
		g.lifetimeTracker.RecordTier(org.ID, tier, grew)
	}
	g.emit(telemetry.NewGrowthEvent(g.tick, org.ID, org.Species, tier))

	kind := renderer.EffectShrink
	if grew {
		kind = renderer.EffectGrow
	}
	if pos, ok := g.Position(e); ok {
		g.effect(kind, pos, g.bodyMap.Get(e).Radius*g.growthMap.Get(e).Scale())
	}
}

// updateZones applies dirty-water exposure and star pickup to the player.
func (g *Game) updateZones(dt float64) {
	e := g.Player()
	if e.IsZero() {
		return
	}
	org := g.orgMap.Get(e)
	pos := g.posMap.Get(e).Vec()
	pc := g.cfg.Player

	ex := g.exposureMap.Get(e)
	if systems.UpdateExposure(ex, g.zones.InDirtyWater(pos), dt, pc.DirtyWaterTime, pc.ShrinkCooldown) {
		growth := g.growthMap.Get(e)
		if growth.Shrink() {
			g.integrator.SetScale(e, growth.Scale())
			g.recordTierChange(e, org, growth.Tier, false)
		}
	}

	score := g.scoreMap.Get(e)
	for _, star := range g.zones.CollectStars(pos, pc.StarRadius) {
		g.stars += star.Value
		score.Stars = g.stars
		score.Points += star.Value
		if g.lifetimeTracker != nil {
			g.lifetimeTracker.RecordStar(org.ID, star.Value)
		}
		g.emit(telemetry.NewStarEvent(g.tick, org.ID, star.Value))
		g.effect(renderer.EffectStar, star.Pos, 1)
	}
}

// updatePhysics steps the integrator and copies body state into the
// position, velocity and rotation components.
func (g *Game) updatePhysics(dt float64) {
	g.integrator.Step(dt)

	query := g.orgFilter.Query()
	for query.Next() {
		org, pos := query.Get()
		if !org.Alive {
			continue
		}
		e := query.Entity()
		st, ok := g.integrator.State(e)
		if !ok {
			continue
		}
		pos.Set(st.Pos)
		g.velMap.Get(e).Set(st.Vel)
		rot := g.rotMap.Get(e)
		rot.Heading = st.Heading
		rot.AngVel = st.AngVel
	}
}

// emit counts a notification and hands it to the bus. Publishing never
// blocks the tick.
func (g *Game) emit(ev telemetry.Event) {
	g.collector.Record(ev)
	g.bus.Publish(ev)
}
