package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

func TestPredatorHuntsAndBitesSmallerFish(t *testing.T) {
	tw := newTestWorld()
	tw.env.RNG = constRNG(0.1) // below the 0.3 eat chance
	pred := tw.spawn(components.SpeciesPredator, r2.Vec{X: 10, Y: 10}, 2, 4)
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 11, Y: 10}, 1, 3)

	a := tw.agent(pred)
	DecideBehavior(a, tw.env)
	if a.Behavior.State != components.StateHunt || a.Behavior.Target != prey {
		t.Fatalf("state = %v target = %v, want hunt on %v", a.Behavior.State, a.Behavior.Target, prey)
	}

	tw.enter(pred, prey)
	res, attempted := ResolveMouth(a, tw.env)
	if !attempted || !res.OK() {
		t.Fatalf("bite attempted=%v outcome=%v, want ok", attempted, res.Outcome)
	}
	if got := tw.view.Resource(prey).Units; got != 2 {
		t.Errorf("prey units = %d, want 2", got)
	}
	if a.Bite.Bites != 1 {
		t.Errorf("predator bites = %d, want 1", a.Bite.Bites)
	}
	if !a.Bite.MouthOpen || !a.Behavior.Eating {
		t.Errorf("mouth open=%v eating=%v, want both set", a.Bite.MouthOpen, a.Behavior.Eating)
	}

	// Mouth stays open until the close delay; no second bite meanwhile
	tw.env.Advance(0.2)
	if _, attempted := ResolveMouth(a, tw.env); attempted {
		t.Error("bit again while the mouth was still open")
	}
	if got := tw.view.Resource(prey).Units; got != 2 {
		t.Errorf("prey units after open-mouth tick = %d, want 2", got)
	}
}

func TestPredatorIgnoresSameTier(t *testing.T) {
	tw := newTestWorld()
	tw.env.RNG = constRNG(0)
	pred := tw.spawn(components.SpeciesPredator, r2.Vec{X: 10, Y: 10}, 2, 4)
	tw.spawn(components.SpeciesPrey, r2.Vec{X: 11, Y: 10}, 2, 3)

	a := tw.agent(pred)
	DecideBehavior(a, tw.env)
	if a.Behavior.State != components.StateWander {
		t.Errorf("state = %v, want wander", a.Behavior.State)
	}
}

func TestPredatorRollsOncePerCandidate(t *testing.T) {
	tw := newTestWorld()
	tw.env.RNG = constRNG(0.9) // above the eat chance
	pred := tw.spawn(components.SpeciesPredator, r2.Vec{X: 10, Y: 10}, 2, 4)
	tw.spawn(components.SpeciesPrey, r2.Vec{X: 12, Y: 10}, 1, 3)

	a := tw.agent(pred)
	DecideBehavior(a, tw.env)

	// A lucky draw later does not re-roll the same candidate
	tw.env.RNG = constRNG(0)
	tw.env.Advance(tw.env.DT)
	DecideBehavior(a, tw.env)
	if a.Behavior.State == components.StateHunt {
		t.Error("predator re-rolled a candidate it already declined")
	}
}

func TestPreyFeedsOnNearestFood(t *testing.T) {
	tw := newTestWorld()
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	far := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 15, Y: 10}, 1, 3)
	nearest := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 10, Y: 13}, 1, 3)
	tw.spawn(components.SpeciesAlgae, r2.Vec{X: 30, Y: 30}, 1, 3) // outside sense radius

	a := tw.agent(prey)
	in := DecideBehavior(a, tw.env)
	if a.Behavior.State != components.StateFeed || a.Behavior.Target != nearest {
		t.Fatalf("state = %v target = %v, want feed on %v (not %v)", a.Behavior.State, a.Behavior.Target, nearest, far)
	}
	if in.Source != components.SourceSeek || in.Desired.Y <= 0 {
		t.Errorf("intent = %+v, want seek toward +y", in)
	}
}

func TestPreyIgnoresCloserPlankton(t *testing.T) {
	tw := newTestWorld()
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 11, Y: 10}, 1, 1)
	algae := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 14, Y: 10}, 1, 3)

	a := tw.agent(prey)
	DecideBehavior(a, tw.env)
	if a.Behavior.Target != algae {
		t.Errorf("target = %v, want algae %v", a.Behavior.Target, algae)
	}
}

func TestPreyForcedFeedWandersWithoutFood(t *testing.T) {
	tw := newTestWorld()
	tw.env.Params.Prey.AlwaysFeed = true
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)

	a := tw.agent(prey)
	in := DecideBehavior(a, tw.env)
	if a.Behavior.State != components.StateFeed {
		t.Errorf("state = %v, want feed", a.Behavior.State)
	}
	if in.Source != components.SourceWander || in.SoftStop || r2.Norm(in.Desired) == 0 {
		t.Errorf("intent = %+v, want a moving wander", in)
	}
}

func TestPreyWandersWithoutFood(t *testing.T) {
	tw := newTestWorld()
	prey := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)

	a := tw.agent(prey)
	in := DecideBehavior(a, tw.env)
	if a.Behavior.State != components.StateWander || in.Source != components.SourceWander {
		t.Errorf("state = %v source = %v, want wander", a.Behavior.State, in.Source)
	}
}

func TestPlanktonFleesNearbyFish(t *testing.T) {
	tw := newTestWorld()
	p := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 20, Y: 20}, 1, 1)
	tw.spawn(components.SpeciesPrey, r2.Vec{X: 23, Y: 20}, 1, 3)

	a := tw.agent(p)
	in := DecideBehavior(a, tw.env)
	if a.Behavior.State != components.StateFleeing {
		t.Fatalf("state = %v, want fleeing", a.Behavior.State)
	}
	if in.Desired.X >= 0 {
		t.Errorf("flee velocity = %v, want away from the fish on +x", in.Desired)
	}
}

func TestPlanktonContagion(t *testing.T) {
	tw := newTestWorld()
	at := r2.Vec{X: 40, Y: 25}
	eaten := tw.spawn(components.SpeciesPlanktonBlue, at, 1, 1)
	near1 := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 43, Y: 25}, 1, 1)
	near2 := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 40, Y: 39.9}, 1, 1)
	far := tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 55.5, Y: 25}, 1, 1)
	purple := tw.spawn(components.SpeciesPlanktonPurple, r2.Vec{X: 41, Y: 25}, 1, 1)

	tw.view.Organism(eaten).Alive = false
	tw.grid.MarkDead(eaten)

	if n := BroadcastFlee(tw.env, eaten, components.SpeciesPlanktonBlue, at); n != 2 {
		t.Errorf("alerted %d plankton, want 2", n)
	}

	check := func(name string, b *components.Behavior, want bool) {
		t.Helper()
		fleeing := b.State == components.StateFleeing
		if fleeing != want {
			t.Errorf("%s fleeing = %v, want %v", name, fleeing, want)
		}
		if want && b.Threat != at {
			t.Errorf("%s threat = %v, want %v", name, b.Threat, at)
		}
	}
	check("near1", tw.view.Behavior(near1), true)
	check("near2", tw.view.Behavior(near2), true)
	check("far", tw.view.Behavior(far), false)
	check("purple", tw.view.Behavior(purple), false)

	// The decision later in the same tick keeps the broadcast threat
	a := tw.agent(near1)
	in := DecideBehavior(a, tw.env)
	if a.Behavior.State != components.StateFleeing || in.Desired.X <= 0 {
		t.Errorf("state = %v desired = %v, want fleeing away from %v", a.Behavior.State, in.Desired, at)
	}
}

func TestPlayerStopsAtWall(t *testing.T) {
	tw := newTestWorld()
	tw.env.Obstacles = NewObstacleField(80, 50)
	e := tw.spawn(components.SpeciesPlayer, r2.Vec{X: 0.5, Y: 10}, 1, 3)
	a := tw.agent(e)
	a.Intent.Move = r2.Vec{X: -1}

	in := DecideBehavior(a, tw.env)
	if !in.Halt {
		t.Errorf("intent = %+v, want halt at the wall", in)
	}
	if m := Steer(a, in, tw.env); !m.Stop {
		t.Errorf("motion = %+v, want stop", m)
	}

	a.Intent.Move = r2.Vec{X: 1}
	in = DecideBehavior(a, tw.env)
	if in.Halt || in.Desired.X <= 0 {
		t.Errorf("intent = %+v, want accelerating away from the wall", in)
	}
}

func TestPlayerBitesOncePerPress(t *testing.T) {
	tw := newTestWorld()
	player := tw.spawn(components.SpeciesPlayer, r2.Vec{X: 10, Y: 10}, 1, 3)
	food := tw.spawn(components.SpeciesAlgae, r2.Vec{X: 10.5, Y: 10}, 1, 3)
	tw.enter(player, food)
	a := tw.agent(player)

	if _, attempted := ResolveMouth(a, tw.env); attempted {
		t.Error("bit without a press")
	}

	a.Intent.BiteRequested = true
	res, attempted := ResolveMouth(a, tw.env)
	if !attempted || !res.OK() {
		t.Fatalf("bite attempted=%v outcome=%v, want ok", attempted, res.Outcome)
	}
	a.Intent.BiteRequested = false

	// Holding the button past the cooldown does not bite again
	for i := 0; i < 10; i++ {
		tw.env.Advance(0.2)
		if _, attempted := ResolveMouth(a, tw.env); attempted {
			t.Fatalf("tick %d: bit again without a new press", i)
		}
	}
	if got := tw.view.Resource(food).Units; got != 2 {
		t.Errorf("food units = %d, want 2 after one press", got)
	}
	if !a.Bite.MouthOpen {
		t.Error("mouth closed before release")
	}

	a.Intent.BiteRequested = true
	if res, _ := ResolveMouth(a, tw.env); !res.OK() {
		t.Errorf("second press outcome = %v, want ok", res.Outcome)
	}
	tw.env.Advance(0.05)
	if res, _ := ResolveMouth(a, tw.env); res.Outcome != BiteCooldownActive {
		t.Errorf("press inside cooldown outcome = %v, want %v", res.Outcome, BiteCooldownActive)
	}
	if got := tw.view.Resource(food).Units; got != 1 {
		t.Errorf("food units = %d, want 1 after two successful presses", got)
	}

	a.Intent.BiteRequested = false
	a.Intent.BiteReleased = true
	if _, attempted := ResolveMouth(a, tw.env); attempted {
		t.Error("release tried a bite")
	}
	if a.Bite.MouthOpen {
		t.Error("mouth still open after release")
	}
}

func TestMissingSensorDisablesBiting(t *testing.T) {
	tw := newTestWorld()
	e := tw.spawn(components.SpeciesPrey, r2.Vec{X: 10, Y: 10}, 1, 3)
	a := tw.agent(e)
	a.Sensor = nil

	res, attempted := ResolveMouth(a, tw.env)
	if !attempted || res.Outcome != BiteMissingSensor {
		t.Errorf("outcome = %v, want %v", res.Outcome, BiteMissingSensor)
	}
	if _, attempted := ResolveMouth(a, tw.env); attempted {
		t.Error("kept trying after the sensor was reported missing")
	}
}

func TestPlanktonContagionReachesWholeCrowd(t *testing.T) {
	tw := newTestWorld()
	at := r2.Vec{X: 40, Y: 25}
	eaten := tw.spawn(components.SpeciesPlanktonBlue, at, 1, 1)
	crowd := make([]ecs.Entity, MaxQueryResults+20)
	for i := range crowd {
		crowd[i] = tw.spawn(components.SpeciesPlanktonBlue, r2.Vec{X: 41 + float64(i%10)*0.5, Y: 25}, 1, 1)
	}
	tw.view.Organism(eaten).Alive = false
	tw.grid.MarkDead(eaten)

	if n := BroadcastFlee(tw.env, eaten, components.SpeciesPlanktonBlue, at); n != len(crowd) {
		t.Errorf("alerted %d plankton, want %d", n, len(crowd))
	}
	for i, e := range crowd {
		if s := tw.view.Behavior(e).State; s != components.StateFleeing {
			t.Fatalf("crowd[%d] state = %v, want fleeing", i, s)
		}
	}
}
