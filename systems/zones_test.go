package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/components"
)

func TestDirtyWater(t *testing.T) {
	z := NewZoneIndex()
	if err := z.AddDirtyWater(r2.Vec{X: 60, Y: 4}, 14, 10); err != nil {
		t.Fatalf("AddDirtyWater: %v", err)
	}

	tests := []struct {
		p    r2.Vec
		want bool
	}{
		{r2.Vec{X: 65, Y: 8}, true},
		{r2.Vec{X: 60, Y: 4}, true},
		{r2.Vec{X: 59, Y: 8}, false},
		{r2.Vec{X: 65, Y: 15}, false},
	}
	for _, tt := range tests {
		if got := z.InDirtyWater(tt.p); got != tt.want {
			t.Errorf("InDirtyWater(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCollectStars(t *testing.T) {
	z := NewZoneIndex()
	for _, p := range []r2.Vec{{X: 10, Y: 10}, {X: 10.5, Y: 10}, {X: 30, Y: 30}} {
		if _, err := z.AddStar(p, 1); err != nil {
			t.Fatalf("AddStar: %v", err)
		}
	}

	got := z.CollectStars(r2.Vec{X: 10, Y: 10.2}, 1)
	if len(got) != 2 {
		t.Fatalf("collected %d stars, want 2", len(got))
	}
	if again := z.CollectStars(r2.Vec{X: 10, Y: 10.2}, 1); len(again) != 0 {
		t.Errorf("collected %d stars twice", len(again))
	}
	if left := z.Stars(); len(left) != 1 || left[0].Pos != (r2.Vec{X: 30, Y: 30}) {
		t.Errorf("remaining stars = %v, want the one at (30, 30)", left)
	}
}

func TestUpdateExposure(t *testing.T) {
	var ex components.Exposure
	const dt = 0.5
	const limit, cooldown = 3.0, 1.0

	shrinks := 0
	for i := 0; i < 12; i++ { // 6 seconds inside
		if UpdateExposure(&ex, true, dt, limit, cooldown) {
			shrinks++
		}
	}
	if shrinks != 2 {
		t.Errorf("shrinks after 6s = %d, want 2", shrinks)
	}

	// Leaving resets the timer
	UpdateExposure(&ex, true, dt, limit, cooldown)
	UpdateExposure(&ex, false, dt, limit, cooldown)
	if ex.Timer != 0 || ex.InZone {
		t.Errorf("after leaving: timer=%f inZone=%v", ex.Timer, ex.InZone)
	}
}

func TestRegenerationUpdatesVisualTier(t *testing.T) {
	w := ecs.NewWorld()
	res := components.NewConsumableResource(3, 1, 0.1)
	growth := components.NewGrowthProfile(1, 3, 3)
	e := ecs.NewMap[components.Organism](w).NewEntity(&components.Organism{ID: 1, Species: components.SpeciesAlgae, Alive: true})
	addComp(w, e, res)
	addComp(w, e, growth)

	rm := ecs.NewMap[components.ConsumableResource](w)
	gm := ecs.NewMap[components.GrowthProfile](w)
	r := rm.Get(e)
	r.ConsumeOneUnit()
	r.ConsumeOneUnit()
	gm.Get(e).ApplyTier(r.VisualTier())

	sys := NewRegenerationSystem(w)
	var last []Regrown
	for i := 0; i < 70; i++ {
		if got := sys.Update(1.0 / 60); len(got) > 0 {
			last = append(last[:0], got...)
		}
	}
	if r.Units != 3 {
		t.Errorf("units after regen time = %d, want 3", r.Units)
	}
	if gm.Get(e).Tier != 3 {
		t.Errorf("tier = %d, want 3", gm.Get(e).Tier)
	}
	if len(last) != 1 || last[0].Units != 3 {
		t.Errorf("last regrown = %v, want one entry at 3 units", last)
	}
	if r.Regenerating() {
		t.Error("still regenerating once full")
	}
}
