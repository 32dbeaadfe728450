package renderer

import "testing"

func TestParticleSpawnRespectsPool(t *testing.T) {
	r := NewParticleRenderer(1, 15)

	r.Spawn(EffectDeath, 0, 0, 1) // 10 particles
	r.Spawn(EffectDeath, 0, 0, 1) // only 5 fit

	if got := r.Len(); got != 15 {
		t.Errorf("Len() = %d, want 15", got)
	}
}

func TestParticleUpdateExpires(t *testing.T) {
	tests := []struct {
		kind EffectKind
		life float32
	}{
		{EffectBite, 0.5},
		{EffectDeath, 1.2},
		{EffectStar, 0.8},
		{EffectGrow, 0.6},
	}
	for _, tt := range tests {
		r := NewParticleRenderer(1, 100)
		r.Spawn(tt.kind, 5, 5, 1)
		if r.Len() == 0 {
			t.Fatalf("kind %d: no particles spawned", tt.kind)
		}

		r.Update(tt.life * 0.5)
		if r.Len() == 0 {
			t.Errorf("kind %d: particles expired at half life", tt.kind)
		}
		r.Update(tt.life)
		if r.Len() != 0 {
			t.Errorf("kind %d: Len() = %d after full life, want 0", tt.kind, r.Len())
		}
	}
}

func TestBiteBubblesRise(t *testing.T) {
	r := NewParticleRenderer(1, 100)
	r.Spawn(EffectBite, 0, 0, 1)
	before := make([]float32, r.Len())
	for i, p := range r.particles {
		before[i] = p.VY
	}
	r.Update(0.1)
	for i, p := range r.particles {
		if p.VY >= before[i] {
			t.Errorf("particle %d VY = %f, want less than %f", i, p.VY, before[i])
		}
	}
}
