package components

// GrowthProfile is the size-tier model shared by every growable organism.
type GrowthProfile struct {
	Tier      int
	MaxTier   int
	BaseScale float64 // captured at creation, never changed
}

// NewGrowthProfile captures baseScale first and then applies the starting tier.
func NewGrowthProfile(baseScale float64, maxTier, tier int) GrowthProfile {
	if maxTier < 1 {
		maxTier = 1
	}
	g := GrowthProfile{MaxTier: maxTier, BaseScale: baseScale}
	g.ApplyTier(tier)
	return g
}

// ApplyTier clamps t to [1, MaxTier], stores it and returns the applied value.
func (g *GrowthProfile) ApplyTier(t int) int {
	if t < 1 {
		t = 1
	}
	if t > g.MaxTier {
		t = g.MaxTier
	}
	g.Tier = t
	return t
}

// Grow moves up one tier. Returns whether the tier changed.
func (g *GrowthProfile) Grow() bool {
	before := g.Tier
	return g.ApplyTier(g.Tier+1) != before
}

// Shrink moves down one tier. Returns whether the tier changed.
func (g *GrowthProfile) Shrink() bool {
	before := g.Tier
	return g.ApplyTier(g.Tier-1) != before
}

// Scale is the visual scale handed to the renderer.
func (g GrowthProfile) Scale() float64 {
	return g.BaseScale * float64(g.Tier)
}
