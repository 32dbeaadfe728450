package main

import (
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. Defaults
// are read from base so tuning starts where the config already is.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			// Predators
			{Name: "meat_eat_chance", Path: "meat_fish.eat_decision_chance", Min: 0.05, Max: 1.0,
				get: func(c *config.Config) float64 { return c.MeatFish.EatDecisionChance },
				set: func(c *config.Config, v float64) { c.MeatFish.EatDecisionChance = v }},
			{Name: "meat_move_speed", Path: "meat_fish.move_speed", Min: 1, Max: 8,
				get: func(c *config.Config) float64 { return c.MeatFish.MoveSpeed },
				set: func(c *config.Config, v float64) { c.MeatFish.MoveSpeed = v }},
			{Name: "meat_sense_radius", Path: "meat_fish.sense_radius", Min: 2, Max: 15,
				get: func(c *config.Config) float64 { return c.MeatFish.SenseRadius },
				set: func(c *config.Config, v float64) { c.MeatFish.SenseRadius = v }},
			// Prey
			{Name: "veg_move_speed", Path: "veg_fish.move_speed", Min: 1, Max: 8,
				get: func(c *config.Config) float64 { return c.VegFish.MoveSpeed },
				set: func(c *config.Config, v float64) { c.VegFish.MoveSpeed = v }},
			{Name: "veg_sense_radius", Path: "veg_fish.sense_radius", Min: 2, Max: 15,
				get: func(c *config.Config) float64 { return c.VegFish.SenseRadius },
				set: func(c *config.Config, v float64) { c.VegFish.SenseRadius = v }},
			// Bite protocol
			{Name: "bite_cooldown", Path: "bite.cooldown", Min: 0.05, Max: 3.0,
				get: func(c *config.Config) float64 { return c.Bite.Cooldown },
				set: func(c *config.Config, v float64) { c.Bite.Cooldown = v }},
			{Name: "bites_to_grow", Path: "bite.bites_to_grow", Min: 2, Max: 20,
				get: func(c *config.Config) float64 { return float64(c.Bite.BitesToGrow) },
				set: func(c *config.Config, v float64) { c.Bite.BitesToGrow = int(v + 0.5) }},
			// Food
			{Name: "algae_regen_time", Path: "algae.regen_time", Min: 1, Max: 60,
				get: func(c *config.Config) float64 { return c.Algae.RegenTime },
				set: func(c *config.Config, v float64) { c.Algae.RegenTime = v }},
			{Name: "plankton_flee_speed", Path: "plankton.flee_speed", Min: 1, Max: 10,
				get: func(c *config.Config) float64 { return c.Plankton.FleeSpeed },
				set: func(c *config.Config, v float64) { c.Plankton.FleeSpeed = v }},
			{Name: "plankton_panic_time", Path: "plankton.panic_time", Min: 0.2, Max: 5,
				get: func(c *config.Config) float64 { return c.Plankton.PanicTime },
				set: func(c *config.Config, v float64) { c.Plankton.PanicTime = v }},
		},
	}
	for i := range pv.Specs {
		s := &pv.Specs[i]
		s.Default = clampTo(s.get(base), s.Min, s.Max)
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = clampTo(v[i], spec.Min, spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.get(cfg)
	}
	return v
}

func clampTo(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
