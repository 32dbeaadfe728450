package components

import "math"

// ConsumableResource tracks the edible units an organism has left.
type ConsumableResource struct {
	Units int
	Total int

	// Regeneration; RegenTime 0 disables it.
	RegenTime     float64
	RegenInterval float64

	regen regenProcess
}

// regenProcess is one in-flight regeneration run. A new consumption
// replaces it wholesale, so there is never more than one.
type regenProcess struct {
	active    bool
	from      int
	elapsed   float64
	sinceEval float64
}

// NewConsumableResource creates a full resource.
func NewConsumableResource(total int, regenTime, regenInterval float64) ConsumableResource {
	if total < 1 {
		total = 1
	}
	return ConsumableResource{
		Units:         total,
		Total:         total,
		RegenTime:     regenTime,
		RegenInterval: regenInterval,
	}
}

// IsDepleted reports whether no units are left to bite.
func (r *ConsumableResource) IsDepleted() bool {
	return r.Units <= 0
}

// Regenerates reports whether the resource refills over time.
func (r *ConsumableResource) Regenerates() bool {
	return r.RegenTime > 0
}

// Regenerating reports whether a regeneration run is in flight.
func (r *ConsumableResource) Regenerating() bool {
	return r.regen.active
}

// ConsumeOneUnit removes one unit. Returns false when nothing is left.
// A successful call restarts regeneration from the new count.
func (r *ConsumableResource) ConsumeOneUnit() bool {
	if r.Units <= 0 {
		return false
	}
	r.Units--
	if r.Regenerates() {
		r.regen = regenProcess{active: true, from: r.Units}
	}
	return true
}

// AdvanceRegen moves the regeneration clock forward by dt and, when the
// evaluation cadence fires, interpolates Units toward Total.
// Returns true if Units changed.
func (r *ConsumableResource) AdvanceRegen(dt float64) bool {
	if !r.regen.active {
		return false
	}
	r.regen.elapsed += dt
	r.regen.sinceEval += dt

	finished := r.regen.elapsed >= r.RegenTime
	if !finished && r.regen.sinceEval < r.RegenInterval {
		return false
	}
	r.regen.sinceEval = 0

	t := 1.0
	if !finished {
		t = r.regen.elapsed / r.RegenTime
	}
	units := r.regen.from + int(math.Round(float64(r.Total-r.regen.from)*t))
	if units > r.Total {
		units = r.Total
	}

	changed := units != r.Units
	r.Units = units
	if r.Units >= r.Total {
		r.regen = regenProcess{}
	}
	return changed
}

// VisualTier is the display tier for food items: remaining units, at least 1.
func (r *ConsumableResource) VisualTier() int {
	if r.Units < 1 {
		return 1
	}
	return r.Units
}
