package ui

import (
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID names a debug overlay.
type OverlayID string

const (
	OverlaySensors   OverlayID = "sensors"
	OverlayFlock     OverlayID = "flock"
	OverlayAvoidance OverlayID = "avoidance"
	OverlayStates    OverlayID = "states"
	OverlayZones     OverlayID = "zones"
	OverlayCurrent   OverlayID = "current"
	OverlayGrid      OverlayID = "grid"
	OverlayPerf      OverlayID = "perf"
)

// Category groups overlays in the controls panel.
type Category string

const (
	CategoryAgents Category = "agents"
	CategoryTank   Category = "tank"
	CategoryDebug  Category = "debug"
)

// Label is the panel heading for the category.
func (c Category) Label() string {
	switch c {
	case CategoryAgents:
		return "Agents"
	case CategoryTank:
		return "Tank"
	case CategoryDebug:
		return "Debug"
	}
	return string(c)
}

// Overlay describes one toggleable overlay.
type Overlay struct {
	ID       OverlayID
	Name     string
	Key      int32 // 0 = no hotkey
	KeyLabel string
	Category Category
	// Excludes are switched off when this overlay is switched on.
	Excludes []OverlayID
}

var defaultOverlays = []Overlay{
	{OverlaySensors, "Mouth Sensors", rl.KeyOne, "1", CategoryAgents, nil},
	{OverlayFlock, "Flock Links", rl.KeyTwo, "2", CategoryAgents, nil},
	{OverlayAvoidance, "Avoidance Rays", rl.KeyThree, "3", CategoryAgents, nil},
	{OverlayStates, "Behavior States", rl.KeyFour, "4", CategoryAgents, nil},
	{OverlayZones, "Dirty Water", rl.KeyFive, "5", CategoryTank, nil},
	{OverlayCurrent, "Current", rl.KeySix, "6", CategoryTank, []OverlayID{OverlayGrid}},
	{OverlayGrid, "Spatial Grid", rl.KeySeven, "7", CategoryDebug, []OverlayID{OverlayCurrent}},
	{OverlayPerf, "Performance", rl.KeyF3, "F3", CategoryDebug, nil},
}

// OverlayRegistry tracks which overlays are on. Display order is
// registration order.
type OverlayRegistry struct {
	overlays []Overlay
	on       []bool
}

// NewOverlayRegistry returns a registry holding the default overlays, all off.
func NewOverlayRegistry() *OverlayRegistry {
	r := &OverlayRegistry{}
	for _, o := range defaultOverlays {
		r.Register(o)
	}
	return r
}

// Register appends an overlay, switched off.
func (r *OverlayRegistry) Register(o Overlay) {
	r.overlays = append(r.overlays, o)
	r.on = append(r.on, false)
}

func (r *OverlayRegistry) index(id OverlayID) int {
	return slices.IndexFunc(r.overlays, func(o Overlay) bool { return o.ID == id })
}

// Toggle flips an overlay and returns its new state. Unknown ids stay off.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.set(i, !r.on[i])
	return r.on[i]
}

// SetEnabled switches an overlay on or off.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if i := r.index(id); i >= 0 {
		r.set(i, enabled)
	}
}

func (r *OverlayRegistry) set(i int, enabled bool) {
	r.on[i] = enabled
	if !enabled {
		return
	}
	for _, ex := range r.overlays[i].Excludes {
		if j := r.index(ex); j >= 0 {
			r.on[j] = false
		}
	}
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	i := r.index(id)
	return i >= 0 && r.on[i]
}

// HandleKeyPress toggles the overlay bound to key. handled is false when no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, enabled, handled bool) {
	for i, o := range r.overlays {
		if o.Key != 0 && o.Key == key {
			r.set(i, !r.on[i])
			return o.ID, r.on[i], true
		}
	}
	return "", false, false
}

// ByCategory returns the overlays in a category.
func (r *OverlayRegistry) ByCategory(c Category) []Overlay {
	var out []Overlay
	for _, o := range r.overlays {
		if o.Category == c {
			out = append(out, o)
		}
	}
	return out
}

// Categories returns the categories in first-seen order.
func (r *OverlayRegistry) Categories() []Category {
	var out []Category
	for _, o := range r.overlays {
		if !slices.Contains(out, o.Category) {
			out = append(out, o.Category)
		}
	}
	return out
}

// EnabledOverlays lists the overlays that are on.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var out []OverlayID
	for i, o := range r.overlays {
		if r.on[i] {
			out = append(out, o.ID)
		}
	}
	return out
}
