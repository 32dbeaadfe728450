package components

import "gonum.org/v1/gonum/spatial/r2"

// PlayerIntent is supplied by the input collaborator once per tick.
type PlayerIntent struct {
	Move          r2.Vec // desired direction, length <= 1
	BiteRequested bool   // edge: bite button pressed this tick
	BiteReleased  bool   // edge: bite button released this tick
}

// Exposure tracks time spent in dirty water.
type Exposure struct {
	InZone         bool
	Timer          float64 // continuous seconds in the zone since the last shrink
	ShrinkCooldown float64 // seconds until another shrink is allowed
}

// Score counts collected stars.
type Score struct {
	Stars  int
	Points int
}
