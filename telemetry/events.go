// Package telemetry collects simulation statistics, lifecycle notifications
// and timing data, and writes them to CSV.
package telemetry

import "github.com/pthm-cable/shoal/components"

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventGrowthTierChanged
	EventResourceConsumed
	EventDeath
	EventStarCollected
	EventBite
)

var eventNames = [...]string{
	EventSpawn:             "spawn",
	EventGrowthTierChanged: "growth_tier_changed",
	EventResourceConsumed:  "resource_consumed",
	EventDeath:             "death",
	EventStarCollected:     "star_collected",
	EventBite:              "bite",
}

// String returns the snake_case name used in logs and on the feed.
func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a single lifecycle notification.
type Event struct {
	Type     EventType
	Tick     int32
	ID       uint32 // organism the event is about
	Species  components.Species
	TargetID uint32 // bite victim, 0 when not applicable
	Value    int    // tier, units remaining or star value
}

// NewSpawnEvent reports a new organism.
func NewSpawnEvent(tick int32, id uint32, species components.Species, tier int) Event {
	return Event{Type: EventSpawn, Tick: tick, ID: id, Species: species, Value: tier}
}

// NewGrowthEvent reports a tier change.
func NewGrowthEvent(tick int32, id uint32, species components.Species, tier int) Event {
	return Event{Type: EventGrowthTierChanged, Tick: tick, ID: id, Species: species, Value: tier}
}

// NewConsumedEvent reports a unit taken from a resource.
func NewConsumedEvent(tick int32, id uint32, species components.Species, unitsRemaining int) Event {
	return Event{Type: EventResourceConsumed, Tick: tick, ID: id, Species: species, Value: unitsRemaining}
}

// NewDeathEvent reports an organism leaving the simulation.
func NewDeathEvent(tick int32, id uint32, species components.Species) Event {
	return Event{Type: EventDeath, Tick: tick, ID: id, Species: species}
}

// NewStarEvent reports a star picked up by the player.
func NewStarEvent(tick int32, playerID uint32, value int) Event {
	return Event{Type: EventStarCollected, Tick: tick, ID: playerID, Species: components.SpeciesPlayer, Value: value}
}

// NewBiteEvent reports a successful bite by id on target.
func NewBiteEvent(tick int32, id uint32, species components.Species, targetID uint32) Event {
	return Event{Type: EventBite, Tick: tick, ID: id, Species: species, TargetID: targetID}
}
