package components

// String returns the display name for a Species.
func (s Species) String() string {
	names := SpeciesNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// SpeciesNames returns the display names for all species.
// The order matches the Species constants.
func SpeciesNames() []string {
	return []string{"prey", "predator", "plankton_blue", "plankton_purple", "algae", "player"}
}

// String returns the display name for a BehaviorState.
func (s BehaviorState) String() string {
	names := BehaviorStateNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// BehaviorStateNames returns the display names for all behavior states.
func BehaviorStateNames() []string {
	return []string{"Wander", "Feed", "Hunt", "Gathering", "Fleeing", "Driven", "Idle"}
}

// String returns the display name for a SteeringSource.
func (s SteeringSource) String() string {
	switch s {
	case SourceAvoid:
		return "avoid"
	case SourceFlee:
		return "flee"
	case SourceFlock:
		return "flock"
	case SourceSeek:
		return "seek"
	case SourceWander:
		return "wander"
	case SourceDrive:
		return "drive"
	}
	return "none"
}
