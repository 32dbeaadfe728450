package components

// Species tags every organism. Behavior dispatch switches on it.
type Species uint8

const (
	SpeciesPrey Species = iota
	SpeciesPredator
	SpeciesPlanktonBlue
	SpeciesPlanktonPurple
	SpeciesAlgae
	SpeciesPlayer
	numSpecies
)

// NumSpecies is the number of species tags.
const NumSpecies = int(numSpecies)

// IsPlankton reports whether the species is a flocking drifter.
func (s Species) IsPlankton() bool {
	return s == SpeciesPlanktonBlue || s == SpeciesPlanktonPurple
}

// IsFish reports whether the species swims with a mouth and bite clock.
func (s Species) IsFish() bool {
	return s == SpeciesPrey || s == SpeciesPredator || s == SpeciesPlayer
}

// IsFood reports whether the species is eaten by prey fish.
func (s Species) IsFood() bool {
	return s == SpeciesAlgae || s.IsPlankton()
}

// Threatens reports whether this species scares plankton.
func (s Species) Threatens() bool {
	return s.IsFish()
}

// Organism is the core record every simulated creature or food item carries.
type Organism struct {
	ID      uint32
	Species Species
	Alive   bool
	Age     float64 // seconds alive
}

// Body holds physical properties the integrator needs.
type Body struct {
	Radius      float64 // at tier 1; scaled by GrowthProfile when present
	MouthRadius float64 // 0 = no mouth sensor
	MouthOffset float64 // distance ahead of centre
	MaxSpeed    float64
	MaxTurnRate float64 // radians per second
	Static      bool    // never moves (algae)
	Driven      bool    // velocity is set directly each tick; no damping
}

// FlockGroup keys the flock registry. Only organisms of the same group flock together.
type FlockGroup uint8

const (
	FlockNone FlockGroup = iota
	FlockBlue
	FlockPurple
)

// Group returns the flock group of a species.
func (s Species) Group() FlockGroup {
	switch s {
	case SpeciesPlanktonBlue:
		return FlockBlue
	case SpeciesPlanktonPurple:
		return FlockPurple
	}
	return FlockNone
}
