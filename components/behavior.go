package components

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// BehaviorState is the per-organism decision state. Each species uses a subset.
type BehaviorState uint8

const (
	StateWander    BehaviorState = iota // fish default
	StateFeed                           // prey fish seeking food
	StateHunt                           // predator pursuing a smaller fish
	StateGathering                      // plankton flocking
	StateFleeing                        // plankton escaping a threat
	StateDriven                         // player
	StateIdle                           // algae
)

// Behavior holds decision state between ticks.
type Behavior struct {
	State BehaviorState

	// Threat origin while fleeing. A broadcast flee holds until PanicUntil.
	Threat     r2.Vec
	PanicUntil float64

	// Feed/hunt target, validated every tick.
	Target ecs.Entity

	// Prey food scan cadence.
	NextScanAt float64

	// Predator one-shot decision: the last candidate rolled for and the outcome.
	Rolled    ecs.Entity
	RolledYes bool

	// Eating is set while an AI bite sequence has the mouth open.
	Eating bool

	// BiteDisabled is set once a missing collaborator has been reported.
	BiteDisabled bool
}

// Wander holds the random-heading walk state.
type Wander struct {
	Heading    float64
	NextTurnAt float64
	Turns      int
	Armed      bool
}

// Steering holds smoothing and stuck-detection state.
type Steering struct {
	Smoothed   r2.Vec // smoothed desired velocity
	SmoothRate r2.Vec // smoothing filter derivative
	Source     SteeringSource

	LastCheckPos r2.Vec
	NextCheckAt  float64
}

// SteeringSource records which contribution won this tick.
type SteeringSource uint8

const (
	SourceNone SteeringSource = iota
	SourceAvoid
	SourceFlee
	SourceFlock
	SourceSeek
	SourceWander
	SourceDrive
)

// Motion is the request handed to the physics integrator each tick.
type Motion struct {
	Force   r2.Vec  // mass-normalized, applied over the step
	Torque  float64 // angular acceleration, radians per second squared
	Impulse r2.Vec  // instantaneous velocity change
	Damp    float64 // velocity multiplier applied before integrating, 0 = none
	Stop    bool    // zero velocity before integrating
}

// Reset clears a consumed request.
func (m *Motion) Reset() {
	*m = Motion{}
}
