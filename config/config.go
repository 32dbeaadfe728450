// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Growth     GrowthConfig     `yaml:"growth"`
	Bite       BiteConfig       `yaml:"bite"`
	Avoidance  AvoidanceConfig  `yaml:"avoidance"`
	Plankton   PlanktonConfig   `yaml:"plankton"`
	VegFish    FishConfig       `yaml:"veg_fish"`
	MeatFish   FishConfig       `yaml:"meat_fish"`
	Player     PlayerConfig     `yaml:"player"`
	Algae      AlgaeConfig      `yaml:"algae"`
	Population PopulationConfig `yaml:"population"`
	Current    CurrentConfig    `yaml:"current"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Feed       FeedConfig       `yaml:"feed"`
	Audio      AudioConfig      `yaml:"audio"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	TargetFPS     int     `yaml:"target_fps"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"` // world units are small; the viewer scales them up
}

// WorldConfig holds tank dimensions and static layout.
type WorldConfig struct {
	Width      float64      `yaml:"width"`
	Height     float64      `yaml:"height"`
	CellSize   float64      `yaml:"cell_size"` // spatial grid cell size
	Rocks      []RockConfig `yaml:"rocks"`
	DirtyWater []ZoneConfig `yaml:"dirty_water"`
	Stars      []StarConfig `yaml:"stars"`
}

// RockConfig is a circular obstacle.
type RockConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// ZoneConfig is an axis-aligned rectangular zone.
type ZoneConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// StarConfig is a collectible placed in the tank.
type StarConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Value int     `yaml:"value"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`              // seconds per tick
	Backend        string  `yaml:"backend"`         // kinematic or box2d
	LinearDamping  float64 `yaml:"linear_damping"`  // per second
	AngularDamping float64 `yaml:"angular_damping"` // per second
	VelocityIters  int     `yaml:"velocity_iters"`  // box2d only
	PositionIters  int     `yaml:"position_iters"`  // box2d only
}

// GrowthConfig holds the size-tier model.
type GrowthConfig struct {
	MaxTier   int     `yaml:"max_tier"`
	BaseScale float64 `yaml:"base_scale"`
}

// BiteConfig holds the shared bite protocol parameters.
type BiteConfig struct {
	Cooldown        float64 `yaml:"cooldown"`          // seconds between successful bites
	BitesToGrow     int     `yaml:"bites_to_grow"`     // bites per tier
	MouthCloseDelay float64 `yaml:"mouth_close_delay"` // AI mouth stays open this long
	MouthRadius     float64 `yaml:"mouth_radius"`      // sensor radius at tier 1
	MouthOffset     float64 `yaml:"mouth_offset"`      // sensor centre ahead of the body, at tier 1
}

// AvoidanceConfig holds ray-fan obstacle avoidance parameters.
type AvoidanceConfig struct {
	LookAhead float64 `yaml:"look_ahead"`
	RayCount  int     `yaml:"ray_count"`
	RayAngle  float64 `yaml:"ray_angle"` // total spread in degrees
	Force     float64 `yaml:"force"`
	Jitter    float64 `yaml:"jitter"` // degrees of random jitter added for AI fish
}

// PlanktonConfig holds flocking drifter parameters.
type PlanktonConfig struct {
	NormalSpeed        float64         `yaml:"normal_speed"`
	FleeSpeed          float64         `yaml:"flee_speed"`
	TurnSpeed          float64         `yaml:"turn_speed"` // degrees per second
	SmoothTime         float64         `yaml:"smooth_time"`
	NeighborRadius     float64         `yaml:"neighbor_radius"`
	SeparationWeight   float64         `yaml:"separation_weight"`
	AlignmentWeight    float64         `yaml:"alignment_weight"`
	CohesionWeight     float64         `yaml:"cohesion_weight"`
	FleeDistance       float64         `yaml:"flee_distance"`
	ContagionRadius    float64         `yaml:"contagion_radius"` // multiple of neighbor_radius
	PanicTime          float64         `yaml:"panic_time"`       // seconds a broadcast flee holds
	ForceGain          float64         `yaml:"force_gain"`
	MaxForce           float64         `yaml:"max_force"`
	StuckCheckInterval float64         `yaml:"stuck_check_interval"`
	StuckThreshold     float64         `yaml:"stuck_threshold"`
	StuckTurnAngle     float64         `yaml:"stuck_turn_angle"` // degrees
	StuckImpulse       float64         `yaml:"stuck_impulse"`
	Radius             float64         `yaml:"radius"`
	Units              int             `yaml:"units"`
	Avoidance          AvoidanceConfig `yaml:"avoidance"`
}

// FishConfig holds AI fish parameters. Prey and predator share the shape.
type FishConfig struct {
	MoveSpeed         float64         `yaml:"move_speed"`
	TurnSpeed         float64         `yaml:"turn_speed"` // degrees per second
	StraightMoveTime  float64         `yaml:"straight_move_time"`
	RandomTurnAngle   float64         `yaml:"random_turn_angle"` // degrees
	SmoothTime        float64         `yaml:"smooth_time"`
	SenseRadius       float64         `yaml:"sense_radius"`
	ScanIntervalMin   float64         `yaml:"scan_interval_min"`
	ScanIntervalMax   float64         `yaml:"scan_interval_max"`
	StopDistance      float64         `yaml:"stop_distance"`
	SeekBoost         float64         `yaml:"seek_boost"`
	ForceGain         float64         `yaml:"force_gain"`
	MaxForce          float64         `yaml:"max_force"`
	EatDecisionChance float64         `yaml:"eat_decision_chance"` // predators only
	DebugAlwaysFeed   bool            `yaml:"debug_always_feed"`   // prey only
	StartTier         int             `yaml:"start_tier"`
	Radius            float64         `yaml:"radius"`
	Units             int             `yaml:"units"` // bites another fish needs to eat this one
	Avoidance         AvoidanceConfig `yaml:"avoidance"`
}

// PlayerConfig holds player-driven fish parameters.
type PlayerConfig struct {
	MaxSpeed       float64 `yaml:"max_speed"`
	Acceleration   float64 `yaml:"acceleration"`
	Deceleration   float64 `yaml:"deceleration"`
	TurnSpeed      float64 `yaml:"turn_speed"` // degrees per second
	StartTier      int     `yaml:"start_tier"`
	Radius         float64 `yaml:"radius"`
	DirtyWaterTime float64 `yaml:"dirty_water_time"` // seconds of exposure before shrinking
	ShrinkCooldown float64 `yaml:"shrink_cooldown"`
	StarRadius     float64 `yaml:"star_radius"` // pickup distance
	WallDistance   float64 `yaml:"wall_distance"`
}

// AlgaeConfig holds stationary food patch parameters.
type AlgaeConfig struct {
	Units         int     `yaml:"units"`
	RegenTime     float64 `yaml:"regen_time"`     // 0 disables regeneration; depleted patches then die
	RegenInterval float64 `yaml:"regen_interval"` // evaluation cadence
	Radius        float64 `yaml:"radius"`
}

// PopulationConfig holds initial counts and upkeep minimums.
type PopulationConfig struct {
	Prey            int     `yaml:"prey"`
	Predators       int     `yaml:"predators"`
	PlanktonBlue    int     `yaml:"plankton_blue"`
	PlanktonPurple  int     `yaml:"plankton_purple"`
	Algae           int     `yaml:"algae"`
	Player          bool    `yaml:"player"`
	MinPlankton     int     `yaml:"min_plankton"` // per colour
	MinAlgae        int     `yaml:"min_algae"`
	RespawnInterval float64 `yaml:"respawn_interval"`
}

// CurrentConfig holds the drifting water current field.
type CurrentConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Scale    float64 `yaml:"scale"`    // noise spatial frequency
	Strength float64 `yaml:"strength"` // force magnitude
	Speed    float64 `yaml:"speed"`    // time evolution rate
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow   float64 `yaml:"stats_window"` // seconds
	PerfWindow    int     `yaml:"perf_window"`  // ticks
	BusBuffer     int     `yaml:"bus_buffer"`   // per-subscriber queue length
	TrackLifetime bool    `yaml:"track_lifetime"`
}

// FeedConfig holds the websocket notification feed settings.
type FeedConfig struct {
	Addr         string  `yaml:"addr"` // empty disables
	Path         string  `yaml:"path"`
	WriteTimeout float64 `yaml:"write_timeout"` // seconds
}

// AudioConfig holds audio cue settings.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	TicksPerSecond   int
	StatsWindowTicks int
}

// global is the loaded configuration.
var global *Config

// Init loads configuration from the given path (or embedded defaults if empty)
// and stores it globally. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Physics.DT > 0 {
		c.Derived.TicksPerSecond = int(math.Round(1 / c.Physics.DT))
		c.Derived.StatsWindowTicks = int(c.Telemetry.StatsWindow / c.Physics.DT)
	}
	if c.Derived.StatsWindowTicks < 1 {
		c.Derived.StatsWindowTicks = 1
	}

	// Species avoidance blocks inherit unset fields from the shared block
	c.Plankton.Avoidance = c.Avoidance.merge(c.Plankton.Avoidance)
	c.VegFish.Avoidance = c.Avoidance.merge(c.VegFish.Avoidance)
	c.MeatFish.Avoidance = c.Avoidance.merge(c.MeatFish.Avoidance)

	if c.Plankton.ContagionRadius == 0 {
		c.Plankton.ContagionRadius = 1.5
	}
	if c.Feed.Path == "" {
		c.Feed.Path = "/events"
	}
}

// merge returns override with zero fields filled from a.
func (a AvoidanceConfig) merge(override AvoidanceConfig) AvoidanceConfig {
	out := override
	if out.LookAhead == 0 {
		out.LookAhead = a.LookAhead
	}
	if out.RayCount == 0 {
		out.RayCount = a.RayCount
	}
	if out.RayAngle == 0 {
		out.RayAngle = a.RayAngle
	}
	if out.Force == 0 {
		out.Force = a.Force
	}
	if out.Jitter == 0 {
		out.Jitter = a.Jitter
	}
	return out
}

// Validate checks invariants the simulation relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT))
	}
	if c.Growth.MaxTier < 1 {
		errs = append(errs, fmt.Errorf("growth.max_tier must be at least 1, got %d", c.Growth.MaxTier))
	}
	if c.World.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("world.cell_size must be positive, got %v", c.World.CellSize))
	}
	if c.Plankton.NeighborRadius <= 0 {
		errs = append(errs, fmt.Errorf("plankton.neighbor_radius must be positive, got %v", c.Plankton.NeighborRadius))
	}
	if c.Algae.RegenInterval < 0 {
		errs = append(errs, fmt.Errorf("algae.regen_interval must not be negative, got %v", c.Algae.RegenInterval))
	}
	if c.Bite.BitesToGrow < 1 {
		errs = append(errs, fmt.Errorf("bite.bites_to_grow must be at least 1, got %d", c.Bite.BitesToGrow))
	}
	avoidance := []struct {
		name string
		cfg  AvoidanceConfig
	}{
		{"plankton", c.Plankton.Avoidance},
		{"veg_fish", c.VegFish.Avoidance},
		{"meat_fish", c.MeatFish.Avoidance},
	}
	for _, av := range avoidance {
		if av.cfg.RayCount < 1 || av.cfg.RayCount%2 == 0 {
			errs = append(errs, fmt.Errorf("%s.avoidance.ray_count must be odd, got %d", av.name, av.cfg.RayCount))
		}
	}
	if c.Plankton.FleeSpeed <= c.Plankton.NormalSpeed {
		errs = append(errs, fmt.Errorf("plankton.flee_speed (%v) must exceed normal_speed (%v)",
			c.Plankton.FleeSpeed, c.Plankton.NormalSpeed))
	}
	switch c.Physics.Backend {
	case "", "kinematic", "box2d":
	default:
		errs = append(errs, fmt.Errorf("physics.backend %q is not kinematic or box2d", c.Physics.Backend))
	}
	return errors.Join(errs...)
}

// WriteYAML saves the config to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
