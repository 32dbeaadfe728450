package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/shoal/audio"
	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/feed"
	"github.com/pthm-cable/shoal/physics"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/ui"
)

// Options configures game initialization.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	PhysicsBackend string // empty uses config
	FeedAddr       string // empty uses config; "off" disables
	Audio          bool
	Config         *config.Config // nil uses the global config

	// StatsCallback is called with each flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	world  *ecs.World
	rng    *rand.Rand
	seed   int64
	cfg    *config.Config
	params *systems.Params

	// Component access
	view        *systems.WorldView
	orgMap      *ecs.Map[components.Organism]
	posMap      *ecs.Map[components.Position]
	velMap      *ecs.Map[components.Velocity]
	rotMap      *ecs.Map[components.Rotation]
	bodyMap     *ecs.Map[components.Body]
	growthMap   *ecs.Map[components.GrowthProfile]
	resourceMap *ecs.Map[components.ConsumableResource]
	steeringMap *ecs.Map[components.Steering]
	behaviorMap *ecs.Map[components.Behavior]
	wanderMap   *ecs.Map[components.Wander]
	sensorMap   *ecs.Map[components.ProximitySensor]
	biteMap     *ecs.Map[components.BiteClock]
	intentMap   *ecs.Map[components.PlayerIntent]
	exposureMap *ecs.Map[components.Exposure]
	scoreMap    *ecs.Map[components.Score]
	orgFilter   *ecs.Filter2[components.Organism, components.Position]

	// Simulation systems
	grid       *systems.SpatialGrid
	flock      *systems.FlockRegistry
	sensors    *systems.SensorIndex
	env        *systems.Env
	integrator physics.Integrator
	obstacles  *systems.ObstacleField
	zones      *systems.ZoneIndex
	current    *systems.CurrentField
	regen      *systems.RegenerationSystem

	// Per-tick scratch
	events []systems.SensorEvent
	live   []ecs.Entity
	dead   []ecs.Entity
	agent  systems.Agent

	// Notifications and telemetry
	runID            string
	bus              *telemetry.Bus
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	// Collaborators
	feedServer *feed.Server
	audio      *audio.Player

	// Viewer, nil when headless
	camera     *camera.Camera
	scene      *renderer.Scene
	hud        *ui.HUD
	perfPanel  *ui.PerfPanel
	statsPanel *ui.WindowStatsPanel
	controls   *ui.ControlsPanel
	inspector  *ui.Inspector
	overlays   *ui.OverlayRegistry
	selected   ecs.Entity
	follow     bool
	sprites    []renderer.Sprite
	scratch    []systems.Neighbor
	lastStats  *telemetry.WindowStats
	screenW    float32
	screenH    float32

	// State
	tick           int32
	paused         bool
	headless       bool
	stepsPerUpdate int
	nextID         uint32
	player         ecs.Entity
	playerID       uint32
	stars          int
	nextRespawnAt  float64
	counts         [components.NumSpecies]int
}

// NewGameWithOptions creates a new game instance with the given options.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	backend := opts.PhysicsBackend
	if backend == "" {
		backend = cfg.Physics.Backend
	}

	world := ecs.NewWorld()
	runID := telemetry.NewRunID()
	dt := cfg.Physics.DT

	g := &Game{
		world:  world,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		seed:   opts.Seed,
		cfg:    cfg,
		params: systems.NewParams(cfg),

		view:        systems.NewWorldView(world),
		orgMap:      ecs.NewMap[components.Organism](world),
		posMap:      ecs.NewMap[components.Position](world),
		velMap:      ecs.NewMap[components.Velocity](world),
		rotMap:      ecs.NewMap[components.Rotation](world),
		bodyMap:     ecs.NewMap[components.Body](world),
		growthMap:   ecs.NewMap[components.GrowthProfile](world),
		resourceMap: ecs.NewMap[components.ConsumableResource](world),
		steeringMap: ecs.NewMap[components.Steering](world),
		behaviorMap: ecs.NewMap[components.Behavior](world),
		wanderMap:   ecs.NewMap[components.Wander](world),
		sensorMap:   ecs.NewMap[components.ProximitySensor](world),
		biteMap:     ecs.NewMap[components.BiteClock](world),
		intentMap:   ecs.NewMap[components.PlayerIntent](world),
		exposureMap: ecs.NewMap[components.Exposure](world),
		scoreMap:    ecs.NewMap[components.Score](world),
		orgFilter:   ecs.NewFilter2[components.Organism, components.Position](world),

		grid:    systems.NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.World.CellSize),
		flock:   systems.NewFlockRegistry(),
		sensors: systems.NewSensorIndex(),
		regen:   systems.NewRegenerationSystem(world),

		runID:            runID,
		bus:              telemetry.NewBus(),
		collector:        telemetry.NewCollector(statsWindow, dt, runID),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,

		headless:       opts.Headless,
		stepsPerUpdate: opts.StepsPerUpdate,
		nextID:         1,
	}

	if cfg.Telemetry.TrackLifetime {
		g.lifetimeTracker = telemetry.NewLifetimeTracker(runID)
	}

	if err := g.buildTank(); err != nil {
		return nil, err
	}

	integrator, err := physics.New(backend, g.obstacles, physics.Options{
		Width:          cfg.World.Width,
		Height:         cfg.World.Height,
		CellSize:       cfg.World.CellSize,
		LinearDamping:  cfg.Physics.LinearDamping,
		AngularDamping: cfg.Physics.AngularDamping,
		VelocityIters:  cfg.Physics.VelocityIters,
		PositionIters:  cfg.Physics.PositionIters,
	})
	if err != nil {
		return nil, err
	}
	g.integrator = integrator

	g.env = systems.NewEnv(g.view, g.grid, g.flock, g.obstacles, g.params, g.rng)
	g.env.DT = dt
	g.env.Current = g.current

	om, err := telemetry.NewOutputManager(opts.OutputDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	g.spawnInitialPopulation()

	if err := g.startCollaborators(opts); err != nil {
		g.Unload()
		return nil, err
	}

	if !opts.Headless {
		g.initViewer()
	}

	slog.Info("game_created",
		"run_id", runID,
		"seed", opts.Seed,
		"backend", backend,
		"organisms", g.integrator.Len(),
		"headless", opts.Headless,
	)
	return g, nil
}

// startCollaborators subscribes the feed server and audio player to the bus.
func (g *Game) startCollaborators(opts Options) error {
	buffer := g.cfg.Telemetry.BusBuffer

	addr := opts.FeedAddr
	if addr == "" {
		addr = g.cfg.Feed.Addr
	}
	if addr != "" && addr != "off" {
		sub, err := g.bus.Subscribe("feed", buffer)
		if err != nil {
			return fmt.Errorf("subscribing feed: %w", err)
		}
		timeout := time.Duration(g.cfg.Feed.WriteTimeout * float64(time.Second))
		srv, err := feed.Start(addr, g.cfg.Feed.Path, feed.NewHub(sub, g.runID, timeout))
		if err != nil {
			return err
		}
		g.feedServer = srv
	}

	if opts.Audio || g.cfg.Audio.Enabled {
		sub, err := g.bus.Subscribe("audio", buffer)
		if err != nil {
			return fmt.Errorf("subscribing audio: %w", err)
		}
		p := audio.NewPlayer(g.cfg.Audio.SampleRate, g.cfg.Audio.Volume)
		if err := p.Init(); err != nil {
			// No sound device is not fatal; the player stays silent
			slog.Warn("audio_unavailable", "error", err)
		}
		p.Listen(sub)
		g.audio = p
	}
	return nil
}

// Update handles input and runs simulation steps (graphical mode).
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
		// Edges are consumed by the first step of the frame
		g.clearIntentEdges()
	}
	g.followPlayer()
}

// UpdateHeadless runs simulation steps without input or rendering.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// Step runs exactly one tick.
func (g *Game) Step() {
	g.simulationStep()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Now returns the simulation time in seconds.
func (g *Game) Now() float64 {
	return g.env.Now
}

// RunID returns the identifier stamped on every output of this run.
func (g *Game) RunID() string {
	return g.runID
}

// Bus returns the lifecycle notification bus.
func (g *Game) Bus() *telemetry.Bus {
	return g.bus
}

// Count returns the number of live organisms of a species.
func (g *Game) Count(s components.Species) int {
	return g.counts[s]
}

// Stars returns the total stars collected by the player.
func (g *Game) Stars() int {
	return g.stars
}

// Player returns the player entity, zero when none is alive.
func (g *Game) Player() ecs.Entity {
	if _, ok := g.view.Species(g.player); !ok {
		return ecs.Entity{}
	}
	return g.player
}

// SetPlayerIntent replaces the player's intent for the next tick.
func (g *Game) SetPlayerIntent(in components.PlayerIntent) {
	e := g.Player()
	if e.IsZero() {
		return
	}
	*g.intentMap.Get(e) = in
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(p bool) {
	g.paused = p
}

// Position returns the position of a live organism.
func (g *Game) Position(e ecs.Entity) (r2.Vec, bool) {
	pos, _, ok := g.view.Kinematics(e)
	return pos, ok
}

// Unload releases resources and closes outputs.
func (g *Game) Unload() {
	if g.feedServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := g.feedServer.Shutdown(ctx); err != nil {
			slog.Error("failed to stop feed", "error", err)
		}
		cancel()
		g.feedServer = nil
	}
	if g.audio != nil {
		g.audio.Close()
		g.audio = nil
	}
	g.bus.Close()

	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
	if g.scene != nil {
		g.scene.Unload()
	}
}
