package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Counts  [components.NumSpecies]int
	Tick    int32
	SimTime float64
	Speed   int
	FPS     int32
	Paused  bool

	PlayerAlive bool
	PlayerTier  int
	MaxTier     int
	Stars       int
	Exposure    float32 // fraction of the dirty-water limit reached
}

// HUDActions reports what the user changed through the HUD controls.
type HUDActions struct {
	TogglePause bool
	Speed       int
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	maxSpeed int
}

// NewHUD creates a new HUD renderer. maxSpeed bounds the speed slider.
func NewHUD(maxSpeed int) *HUD {
	if maxSpeed < 1 {
		maxSpeed = 1
	}
	return &HUD{
		renderer: NewRenderer(),
		maxSpeed: maxSpeed,
	}
}

// Draw renders the HUD and its controls.
func (h *HUD) Draw(data HUDData) HUDActions {
	actions := HUDActions{Speed: data.Speed}

	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Prey: %d | Predators: %d | Plankton: %d/%d | Algae: %d",
			data.Counts[components.SpeciesPrey],
			data.Counts[components.SpeciesPredator],
			data.Counts[components.SpeciesPlanktonBlue],
			data.Counts[components.SpeciesPlanktonPurple],
			data.Counts[components.SpeciesAlgae]),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	if data.PlayerAlive {
		h.drawPlayer(data)
	} else {
		rl.DrawText("Player: waiting to respawn", 10, 100, 14, rl.Gray)
	}

	// Pause button and speed slider
	if gui.Button(rl.Rectangle{X: 10, Y: 150, Width: 80, Height: 24}, toggleText(data.Paused, "Resume", "Pause")) {
		actions.TogglePause = true
	}
	speed := gui.SliderBar(
		rl.Rectangle{X: 130, Y: 150, Width: 160, Height: 24},
		"1x", fmt.Sprintf("%dx", h.maxSpeed),
		float32(data.Speed), 1, float32(h.maxSpeed),
	)
	actions.Speed = int(speed + 0.5)

	return actions
}

// drawPlayer renders the player's tier, stars and exposure.
func (h *HUD) drawPlayer(data HUDData) {
	r := h.renderer
	y := int32(100)
	y = r.DrawTierPips(10, y, "Tier", data.PlayerTier, data.MaxTier)
	rl.DrawText(fmt.Sprintf("Stars: %d", data.Stars), 10, y, 14, r.Theme.PipFull)
	if data.Exposure > 0 {
		r.DrawBar(110, y, "Dirty", data.Exposure, 200)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

// PerfPanel renders the per-phase tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, bodies int) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg %s  p95 %s  %.0f t/s  %d bodies",
		stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond),
		stats.TicksPerSecond, bodies), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range telemetry.Phases() {
		st := stats.Phase(ph)

		color := rl.LightGray
		switch {
		case st.Pct > 40:
			color = rl.Red
		case st.Pct > 20:
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-14s %8s %5.1f%%", ph, st.Avg.Round(time.Microsecond), st.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}
