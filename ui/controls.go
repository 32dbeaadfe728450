package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/telemetry"
)

// ControlsPanel lists the overlays and their hotkeys. Hidden until toggled.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Toggle flips visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

var (
	toggleOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	toggleOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
	keyColor  = rl.Color{R: 150, G: 150, B: 150, A: 255}
)

// Draw renders the panel and returns the y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}
	th := c.renderer.Theme
	cats := overlays.Categories()

	rows := int32(len(cats))
	for _, cat := range cats {
		rows += int32(len(overlays.ByCategory(cat)))
	}
	c.renderer.DrawPanel(c.x, c.y, c.width, (rows+1)*th.LineHeight+th.Padding*3)

	x := c.x + th.Padding
	inner := c.width - th.Padding*2
	y := c.y + th.Padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += th.LineHeight + 4

	for _, cat := range cats {
		rl.DrawText(cat.Label(), x, y, th.HeaderFontSize, th.SectionHeader)
		y += th.LineHeight
		for _, o := range overlays.ByCategory(cat) {
			on := overlays.IsEnabled(o.ID)
			box, text := toggleOff, th.LabelColor
			if on {
				box, text = toggleOn, rl.White
			}
			rl.DrawRectangle(x, y+2, 8, 8, box)
			rl.DrawText(o.Name, x+14, y, th.FontSize, text)
			if o.KeyLabel != "" {
				key := "[" + o.KeyLabel + "]"
				rl.DrawText(key, x+inner-rl.MeasureText(key, th.FontSize), y, th.FontSize, keyColor)
			}
			y += th.LineHeight
		}
		y += 4
	}
	return y
}

// WindowStatsPanel renders the most recent telemetry window.
type WindowStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewWindowStatsPanel creates a new window stats panel.
func NewWindowStatsPanel(x, y, width int32) *WindowStatsPanel {
	return &WindowStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (w *WindowStatsPanel) SetPosition(x, y int32) {
	w.x = x
	w.y = y
}

// Draw renders the panel. Nothing is drawn before the first window closes.
func (w *WindowStatsPanel) Draw(stats *telemetry.WindowStats) int32 {
	if stats == nil {
		return w.y
	}
	r := w.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*7 + padding*2 + 2
	r.DrawPanel(w.x, w.y, w.width, panelHeight)

	y := w.y + padding
	rl.DrawText(fmt.Sprintf("Window %d-%d", stats.WindowStartTick, stats.WindowEndTick), w.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	x := w.x + padding
	y = r.DrawLabelValue(x, y, "Bites", fmt.Sprintf("%d/%d (%.0f%%)", stats.BitesHit, stats.BitesAttempted, stats.HitRate*100))
	y = r.DrawLabelValue(x, y, "Eaten", fmt.Sprintf("plankton %d  algae %d  fish %d", stats.PlanktonEaten, stats.AlgaeEaten, stats.FishEaten))
	y = r.DrawLabelValue(x, y, "Births", fmt.Sprintf("%d  deaths %d", stats.Spawns, stats.Deaths))
	y = r.DrawLabelValue(x, y, "Growth", fmt.Sprintf("+%d  -%d  regrow %d", stats.Growths, stats.Shrinks, stats.Regrowth))
	y = r.DrawLabelValue(x, y, "Tiers", fmt.Sprintf("mean %.1f  p90 %.0f", stats.FishTierMean, stats.FishTierP90))

	return y
}
