package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shoal/components"
)

// InspectorData is a snapshot of one organism for the inspector panel.
type InspectorData struct {
	ID      uint32
	Species components.Species
	State   components.BehaviorState
	Source  components.SteeringSource
	Age     float64

	Tier    int
	MaxTier int
	Scale   float64

	Units        int
	TotalUnits   int
	Regenerating bool

	Speed   float64
	Heading float64

	HasSensor bool
	InRange   int
	TargetID  uint32 // 0 = none

	HasBiteClock bool
	Bites        int
	BitesToGrow  int
	Cooldown     float64 // seconds until the next bite is allowed
	MouthOpen    bool

	FlockSize int // members of the organism's flock, 0 when not flocking
}

// inspectorSections describes the inspector layout.
func inspectorSections() []SectionDescriptor {
	d := func(data any) *InspectorData { return data.(*InspectorData) }

	return []SectionDescriptor{
		{
			ID:    "state",
			Title: "State",
			Fields: []FieldDescriptor{
				{ID: "behavior", Label: "Behavior", Widget: WidgetText,
					TextGetter: func(data any) string { return d(data).State.String() }},
				{ID: "steering", Label: "Steering", Widget: WidgetText,
					TextGetter: func(data any) string { return d(data).Source.String() }},
				{ID: "age", Label: "Age", Widget: WidgetText, Format: "%.1fs",
					Getter: func(data any) float32 { return float32(d(data).Age) }},
			},
		},
		{
			ID:    "body",
			Title: "Body",
			Fields: []FieldDescriptor{
				{ID: "tier", Label: "Tier", Widget: WidgetTierPips,
					Getter:    func(data any) float32 { return float32(d(data).Tier) },
					MaxGetter: func(data any) float32 { return float32(d(data).MaxTier) }},
				{ID: "scale", Label: "Scale", Widget: WidgetText, Format: "%.2f",
					Getter: func(data any) float32 { return float32(d(data).Scale) }},
				{ID: "units", Label: "Units", Widget: WidgetUnitsBar,
					Getter:    func(data any) float32 { return float32(d(data).Units) },
					MaxGetter: func(data any) float32 { return float32(d(data).TotalUnits) }},
				{ID: "regen", Label: "Regrowing", Widget: WidgetText,
					Visible:    func(data any) bool { return d(data).Regenerating },
					TextGetter: func(any) string { return "yes" }},
			},
		},
		{
			ID:    "motion",
			Title: "Motion",
			Visible: func(data any) bool {
				return d(data).Species != components.SpeciesAlgae
			},
			Fields: []FieldDescriptor{
				{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.2f",
					Getter: func(data any) float32 { return float32(d(data).Speed) }},
				{ID: "heading", Label: "Heading", Widget: WidgetText, Format: "%.0f deg",
					Getter: func(data any) float32 { return float32(d(data).Heading * 180 / math.Pi) }},
				{ID: "flock", Label: "Flock", Widget: WidgetText, Format: "%.0f",
					Visible: func(data any) bool { return d(data).FlockSize > 0 },
					Getter:  func(data any) float32 { return float32(d(data).FlockSize) }},
			},
		},
		{
			ID:      "mouth",
			Title:   "Mouth",
			Visible: func(data any) bool { return d(data).HasBiteClock },
			Fields: []FieldDescriptor{
				{ID: "open", Label: "Open", Widget: WidgetText,
					TextGetter: func(data any) string { return toggleText(d(data).MouthOpen, "yes", "no") }},
				{ID: "in_range", Label: "In range", Widget: WidgetText, Format: "%.0f",
					Visible: func(data any) bool { return d(data).HasSensor },
					Getter:  func(data any) float32 { return float32(d(data).InRange) }},
				{ID: "target", Label: "Target", Widget: WidgetText,
					TextGetter: func(data any) string {
						if id := d(data).TargetID; id != 0 {
							return fmt.Sprintf("#%d", id)
						}
						return "-"
					}},
				{ID: "bites", Label: "Bites", Widget: WidgetUnitsBar,
					Getter:    func(data any) float32 { return float32(d(data).Bites) },
					MaxGetter: func(data any) float32 { return float32(d(data).BitesToGrow) }},
				{ID: "cooldown", Label: "Cooldown", Widget: WidgetText, Format: "%.2fs",
					Visible: func(data any) bool { return d(data).Cooldown > 0 },
					Getter:  func(data any) float32 { return float32(d(data).Cooldown) }},
			},
		},
	}
}

// Inspector renders the organism inspection panel.
type Inspector struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		sections: inspectorSections(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data *InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	height := padding*2 + 24
	for _, sd := range ins.sections {
		height += r.SectionHeight(sd, data)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("#%d %s", data.ID, data.Species), ins.x+padding, y, 18, rl.White)
	y += 24

	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, data, contentWidth)
	}
	return y
}
