// Package ui provides a descriptor-driven UI for the tank viewer.
// Panels are described by field metadata instead of hard-coded layouts, so
// new organism data only needs a new descriptor.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText     WidgetType = iota // Plain text with format string
	WidgetBar                        // Progress bar [0, 1]
	WidgetUnitsBar                   // current/max bar with color thresholds
	WidgetTierPips                   // one pip per tier, filled up to the current one
	WidgetSection                    // Section header
	WidgetSpacer                     // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID     string     // Unique identifier for the field
	Label  string     // Display label
	Widget WidgetType // How to render
	Format string     // Printf format for text (e.g., "%.2f")

	Visible    func(any) bool    // Optional visibility check (nil = always visible)
	Getter     func(any) float32 // Value extractor (for numeric fields)
	MaxGetter  func(any) float32 // Upper bound for units bars and tier pips
	TextGetter func(any) string  // Value extractor (for text fields)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string            // Unique identifier
	Title   string            // Section header text
	Fields  []FieldDescriptor // Fields in this section
	Visible func(any) bool    // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	BarFillLow    rl.Color
	BarFillMedium rl.Color
	BarFillHigh   rl.Color
	PipEmpty      rl.Color
	PipFull       rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 10, G: 28, B: 40, A: 230},
		PanelBorder:   rl.Color{R: 50, G: 90, B: 110, A: 255},
		SectionHeader: rl.Color{R: 250, G: 210, B: 90, A: 255},
		LabelColor:    rl.LightGray,
		ValueColor:    rl.RayWhite,
		BarBg:         rl.Color{R: 30, G: 45, B: 55, A: 255},
		BarFill:       rl.Color{R: 90, G: 170, B: 210, A: 255},
		BarFillLow:    rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium: rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:   rl.Color{R: 100, G: 200, B: 120, A: 255},
		PipEmpty:      rl.Color{R: 45, G: 60, B: 70, A: 255},
		PipFull:       rl.Color{R: 250, G: 200, B: 80, A: 255},

		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
