package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panel widgets in one Theme.
type Renderer struct {
	Theme Theme
}

func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader returns the y of the next row.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

func (r *Renderer) label(x, y int32, label string) {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// DrawLabelValue draws "label: value" and returns the y of the next row.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.label(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// bar draws a labelled bar filled to frac with a caption on its right.
func (r *Renderer) bar(x, y, width int32, label string, frac float32, fill rl.Color, caption string) int32 {
	th := r.Theme
	bx := x + th.LabelWidth
	bw := width - th.LabelWidth - 50

	r.label(x, y, label)
	rl.DrawRectangle(bx, y+2, bw, th.BarHeight, th.BarBg)
	rl.DrawRectangle(bx, y+2, int32(float32(bw)*clampUnit(frac)), th.BarHeight, fill)
	rl.DrawText(caption, bx+bw+5, y, th.FontSize, th.ValueColor)
	return y + th.LineHeight + 2
}

// DrawBar draws a [0, 1] value.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = clampUnit(value)
	return r.bar(x, y, width, label, value, r.Theme.BarFill, fmt.Sprintf("%.2f", value))
}

// DrawUnitsBar draws current/max, going from green to red as it empties.
func (r *Renderer) DrawUnitsBar(x, y int32, label string, current, max float32, width int32) int32 {
	var frac float32
	if max > 0 {
		frac = clampUnit(current / max)
	}
	fill := r.Theme.BarFillHigh
	switch {
	case frac < 0.3:
		fill = r.Theme.BarFillLow
	case frac < 0.6:
		fill = r.Theme.BarFillMedium
	}
	return r.bar(x, y, width, label, frac, fill, fmt.Sprintf("%.0f/%.0f", current, max))
}

// DrawTierPips draws max pips with the first tier filled.
func (r *Renderer) DrawTierPips(x, y int32, label string, tier, max int) int32 {
	th := r.Theme
	r.label(x, y, label)
	px := x + th.LabelWidth
	for i := 1; i <= max; i++ {
		c := th.PipEmpty
		if i <= tier {
			c = th.PipFull
		}
		rl.DrawRectangle(px, y+2, th.BarHeight, th.BarHeight, c)
		px += th.BarHeight + 3
	}
	return y + th.LineHeight + 2
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.TextGetter != nil {
			text = fd.TextGetter(data)
		} else if fd.Getter != nil {
			text = fmt.Sprintf(fd.Format, fd.Getter(data))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)

	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, value(fd.Getter, data), width)

	case WidgetUnitsBar:
		return r.DrawUnitsBar(x, y, fd.Label, value(fd.Getter, data), value(fd.MaxGetter, data), width)

	case WidgetTierPips:
		return r.DrawTierPips(x, y, fd.Label, int(value(fd.Getter, data)), int(value(fd.MaxGetter, data)))

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + 6
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}

	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}

	return y + 4 // Small gap after section
}

// SectionHeight returns the height DrawSection will use for data.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return 0
	}
	h := int32(4)
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		switch fd.Widget {
		case WidgetBar, WidgetUnitsBar, WidgetTierPips:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight
		}
	}
	return h
}

func value(get func(any) float32, data any) float32 {
	if get == nil {
		return 0
	}
	return get(data)
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
