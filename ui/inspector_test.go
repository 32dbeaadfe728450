package ui

import (
	"testing"

	"github.com/pthm-cable/shoal/components"
)

func TestInspectorSectionVisibility(t *testing.T) {
	r := NewRenderer()
	sections := inspectorSections()

	algae := &InspectorData{Species: components.SpeciesAlgae, Tier: 2, MaxTier: 3, Units: 2, TotalUnits: 3}
	fish := &InspectorData{Species: components.SpeciesPrey, HasBiteClock: true, HasSensor: true, BitesToGrow: 3}

	tests := []struct {
		name    string
		data    *InspectorData
		section string
		visible bool
	}{
		{"algae has no motion", algae, "motion", false},
		{"algae has no mouth", algae, "mouth", false},
		{"algae has a body", algae, "body", true},
		{"fish has motion", fish, "motion", true},
		{"fish has a mouth", fish, "mouth", true},
	}
	for _, tt := range tests {
		var sd SectionDescriptor
		for _, s := range sections {
			if s.ID == tt.section {
				sd = s
			}
		}
		if sd.ID == "" {
			t.Fatalf("section %q not found", tt.section)
		}
		h := r.SectionHeight(sd, tt.data)
		if (h > 0) != tt.visible {
			t.Errorf("%s: SectionHeight = %d, visible want %v", tt.name, h, tt.visible)
		}
	}
}

func TestSectionHeightSkipsHiddenFields(t *testing.T) {
	r := NewRenderer()
	sd := SectionDescriptor{
		Title: "Test",
		Fields: []FieldDescriptor{
			{ID: "a", Widget: WidgetText},
			{ID: "b", Widget: WidgetBar},
			{ID: "c", Widget: WidgetText, Visible: func(any) bool { return false }},
		},
	}
	th := r.Theme
	want := 4 + th.LineHeight + th.LineHeight + th.LineHeight + 2
	if got := r.SectionHeight(sd, nil); got != want {
		t.Errorf("SectionHeight() = %d, want %d", got, want)
	}
}
