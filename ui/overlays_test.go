package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayToggle(t *testing.T) {
	reg := NewOverlayRegistry()

	if reg.IsEnabled(OverlaySensors) {
		t.Fatal("overlays should start disabled")
	}
	if got := reg.Toggle(OverlaySensors); !got {
		t.Errorf("Toggle() = %v, want true", got)
	}
	if got := reg.Toggle(OverlaySensors); got {
		t.Errorf("second Toggle() = %v, want false", got)
	}
	if got := reg.Toggle("missing"); got {
		t.Errorf("Toggle(missing) = %v, want false", got)
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	reg.SetEnabled(OverlayCurrent, true)
	reg.Toggle(OverlayGrid)

	if reg.IsEnabled(OverlayCurrent) {
		t.Error("enabling the grid should disable the current overlay")
	}
	if !reg.IsEnabled(OverlayGrid) {
		t.Error("grid overlay should be enabled")
	}
}

func TestOverlayHandleKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	tests := []struct {
		key     int32
		id      OverlayID
		handled bool
	}{
		{rl.KeyOne, OverlaySensors, true},
		{rl.KeyTwo, OverlayFlock, true},
		{rl.KeyF3, OverlayPerf, true},
		{rl.KeyQ, "", false},
	}
	for _, tt := range tests {
		id, state, handled := reg.HandleKeyPress(tt.key)
		if handled != tt.handled || id != tt.id {
			t.Errorf("HandleKeyPress(%d) = (%q, %v), want (%q, %v)", tt.key, id, handled, tt.id, tt.handled)
		}
		if handled && !state {
			t.Errorf("HandleKeyPress(%d) should enable %q", tt.key, id)
		}
	}

	enabled := reg.EnabledOverlays()
	if len(enabled) != 3 {
		t.Errorf("EnabledOverlays() = %v, want 3 entries", enabled)
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()

	cats := reg.Categories()
	want := []Category{CategoryAgents, CategoryTank, CategoryDebug}
	if len(cats) != len(want) {
		t.Fatalf("Categories() = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, cats[i], want[i])
		}
	}
	if n := len(reg.ByCategory(CategoryAgents)); n != 4 {
		t.Errorf("len(ByCategory(agents)) = %d, want 4", n)
	}
	if got := CategoryTank.Label(); got != "Tank" {
		t.Errorf("Label() = %q, want Tank", got)
	}
}

func TestOverlayRegisterCustom(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.Register(Overlay{ID: "trails", Name: "Trails", Category: CategoryDebug})

	if _, _, handled := reg.HandleKeyPress(0); handled {
		t.Error("an overlay without a hotkey should not handle key 0")
	}
	reg.SetEnabled("trails", true)
	if !reg.IsEnabled("trails") {
		t.Error("custom overlay should be enabled")
	}
	if n := len(reg.ByCategory(CategoryDebug)); n != 3 {
		t.Errorf("len(ByCategory(debug)) = %d, want 3", n)
	}
}
