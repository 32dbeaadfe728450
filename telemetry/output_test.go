package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", "run")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManagerWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	runID := NewRunID()
	om, err := NewOutputManager(dir, runID)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int32(1); i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{RunID: runID, WindowEndTick: i * 600, Prey: 5}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	lt := NewLifetimeTracker(runID)
	lt.Register(7, components.SpeciesPrey, 0, 1)
	if err := om.WriteLifetime(lt.Remove(7, 120, 0.5)); err != nil {
		t.Fatalf("WriteLifetime: %v", err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,window_end") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], runID+",1800") {
		t.Errorf("last row = %q, want run id and window 1800", lines[3])
	}

	data, err = os.ReadFile(filepath.Join(dir, "lifetimes.csv"))
	if err != nil {
		t.Fatalf("reading lifetimes.csv: %v", err)
	}
	if !strings.Contains(string(data), ",7,prey,0,120,60,") {
		t.Errorf("lifetimes.csv = %q, want prey 7 living 60s", data)
	}

	id, err := os.ReadFile(filepath.Join(dir, "run_id"))
	if err != nil || strings.TrimSpace(string(id)) != runID {
		t.Errorf("run_id file = %q, %v", id, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml: %v", err)
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker("run")
	lt.Register(1, components.SpeciesPredator, 10, 2)
	lt.Register(2, components.SpeciesPrey, 10, 1)

	lt.RecordBiteAttempt(1)
	lt.RecordBiteAttempt(1)
	lt.RecordBiteHit(1, 2)
	lt.RecordTier(1, 3, true)
	lt.RecordTier(1, 2, false)
	lt.RecordBiteAttempt(99) // unknown ids are ignored

	s := lt.Remove(1, 70, 0.5)
	if s == nil {
		t.Fatal("Remove returned nil")
	}
	if s.BitesAttempted != 2 || s.BitesHit != 1 {
		t.Errorf("bites = %d/%d, want 1/2", s.BitesHit, s.BitesAttempted)
	}
	if s.PeakTier != 3 || s.Growths != 1 || s.Shrinks != 1 {
		t.Errorf("tiers = peak %d growths %d shrinks %d", s.PeakTier, s.Growths, s.Shrinks)
	}
	if s.SurvivalTimeSec != 30 {
		t.Errorf("survival = %v, want 30", s.SurvivalTimeSec)
	}
	if lt.Get(2).TimesBitten != 1 {
		t.Errorf("victim bitten = %d, want 1", lt.Get(2).TimesBitten)
	}
	if lt.Remove(1, 80, 0.5) != nil {
		t.Error("second Remove returned stats")
	}
	if lt.Count() != 1 {
		t.Errorf("Count = %d, want 1", lt.Count())
	}
}
