package telemetry

import (
	"testing"

	"github.com/pthm-cable/shoal/components"
)

func TestBusFanOut(t *testing.T) {
	b := NewBus()
	a, err := b.Subscribe("a", 4)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	c, err := b.Subscribe("c", 4)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	b.Publish(NewDeathEvent(7, 3, components.SpeciesPrey))

	for _, s := range []*Subscription{a, c} {
		select {
		case ev := <-s.C:
			if ev.Type != EventDeath || ev.ID != 3 || ev.Tick != 7 {
				t.Errorf("%s got %+v, want death of 3 at tick 7", s.Name, ev)
			}
		default:
			t.Errorf("%s received nothing", s.Name)
		}
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	b := NewBus()
	slow, _ := b.Subscribe("slow", 2)
	fast, _ := b.Subscribe("fast", 10)

	// Nobody reads; Publish must still return
	for i := 0; i < 5; i++ {
		b.Publish(NewGrowthEvent(int32(i), 1, components.SpeciesPrey, 2))
	}

	if got := slow.Dropped(); got != 3 {
		t.Errorf("slow dropped = %d, want 3", got)
	}
	if got := fast.Dropped(); got != 0 {
		t.Errorf("fast dropped = %d, want 0", got)
	}
	if got := b.Dropped(); got != 3 {
		t.Errorf("bus dropped = %d, want 3", got)
	}
	if got := b.Published(); got != 5 {
		t.Errorf("published = %d, want 5", got)
	}

	// The slow queue keeps the oldest events
	if ev := <-slow.C; ev.Tick != 0 {
		t.Errorf("first queued tick = %d, want 0", ev.Tick)
	}
}

func TestBusSubscribeErrors(t *testing.T) {
	b := NewBus()
	if _, err := b.Subscribe("", 1); err == nil {
		t.Error("empty name accepted")
	}
	if _, err := b.Subscribe("x", 1); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := b.Subscribe("x", 1); err == nil {
		t.Error("duplicate name accepted")
	}
	b.Close()
	if _, err := b.Subscribe("y", 1); err == nil {
		t.Error("subscribe after close accepted")
	}
}

func TestBusUnsubscribeAndClose(t *testing.T) {
	b := NewBus()
	s, _ := b.Subscribe("x", 1)
	b.Unsubscribe("x")
	if _, ok := <-s.C; ok {
		t.Error("channel still open after Unsubscribe")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d, want 0", b.Len())
	}

	s2, _ := b.Subscribe("y", 1)
	b.Close()
	if _, ok := <-s2.C; ok {
		t.Error("channel still open after Close")
	}
	b.Publish(NewDeathEvent(1, 1, components.SpeciesPrey)) // must not panic
	b.Close()
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		t    EventType
		want string
	}{
		{EventGrowthTierChanged, "growth_tier_changed"},
		{EventResourceConsumed, "resource_consumed"},
		{EventDeath, "death"},
		{EventType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
