package telemetry

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Subscription receives events from a Bus on C. C is closed when the
// subscription is removed or the bus closes.
type Subscription struct {
	Name string
	C    <-chan Event

	ch      chan Event
	dropped atomic.Uint64
}

// Dropped returns how many events this subscriber missed because its queue
// was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Bus fans lifecycle notifications out to subscribers. Publish never blocks:
// a subscriber whose queue is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	closed bool

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]*Subscription)}
}

// Subscribe registers a listener with a queue of buffer events.
func (b *Bus) Subscribe(name string, buffer int) (*Subscription, error) {
	if name == "" {
		return nil, fmt.Errorf("subscriber name cannot be empty")
	}
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("bus closed")
	}
	if _, exists := b.subs[name]; exists {
		return nil, fmt.Errorf("subscriber %s already exists", name)
	}
	ch := make(chan Event, buffer)
	s := &Subscription{Name: name, C: ch, ch: ch}
	b.subs[name] = s
	return s, nil
}

// Unsubscribe removes a listener and closes its channel.
func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subs[name]; ok {
		delete(b.subs, name)
		close(s.ch)
	}
}

// Publish delivers ev to every subscriber that has room.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	b.published.Add(1)
	for _, s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			// Log the first drop only; a stalled listener would flood the log
			if s.dropped.Add(1) == 1 {
				slog.Warn("notification_dropped", "subscriber", s.Name, "event", ev.Type.String())
			}
			b.dropped.Add(1)
		}
	}
}

// Published returns the number of events published.
func (b *Bus) Published() uint64 {
	return b.published.Load()
}

// Dropped returns the total number of undelivered events over all subscribers.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for name, s := range b.subs {
		close(s.ch)
		delete(b.subs, name)
	}
}
