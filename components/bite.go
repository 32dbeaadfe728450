package components

// BiteClock gates how often an organism may bite and counts bites toward growth.
type BiteClock struct {
	NextBiteAt  float64 // sim seconds
	Bites       int     // accumulated toward the next tier
	BitesToGrow int
	Cooldown    float64

	// Mouth state. MouthCloseAt is only meaningful while closeScheduled is set.
	MouthOpen      bool
	MouthCloseAt   float64
	closeScheduled bool
}

// NewBiteClock creates a clock that can bite immediately.
func NewBiteClock(cooldown float64, bitesToGrow int) BiteClock {
	if bitesToGrow < 1 {
		bitesToGrow = 1
	}
	return BiteClock{Cooldown: cooldown, BitesToGrow: bitesToGrow}
}

// Ready reports whether the cooldown has elapsed at time now.
func (b *BiteClock) Ready(now float64) bool {
	return now >= b.NextBiteAt
}

// ScheduleClose opens the mouth and arranges for it to close at t.
func (b *BiteClock) ScheduleClose(t float64) {
	b.MouthOpen = true
	b.MouthCloseAt = t
	b.closeScheduled = true
}

// CloseScheduled reports whether a close time is pending.
func (b *BiteClock) CloseScheduled() bool {
	return b.closeScheduled
}

// CloseDue closes the mouth if the scheduled time has passed.
// Returns true if the mouth closed on this call.
func (b *BiteClock) CloseDue(now float64) bool {
	if !b.closeScheduled || now < b.MouthCloseAt {
		return false
	}
	b.CloseMouth()
	return true
}

// CloseMouth closes the mouth and cancels any scheduled close.
func (b *BiteClock) CloseMouth() {
	b.MouthOpen = false
	b.closeScheduled = false
	b.MouthCloseAt = 0
}
