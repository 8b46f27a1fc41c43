package debounce

import "time"

const (
	// LightToggle is the minimum spacing between Space presses on a light
	LightToggle = 500 * time.Millisecond
	// Toggle is the minimum spacing between Space presses on other tiles
	Toggle = 200 * time.Millisecond
	// Brightness is the minimum spacing between brightness presses in one direction
	Brightness = 50 * time.Millisecond
)

// Gate rejects events that arrive too soon after the last accepted event with
// the same key. Rejected events do not move the window. A Gate is not safe for
// concurrent use.
type Gate struct {
	last map[string]time.Time
	now  func() time.Time
}

// NewGate creates a Gate reading the wall clock.
func NewGate() *Gate {
	return NewGateWithClock(time.Now)
}

// NewGateWithClock creates a Gate with an injected clock.
func NewGateWithClock(now func() time.Time) *Gate {
	return &Gate{last: make(map[string]time.Time), now: now}
}

// Allow reports whether an event for key may proceed. An accepted event
// records its time; window is measured from the last accepted one.
func (g *Gate) Allow(key string, window time.Duration) bool {
	t := g.now()
	if last, ok := g.last[key]; ok && t.Sub(last) < window {
		return false
	}
	g.last[key] = t
	return true
}

// Reset forgets the last event for key.
func (g *Gate) Reset(key string) {
	delete(g.last, key)
}
