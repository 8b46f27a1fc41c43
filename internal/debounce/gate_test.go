package debounce

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestGate(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		gaps   []time.Duration
		want   []bool
	}{
		{
			name:   "light presses within 500ms",
			window: LightToggle,
			gaps:   []time.Duration{0, 300 * time.Millisecond},
			want:   []bool{true, false},
		},
		{
			name:   "light presses at exactly 500ms",
			window: LightToggle,
			gaps:   []time.Duration{0, 500 * time.Millisecond},
			want:   []bool{true, true},
		},
		{
			name:   "rejected press does not extend window",
			window: Toggle,
			gaps:   []time.Duration{0, 150 * time.Millisecond, 60 * time.Millisecond},
			want:   []bool{true, false, true},
		},
		{
			name:   "brightness repeat",
			window: Brightness,
			gaps:   []time.Duration{0, 30 * time.Millisecond, 30 * time.Millisecond, 30 * time.Millisecond},
			want:   []bool{true, false, true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1700000000, 0)}
			g := NewGateWithClock(clock.now)
			for i, gap := range tt.gaps {
				clock.advance(gap)
				if got := g.Allow("light.kitchen", tt.window); got != tt.want[i] {
					t.Errorf("press %d: Allow() = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestGateKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	g := NewGateWithClock(clock.now)

	if !g.Allow("light.a", LightToggle) {
		t.Fatal("first press on light.a rejected")
	}
	if !g.Allow("light.b", LightToggle) {
		t.Error("press on light.b rejected by light.a's window")
	}

	g.Reset("light.a")
	if !g.Allow("light.a", LightToggle) {
		t.Error("press after Reset rejected")
	}
}
