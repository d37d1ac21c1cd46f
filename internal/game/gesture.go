package game

import "time"

// GestureKind is what a press turned out to be.
type GestureKind uint8

const (
	GestureNone GestureKind = iota
	GestureTap
	GestureHold
)

// Gesture turns press/release timings into taps and holds.
// A hold fires once, as soon as the press reaches the threshold; releasing afterwards is silent.
type Gesture struct {
	Threshold time.Duration

	pressed bool
	held    bool
	start   time.Duration
	x, y    float64
}

// NewGesture creates a classifier with the given hold threshold.
func NewGesture(threshold time.Duration) *Gesture {
	return &Gesture{Threshold: threshold}
}

// Press starts a gesture at the given time and position.
func (g *Gesture) Press(now time.Duration, x, y float64) {
	g.pressed = true
	g.held = false
	g.start = now
	g.x, g.y = x, y
}

// Poll reports a hold while the press is still down.
func (g *Gesture) Poll(now time.Duration) GestureKind {
	if !g.pressed || g.held {
		return GestureNone
	}
	if now-g.start >= g.Threshold {
		g.held = true
		return GestureHold
	}
	return GestureNone
}

// Release ends the gesture; a short press is a tap.
func (g *Gesture) Release(now time.Duration) GestureKind {
	if !g.pressed {
		return GestureNone
	}
	g.pressed = false
	if g.held {
		return GestureNone
	}
	if now-g.start >= g.Threshold {
		g.held = true
		return GestureHold
	}
	return GestureTap
}

// Pressed reports whether a gesture is in progress.
func (g *Gesture) Pressed() bool { return g.pressed }

// Origin returns where the press started.
func (g *Gesture) Origin() (float64, float64) { return g.x, g.y }
