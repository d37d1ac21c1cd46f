package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGestureShortPressIsTap(t *testing.T) {
	g := NewGesture(500 * time.Millisecond)
	g.Press(time.Second, 4, 5)
	assert.True(t, g.Pressed())
	assert.Equal(t, GestureNone, g.Poll(time.Second+200*time.Millisecond))
	assert.Equal(t, GestureTap, g.Release(time.Second+499*time.Millisecond))
	assert.False(t, g.Pressed())

	x, y := g.Origin()
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 5.0, y)
}

func TestGestureHoldFiresOnceWhilePressed(t *testing.T) {
	g := NewGesture(500 * time.Millisecond)
	g.Press(0, 0, 0)
	assert.Equal(t, GestureHold, g.Poll(500*time.Millisecond))
	assert.Equal(t, GestureNone, g.Poll(900*time.Millisecond))
	assert.Equal(t, GestureNone, g.Release(time.Second))
}

func TestGestureLongReleaseWithoutPollIsHold(t *testing.T) {
	g := NewGesture(500 * time.Millisecond)
	g.Press(0, 0, 0)
	assert.Equal(t, GestureHold, g.Release(700*time.Millisecond))
}

func TestGestureIgnoresStrayRelease(t *testing.T) {
	g := NewGesture(500 * time.Millisecond)
	assert.Equal(t, GestureNone, g.Release(time.Second))
	assert.Equal(t, GestureNone, g.Poll(time.Second))
}
