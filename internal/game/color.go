package game

import (
	"image/color"
	"math/rand/v2"

	"github.com/spacehole-rogue/orbitminer/internal/world"
)

// RGB is an opaque color. Packing into integers is left to the renderer.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBFromConfig converts a balance-file color, clamping each channel.
func RGBFromConfig(c world.Color) RGB {
	return RGB{R: clampChannel(c[0]), G: clampChannel(c[1]), B: clampChannel(c[2])}
}

// RGBA returns the color for image and ebiten APIs.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Offset shifts every channel by delta, clamped to [0,255].
func (c RGB) Offset(delta int) RGB {
	return RGB{
		R: clampChannel(int(c.R) + delta),
		G: clampChannel(int(c.G) + delta),
		B: clampChannel(int(c.B) + delta),
	}
}

// Jitter shifts each channel independently by up to ±amount.
func (c RGB) Jitter(rng *rand.Rand, amount int) RGB {
	if amount <= 0 {
		return c
	}
	d := func() int { return rng.IntN(2*amount+1) - amount }
	return RGB{
		R: clampChannel(int(c.R) + d()),
		G: clampChannel(int(c.G) + d()),
		B: clampChannel(int(c.B) + d()),
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
