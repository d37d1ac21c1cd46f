package render

import (
	"image/color"

	"github.com/spacehole-rogue/orbitminer/internal/game"
)

// CGA 16-color palette indices used by the HUD.
const (
	ColorBlack        = 0
	ColorBlue         = 1
	ColorGreen        = 2
	ColorCyan         = 3
	ColorRed          = 4
	ColorMagenta      = 5
	ColorBrown        = 6
	ColorLightGray    = 7
	ColorDarkGray     = 8
	ColorLightBlue    = 9
	ColorLightGreen   = 10
	ColorLightCyan    = 11
	ColorLightRed     = 12
	ColorLightMagenta = 13
	ColorYellow       = 14
	ColorWhite        = 15
)

// Palette contains the classic CGA 16-color palette.
var Palette = [16]color.RGBA{
	{0, 0, 0, 255},
	{0, 0, 170, 255},
	{0, 170, 0, 255},
	{0, 170, 170, 255},
	{170, 0, 0, 255},
	{170, 0, 170, 255},
	{170, 85, 0, 255},
	{170, 170, 170, 255},
	{85, 85, 85, 255},
	{85, 85, 255, 255},
	{85, 255, 85, 255},
	{85, 255, 255, 255},
	{255, 85, 85, 255},
	{255, 85, 255, 255},
	{255, 255, 85, 255},
	{255, 255, 255, 255},
}

// Space is the background behind the world layer.
var Space = color.RGBA{6, 8, 20, 255}

// rarityIndex maps stock rarity tiers onto the nearest palette entry.
var rarityIndex = map[string]uint8{
	game.RarityCommon:    ColorLightGray,
	game.RarityUncommon:  ColorLightGreen,
	game.RarityRare:      ColorLightBlue,
	game.RarityEpic:      ColorLightMagenta,
	game.RarityLegendary: ColorYellow,
	game.RarityMythic:    ColorLightRed,
}

// RarityColor returns the HUD color for a rarity name.
func RarityColor(name string) uint8 {
	if c, ok := rarityIndex[name]; ok {
		return c
	}
	return ColorWhite
}

// PriorityColor returns the HUD color for a comms line.
func PriorityColor(m game.Message) uint8 {
	switch m.Priority {
	case game.MsgWarning:
		return ColorYellow
	case game.MsgDiscovery:
		return ColorLightGreen
	case game.MsgDelivery:
		if m.Rarity == "" {
			return ColorBrown
		}
		return RarityColor(m.Rarity)
	case game.MsgEconomy:
		return ColorWhite
	default:
		return ColorCyan
	}
}

// Fade scales a color's alpha by a, premultiplied as ebiten expects.
func Fade(c game.RGB, a float64) color.RGBA {
	a = max(0, min(1, a))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(255 * a),
	}
}
