package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	GlyphWidth  = 16
	GlyphHeight = 16
	AtlasCols   = 16
	AtlasRows   = 16
)

// Glyph codes outside printable ASCII that the HUD uses.
const (
	GlyphShade  byte = 176 // ░ empty part of a bar
	GlyphRule   byte = 196 // ─ panel separator
	GlyphBlock  byte = 219 // █ filled part of a bar
	GlyphSquare byte = 254 // ■ ship marker
)

// FontAtlas holds the HUD glyphs as cached sub-images of one texture.
type FontAtlas struct {
	image  *ebiten.Image
	glyphs [256]*ebiten.Image
}

// NewFontAtlas renders printable ASCII with basicfont.Face7x13 and draws
// the few block glyphs by hand.
func NewFontAtlas() *FontAtlas {
	img := image.NewNRGBA(image.Rect(0, 0, AtlasCols*GlyphWidth, AtlasRows*GlyphHeight))
	face := basicfont.Face7x13

	for code := 0; code < 256; code++ {
		cx := (code % AtlasCols) * GlyphWidth
		cy := (code / AtlasCols) * GlyphHeight
		switch {
		case code >= 32 && code <= 126:
			drawFontGlyph(img, face, cx, cy, rune(code))
		default:
			drawBlockGlyph(img, cx, cy, byte(code))
		}
	}

	eimg := ebiten.NewImageFromImage(img)
	a := &FontAtlas{image: eimg}
	for code := 0; code < 256; code++ {
		x := (code % AtlasCols) * GlyphWidth
		y := (code / AtlasCols) * GlyphHeight
		a.glyphs[code] = eimg.SubImage(image.Rect(x, y, x+GlyphWidth, y+GlyphHeight)).(*ebiten.Image)
	}
	return a
}

// Glyph returns the cached sub-image for a glyph code.
func (a *FontAtlas) Glyph(code byte) *ebiten.Image {
	return a.glyphs[code]
}

// drawFontGlyph centres a 7x13 glyph in its 16x16 cell.
func drawFontGlyph(img *image.NRGBA, face font.Face, cellX, cellY int, r rune) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(cellX+4, cellY+13),
	}
	d.DrawString(string(r))
}

func drawBlockGlyph(img *image.NRGBA, cellX, cellY int, code byte) {
	w := color.NRGBA{255, 255, 255, 255}
	fill := func(x0, y0, x1, y1 int, keep func(x, y int) bool) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				if keep == nil || keep(x, y) {
					img.SetNRGBA(cellX+x, cellY+y, w)
				}
			}
		}
	}

	switch code {
	case GlyphShade:
		fill(0, 0, GlyphWidth, GlyphHeight, func(x, y int) bool { return (x+y)%4 == 0 })
	case GlyphRule:
		fill(0, 7, GlyphWidth, 9, nil)
	case GlyphBlock:
		fill(0, 0, GlyphWidth, GlyphHeight, nil)
	case GlyphSquare:
		fill(4, 4, 12, 12, nil)
	}
}
