package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Cell is one character cell of the HUD.
type Cell struct {
	Glyph byte  // atlas code
	FG    uint8 // palette index
	BG    uint8 // palette index; black is transparent over the world layer
}

// CellBuffer is the HUD drawn over the world view.
type CellBuffer struct {
	Cols  int
	Rows  int
	Cells []Cell
}

// NewCellBuffer creates a blank buffer.
func NewCellBuffer(cols, rows int) *CellBuffer {
	b := &CellBuffer{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	b.Clear()
	return b
}

// Set writes a single cell. Out-of-bounds writes are ignored.
func (b *CellBuffer) Set(x, y int, glyph byte, fg, bg uint8) {
	if x >= 0 && x < b.Cols && y >= 0 && y < b.Rows {
		b.Cells[y*b.Cols+x] = Cell{Glyph: glyph, FG: fg, BG: bg}
	}
}

// Get reads a single cell. Out-of-bounds reads return a blank cell.
func (b *CellBuffer) Get(x, y int) Cell {
	if x >= 0 && x < b.Cols && y >= 0 && y < b.Rows {
		return b.Cells[y*b.Cols+x]
	}
	return Cell{}
}

// Clear resets every cell to a transparent blank.
func (b *CellBuffer) Clear() {
	for i := range b.Cells {
		b.Cells[i] = Cell{Glyph: ' ', FG: ColorWhite, BG: ColorBlack}
	}
}

// WriteString writes s from (x, y) and returns the column after the last cell.
// Runes outside the atlas become '?'.
func (b *CellBuffer) WriteString(x, y int, s string, fg, bg uint8) int {
	for _, ch := range s {
		if ch > 255 {
			ch = '?'
		}
		b.Set(x, y, byte(ch), fg, bg)
		x++
	}
	return x
}

// Bar draws a width-cell gauge filled to frac (0..1).
func (b *CellBuffer) Bar(x, y, width int, frac float64, fg uint8) {
	filled := int(frac*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	for i := 0; i < width; i++ {
		if i < filled {
			b.Set(x+i, y, GlyphBlock, fg, ColorBlack)
		} else {
			b.Set(x+i, y, GlyphShade, ColorDarkGray, ColorBlack)
		}
	}
}

// Rule draws a horizontal separator.
func (b *CellBuffer) Rule(x, y, width int, fg uint8) {
	for i := 0; i < width; i++ {
		b.Set(x+i, y, GlyphRule, fg, ColorBlack)
	}
}

// GridRenderer draws a CellBuffer to an ebiten screen.
type GridRenderer struct {
	Atlas   *FontAtlas
	CellW   int
	CellH   int
	bgPixel *ebiten.Image // 1x1 white pixel for backgrounds
}

// NewGridRenderer creates a renderer with the given atlas and cell size.
func NewGridRenderer(atlas *FontAtlas, cellW, cellH int) *GridRenderer {
	px := ebiten.NewImage(1, 1)
	px.Fill(color.White)
	return &GridRenderer{Atlas: atlas, CellW: cellW, CellH: cellH, bgPixel: px}
}

// Draw renders the buffer. Blank cells on black are skipped so the world shows through.
func (r *GridRenderer) Draw(screen *ebiten.Image, buf *CellBuffer) {
	for y := 0; y < buf.Rows; y++ {
		for x := 0; x < buf.Cols; x++ {
			cell := buf.Cells[y*buf.Cols+x]
			px := float64(x * r.CellW)
			py := float64(y * r.CellH)

			if cell.BG != ColorBlack {
				var op ebiten.DrawImageOptions
				op.GeoM.Scale(float64(r.CellW), float64(r.CellH))
				op.GeoM.Translate(px, py)
				op.ColorScale.ScaleWithColor(Palette[cell.BG])
				screen.DrawImage(r.bgPixel, &op)
			}
			if cell.Glyph != ' ' && cell.Glyph != 0 {
				r.drawGlyph(screen, cell.Glyph, Palette[cell.FG], px, py, 1)
			}
		}
	}
}

// DrawText writes a label at sub-pixel screen coordinates, in any color.
// Labels follow planets and ships, so they are not aligned to the grid.
func (r *GridRenderer) DrawText(screen *ebiten.Image, s string, px, py float64, clr color.Color, scale float64) {
	step := float64(r.CellW) * scale * 0.6
	for _, ch := range s {
		if ch > 255 {
			ch = '?'
		}
		if ch != ' ' {
			r.drawGlyph(screen, byte(ch), clr, px, py, scale)
		}
		px += step
	}
}

// TextWidth is the pixel width DrawText uses for s.
func (r *GridRenderer) TextWidth(s string, scale float64) float64 {
	return float64(len([]rune(s))) * float64(r.CellW) * scale * 0.6
}

func (r *GridRenderer) drawGlyph(screen *ebiten.Image, code byte, clr color.Color, px, py, scale float64) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(r.CellW)/GlyphWidth*scale, float64(r.CellH)/GlyphHeight*scale)
	op.GeoM.Translate(px, py)
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(r.Atlas.Glyph(code), &op)
}
