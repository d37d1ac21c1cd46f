package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spacehole-rogue/orbitminer/internal/fx"
	"github.com/spacehole-rogue/orbitminer/internal/game"
)

// Zoom limits for the world camera.
const (
	MinZoom = 0.15
	MaxZoom = 3.0
)

// Camera maps world coordinates onto the screen. (X, Y) is the world point
// at the centre of the screen.
type Camera struct {
	X, Y float64
	Zoom float64
	W, H int
}

// NewCamera centres on the origin, where the home planet sits.
func NewCamera(w, h int) *Camera {
	return &Camera{Zoom: 0.6, W: w, H: h}
}

func (c *Camera) WorldToScreen(x, y float64) (float64, float64) {
	return (x-c.X)*c.Zoom + float64(c.W)/2, (y-c.Y)*c.Zoom + float64(c.H)/2
}

func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx-float64(c.W)/2)/c.Zoom + c.X, (sy-float64(c.H)/2)/c.Zoom + c.Y
}

// Pan moves the view by a screen-space offset.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// ZoomAt scales the view by factor, keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(factor, sx, sy float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = max(MinZoom, min(MaxZoom, c.Zoom*factor))
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
}

// Scene draws the world layer: planets, ships and particles.
type Scene struct {
	Text *GridRenderer
	Cam  *Camera
}

// DrawPlanet draws the core, the displaced rings and the name label.
func (s *Scene) DrawPlanet(screen *ebiten.Image, p *game.Planet, assigned int) {
	cx, cy := s.Cam.WorldToScreen(p.X, p.Y)
	z := s.Cam.Zoom
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(p.CoreRadius*z), p.CoreColor.RGBA(), true)

	for i, ring := range p.Rings {
		alpha := 0.35
		if ring.Active() {
			alpha = 1
		}
		clr := Fade(p.RingColor, alpha)
		pts := p.RingPoints(i)
		for j := range pts {
			a, b := pts[j], pts[(j+1)%len(pts)]
			ax, ay := s.Cam.WorldToScreen(a.X, a.Y)
			bx, by := s.Cam.WorldToScreen(b.X, b.Y)
			vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1.5, clr, true)
		}
	}

	label := p.Name
	if p.Rarity != nil {
		label = fmt.Sprintf("%s L%d", p.Name, p.Level)
	}
	if assigned > 0 {
		label = fmt.Sprintf("%s [%d]", label, assigned)
	}
	s.centredText(screen, label, cx, cy-p.OuterRadius()*z-14, p.TextColor.RGBA())
}

var shipColors = map[game.ShipState]color.RGBA{
	game.StateIdle:      Palette[ColorLightGray],
	game.StateTraveling: Palette[ColorLightCyan],
	game.StateOrbiting:  Palette[ColorLightGreen],
	game.StateMining:    Palette[ColorYellow],
}

// DrawShip draws a ship marker with its status line.
func (s *Scene) DrawShip(screen *ebiten.Image, sh *game.Ship) {
	x, y := s.Cam.WorldToScreen(sh.X, sh.Y)
	clr := shipColors[sh.State()]
	if sh.Recalled() {
		clr = Palette[ColorLightRed]
	}
	vector.DrawFilledCircle(screen, float32(x), float32(y), 4, clr, true)
	s.centredText(screen, sh.StatusText(), x, y-18, clr)
}

// DrawParticles draws trails and mining sparks, fading with age.
func (s *Scene) DrawParticles(screen *ebiten.Image, f *fx.Field) {
	trail := game.RGB{R: 102, G: 204, B: 255}
	spark := game.RGB{R: 255, G: 220, B: 90}
	f.Each(func(p fx.Particle) {
		x, y := s.Cam.WorldToScreen(p.X, p.Y)
		c, r := trail, float32(1.5)
		if p.Kind == fx.KindSpark {
			c, r = spark, 2
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), r, Fade(c, p.Alpha), true)
	})
}

func (s *Scene) centredText(screen *ebiten.Image, text string, cx, y float64, clr color.Color) {
	w := s.Text.TextWidth(text, 0.75)
	s.Text.DrawText(screen, text, cx-w/2, y, clr, 0.75)
}
