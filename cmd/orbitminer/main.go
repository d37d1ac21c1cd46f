package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spacehole-rogue/orbitminer/internal/game"
	"github.com/spacehole-rogue/orbitminer/internal/logger"
	"github.com/spacehole-rogue/orbitminer/internal/render"
	"github.com/spacehole-rogue/orbitminer/internal/world"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	title        = "Orbit Miner"

	cellWidth  = 16
	cellHeight = 16
	gridCols   = screenWidth / cellWidth   // 80
	gridRows   = screenHeight / cellHeight // 45
)

const (
	panelX   = 58 // right-side economy panel
	commsRow = 35
	commsMax = 8
	panSpeed = 8.0
)

// Game is the ebiten game. It owns rendering and input; all gameplay state
// lives in ctrl.
type Game struct {
	text    *render.GridRenderer
	buffer  *render.CellBuffer
	scene   *render.Scene
	cam     *render.Camera
	ctrl    *game.Controller
	gesture *game.Gesture
	clock   time.Duration
	pressed *game.Planet
}

func NewGame(ctrl *game.Controller) *Game {
	atlas := render.NewFontAtlas()
	text := render.NewGridRenderer(atlas, cellWidth, cellHeight)
	cam := render.NewCamera(screenWidth, screenHeight)
	return &Game{
		text:    text,
		buffer:  render.NewCellBuffer(gridCols, gridRows),
		scene:   &render.Scene{Text: text, Cam: cam},
		cam:     cam,
		ctrl:    ctrl,
		gesture: game.NewGesture(ctrl.HoldThreshold()),
	}
}

func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())
	g.clock += dt
	g.ctrl.Update(dt)

	if err := g.handleKeys(); err != nil {
		return err
	}
	g.handleCamera()
	g.handlePointer()
	g.drawHUD()
	return nil
}

func (g *Game) handleKeys() error {
	c := g.ctrl
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		c.AddShip()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		c.ScanForPlanet()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		c.Dispatch(g.target())
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		c.Recall(g.target())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		c.Refine()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		c.CancelRefine()
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		c.UpgradeSpeed()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if sel, _, _ := c.Selected(); sel != nil {
			c.Deselect()
			return nil
		}
		return ebiten.Termination
	}
	return nil
}

// target is the popup planet, falling back to the last tapped one.
func (g *Game) target() *game.Planet {
	if sel, _, _ := g.ctrl.Selected(); sel != nil {
		return sel
	}
	return g.ctrl.Inspected()
}

func (g *Game) handleCamera() {
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.Pan(panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Pan(0, -panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Pan(0, panSpeed)
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		cx, cy := ebiten.CursorPosition()
		g.cam.ZoomAt(math.Pow(1.1, wy), float64(cx), float64(cy))
	}
}

// handlePointer classifies presses on planets into taps and holds.
func (g *Game) handlePointer() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()
		wx, wy := g.cam.ScreenToWorld(float64(cx), float64(cy))
		if p := g.planetAt(wx, wy); p != nil {
			g.pressed = p
			g.gesture.Press(g.clock, wx, wy)
		}
	}
	if g.pressed == nil {
		return
	}

	x, y := g.gesture.Origin()
	if g.gesture.Poll(g.clock) == game.GestureHold {
		g.pressed.Hold(x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		switch g.gesture.Release(g.clock) {
		case game.GestureTap:
			g.pressed.Tap()
		case game.GestureHold:
			g.pressed.Hold(x, y)
		}
		g.pressed = nil
	}
}

func (g *Game) planetAt(x, y float64) *game.Planet {
	for i := len(g.ctrl.Planets) - 1; i >= 0; i-- {
		if p := g.ctrl.Planets[i]; p.Contains(x, y) {
			return p
		}
	}
	if g.ctrl.Home.Contains(x, y) {
		return g.ctrl.Home
	}
	return nil
}

func (g *Game) drawHUD() {
	buf := g.buffer
	c := g.ctrl
	buf.Clear()

	buf.WriteString(2, 0, title, render.ColorWhite, render.ColorBlack)
	buf.WriteString(16, 0, fmt.Sprintf("[ Ships %d/%d ]", c.ShipCount(), c.MaxShips()), render.ColorLightCyan, render.ColorBlack)
	buf.WriteString(32, 0, fmt.Sprintf("[ Planets %d/%d ]", c.PlanetCount(), c.MaxPlanets()), render.ColorLightCyan, render.ColorBlack)

	// economy panel
	snap := c.Ledger.Snapshot()
	buf.WriteString(panelX, 2, "Resources", render.ColorLightCyan, render.ColorBlack)
	buf.Rule(panelX, 3, 20, render.ColorDarkGray)
	row := 4
	for _, name := range snap.Order {
		clr := render.RarityColor(name)
		buf.WriteString(panelX, row, name, clr, render.ColorBlack)
		buf.WriteString(panelX+12, row, fmt.Sprintf("%6d", snap.Resources[name]), clr, render.ColorBlack)
		row++
	}
	row++
	buf.WriteString(panelX, row, fmt.Sprintf("Gas   %6d", snap.Gas), render.ColorBrown, render.ColorBlack)
	buf.WriteString(panelX, row+1, fmt.Sprintf("Fuel  %6d", snap.Fuel), render.ColorLightRed, render.ColorBlack)
	buf.WriteString(panelX, row+2, "Refine", render.ColorLightGray, render.ColorBlack)
	buf.Bar(panelX+7, row+2, 12, c.Refinery.Progress(), render.ColorYellow)
	buf.WriteString(panelX, row+3, fmt.Sprintf("Speed x%.2f", c.SpeedMultiplier()), render.ColorLightGray, render.ColorBlack)

	// popup for the held planet
	if p, _, _ := c.Selected(); p != nil {
		buf.WriteString(panelX, row+5, p.Name, render.ColorWhite, render.ColorBlack)
		buf.WriteString(panelX, row+6, fmt.Sprintf("%d Ships  [+] [-]", c.AssignedCount(p)), render.ColorLightGreen, render.ColorBlack)
	} else if p := c.Inspected(); p != nil && p != c.Home {
		label := "Gas giant"
		if p.Rarity != nil {
			label = fmt.Sprintf("%s  L%d", p.Rarity.Name, p.Level)
		}
		buf.WriteString(panelX, row+5, p.Name, render.ColorWhite, render.ColorBlack)
		buf.WriteString(panelX, row+6, label, render.ColorLightGray, render.ColorBlack)
	}

	buf.WriteString(2, commsRow, "Comms", render.ColorLightCyan, render.ColorBlack)
	buf.Rule(2, commsRow+1, 40, render.ColorDarkGray)
	for i, msg := range c.Log.Recent(commsMax) {
		buf.WriteString(2, commsRow+2+i, msg.Text, render.PriorityColor(msg), render.ColorBlack)
	}

	buf.WriteString(2, gridRows-1, "N: Ship  S: Scan  +/-: Send/Recall  R/C: Refine/Stop  U: Upgrade  ESC: Quit",
		render.ColorDarkGray, render.ColorBlack)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Space)
	g.scene.DrawParticles(screen, g.ctrl.FX)
	g.scene.DrawPlanet(screen, g.ctrl.Home, 0)
	for _, p := range g.ctrl.Planets {
		g.scene.DrawPlanet(screen, p, g.ctrl.AssignedCount(p))
	}
	for _, s := range g.ctrl.Ships {
		g.scene.DrawShip(screen, s)
	}
	g.text.Draw(screen, g.buffer)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	settings, err := world.LoadSettings()
	if err != nil {
		slog.Error("Invalid settings", "error", err)
		os.Exit(1)
	}
	log := logger.Init(settings.LogLevel, settings.LogFormat)

	balance, err := world.LoadBalanceFile(settings.BalancePath)
	if err != nil {
		log.Error("Invalid balance", "error", err)
		os.Exit(1)
	}

	seed := settings.SeedOrNow()
	ctrl := game.NewController(balance, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), log)
	defer ctrl.Close()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(title)
	if err := ebiten.RunGame(NewGame(ctrl)); err != nil {
		log.Error("Game exited", "error", err)
		os.Exit(1)
	}
}
