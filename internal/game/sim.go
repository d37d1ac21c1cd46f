package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/spacehole-rogue/orbitminer/internal/fx"
	"github.com/spacehole-rogue/orbitminer/internal/wave"
	"github.com/spacehole-rogue/orbitminer/internal/world"
)

// HomeID is the planet id of the home base.
const HomeID = 0

// statusInterval is the sim-time period of the session status log line.
const statusInterval = time.Minute

// Controller is the game session. It owns every planet, ship and counter.
// It is not safe for concurrent use; the feed runner serialises access.
type Controller struct {
	SessionID string
	Home      *Planet
	Planets   []*Planet // discovered planets, home excluded
	Ships     []*Ship
	Ledger    *Ledger
	Refinery  *Refinery
	Log       *MessageLog
	FX        *fx.Field
	Sched     *Scheduler
	Ticks     uint64

	balance   world.Balance
	shipCfg   ShipConfig
	rings     RingSetup
	rarities  *RarityTable
	placer    *PlacementGenerator
	names     *namer
	rng       *rand.Rand
	log       *slog.Logger
	speed     float64
	nextID    int
	selected  *Planet
	inspected *Planet
	popupX    float64
	popupY    float64
	closed    bool
}

// NewController starts a session with the home planet and the starting fleet.
// The balance must already be validated.
func NewController(b world.Balance, rng *rand.Rand, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	sched := NewScheduler()
	rarities := NewRarityTable(b.Rarities)
	names := make([]string, 0, len(b.Rarities))
	for _, tier := range rarities.Tiers() {
		names = append(names, tier.Name)
	}
	ledger := NewLedger(names...)

	c := &Controller{
		SessionID: uuid.NewString(),
		Ledger:    ledger,
		Refinery:  NewRefinery(ledger, sched, b.Economy.RefineDuration),
		Log:       NewMessageLog(50),
		FX:        fx.NewField(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64()))),
		Sched:     sched,
		balance:   b,
		shipCfg:   ShipConfigFromBalance(b.Ships),
		rings: RingSetup{
			Count:   b.Planets.RingCount,
			Gap:     b.Planets.RingGap,
			Stagger: b.Planets.RingStagger,
			Wave:    waveConfig(b.Wave),
		},
		rarities: rarities,
		placer:   NewPlacementGenerator(b.Placement, rarities, b.Themes.Gas, rng),
		names:    newNamer(rng),
		rng:      rng,
		speed:    1,
		nextID:   HomeID + 1,
	}
	c.log = logger.With("component", "controller", "session", c.SessionID)

	home := b.Themes.Home
	c.Home = NewPlanet(PlanetSpec{
		ID:         HomeID,
		Name:       "Home",
		CoreRadius: b.Planets.HomeRadius,
		Kind:       PlanetHome,
		CoreColor:  RGBFromConfig(home.CoreColor),
		RingColor:  RGBFromConfig(home.RingColor),
		TextColor:  RGBFromConfig(home.TextColor),
	}, c.rings, sched, rng)
	c.wire(c.Home)

	c.Refinery.OnDone = func() {
		c.Log.Add(sched.Now(), "Refinery: +1 fuel", MsgEconomy)
	}

	sched.Every(statusInterval, c.logStatus)

	for range b.Ships.StartShips {
		c.AddShip()
	}
	c.Log.Add(0, "Mining operation online.", MsgInfo)
	c.log.Info("Session started", "ships", len(c.Ships))
	return c
}

func waveConfig(w world.WaveBalance) wave.Config {
	return wave.Config{
		Segments:     w.Segments,
		StrengthMin:  w.StrengthMin,
		StrengthMax:  w.StrengthMax,
		DecayMin:     w.DecayMin,
		DecayMax:     w.DecayMax,
		FrequencyMin: w.FrequencyMin,
		FrequencyMax: w.FrequencyMax,
		PhaseStep:    w.PhaseStep,
	}
}

func (c *Controller) wire(p *Planet) {
	p.OnClick = c.onTap
	p.OnHold = c.onHold
}

func (c *Controller) onTap(p *Planet) {
	p.TriggerWave()
	c.inspected = p
}

func (c *Controller) onHold(p *Planet, x, y float64) {
	c.selected = p
	c.popupX, c.popupY = x, y
}

// Now is the simulation clock.
func (c *Controller) Now() time.Duration { return c.Sched.Now() }

// AddShip launches a new ship at home. It fails at the fleet cap.
func (c *Controller) AddShip() bool {
	if c.closed {
		return false
	}
	if len(c.Ships) >= c.MaxShips() {
		c.Log.Add(c.Now(), fmt.Sprintf("Fleet at capacity (%d/%d).", len(c.Ships), c.MaxShips()), MsgWarning)
		c.log.Debug("Ship cap reached", "operation", "add_ship", "max", c.MaxShips())
		return false
	}

	s := NewShip(len(c.Ships)+1, c.Home, c.rng.Float64()*2*math.Pi, c.shipCfg, c.FX)
	s.SetSpeedMultiplier(c.speed)
	s.OnDeliver = c.deliver
	s.OnPhase = c.phaseChanged
	c.Ships = append(c.Ships, s)

	c.Log.Add(c.Now(), fmt.Sprintf("Ship %d launched.", s.ID), MsgInfo)
	c.log.Debug("Ship added", "operation", "add_ship", "ship", s.ID)
	return true
}

// ScanForPlanet discovers one planet. It fails at the planet cap or when
// placement finds no room; neither case changes any state.
func (c *Controller) ScanForPlanet() (*Planet, bool) {
	if c.closed {
		return nil, false
	}
	if len(c.Planets) >= c.MaxPlanets() {
		c.Log.Add(c.Now(), "Scanner range exhausted.", MsgWarning)
		c.log.Debug("Planet cap reached", "operation", "scan", "max", c.MaxPlanets())
		return nil, false
	}

	spec, ok := c.placer.Place(c.Home, c.Planets)
	if !ok {
		c.Log.Add(c.Now(), "Scan found nothing. Try again.", MsgWarning)
		c.log.Info("Placement exhausted", "operation", "scan", "planets", len(c.Planets))
		return nil, false
	}

	spec.ID = c.nextID
	spec.Name = c.names.Next()
	c.nextID++
	p := NewPlanet(spec, c.rings, c.Sched, c.rng)
	c.wire(p)
	c.Planets = append(c.Planets, p)
	p.TriggerWave()

	label := "gas giant"
	if p.Rarity != nil {
		label = p.Rarity.Name
	}
	c.Log.Add(c.Now(), fmt.Sprintf("Discovered %s (%s, level %d).", p.Name, label, p.Level), MsgDiscovery)
	c.log.Debug("Planet discovered", "operation", "scan", "planet", p.ID, "kind", PlanetKindName(p.Kind), "rarity", label)
	return p, true
}

// Planet looks up a planet by id, home included.
func (c *Controller) Planet(id int) (*Planet, bool) {
	if id == HomeID {
		return c.Home, true
	}
	for _, p := range c.Planets {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Ship looks up a ship by id.
func (c *Controller) Ship(id int) (*Ship, bool) {
	for _, s := range c.Ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Dispatch sends the first idle ship to p.
func (c *Controller) Dispatch(p *Planet) bool {
	if c.closed || p == nil || p == c.Home {
		return false
	}
	for _, s := range c.Ships {
		if s.Phase() == PhaseIdle && s.TravelTo(p) {
			c.log.Debug("Ship dispatched", "operation", "dispatch", "ship", s.ID, "planet", p.ID)
			return true
		}
	}
	return false
}

// Recall brings home the first ship working p.
func (c *Controller) Recall(p *Planet) bool {
	if c.closed || p == nil {
		return false
	}
	for _, s := range c.Ships {
		if s.Assigned == p && s.RecallToHome() {
			c.Log.Add(c.Now(), fmt.Sprintf("Ship %d recalled from %s.", s.ID, p.Name), MsgInfo)
			c.log.Debug("Ship recalled", "operation", "recall", "ship", s.ID, "planet", p.ID)
			return true
		}
	}
	return false
}

// AssignedCount is the number of ships working p.
func (c *Controller) AssignedCount(p *Planet) int {
	n := 0
	for _, s := range c.Ships {
		if p != nil && s.Assigned == p {
			n++
		}
	}
	return n
}

// Tap delivers a short press to a planet.
func (c *Controller) Tap(id int) bool {
	p, ok := c.Planet(id)
	if !ok {
		return false
	}
	p.Tap()
	return true
}

// Hold delivers a long press to a planet.
func (c *Controller) Hold(id int, x, y float64) bool {
	p, ok := c.Planet(id)
	if !ok {
		return false
	}
	p.Hold(x, y)
	return true
}

// Select makes p the popup target.
func (c *Controller) Select(p *Planet) { c.selected = p }

// Selected returns the popup target and where it was opened.
func (c *Controller) Selected() (*Planet, float64, float64) {
	return c.selected, c.popupX, c.popupY
}

func (c *Controller) Deselect() { c.selected = nil }

// Inspected is the planet shown in the info panel.
func (c *Controller) Inspected() *Planet { return c.inspected }

// Refine starts a gas-to-fuel conversion.
func (c *Controller) Refine() bool {
	if c.closed {
		return false
	}
	if !c.Refinery.Convert() {
		if !c.Refinery.Busy() {
			c.Log.Add(c.Now(), "Not enough gas to refine.", MsgWarning)
		}
		return false
	}
	c.Log.Add(c.Now(), "Refinery started.", MsgEconomy)
	return true
}

// CancelRefine stops the running conversion and refunds its gas.
func (c *Controller) CancelRefine() bool {
	if c.closed || !c.Refinery.Cancel() {
		return false
	}
	c.Log.Add(c.Now(), "Refinery stopped. Gas refunded.", MsgEconomy)
	return true
}

// UpgradeSpeed spends fuel to make every ship faster, present and future.
func (c *Controller) UpgradeSpeed() bool {
	if c.closed {
		return false
	}
	cost := c.balance.Economy.UpgradeFuelCost
	if cost > 0 && !c.Ledger.RemoveFuel(cost) {
		c.Log.Add(c.Now(), fmt.Sprintf("Upgrade needs %d fuel.", cost), MsgWarning)
		return false
	}
	c.speed *= c.balance.Economy.UpgradeFactor
	for _, s := range c.Ships {
		s.SetSpeedMultiplier(c.speed)
	}
	c.Log.Add(c.Now(), fmt.Sprintf("Engines upgraded: x%.2f speed.", c.speed), MsgEconomy)
	c.log.Info("Speed upgraded", "operation", "upgrade", "multiplier", c.speed)
	return true
}

// SpeedMultiplier is the fleet-wide upgrade level.
func (c *Controller) SpeedMultiplier() float64 { return c.speed }

// Update advances the session by one tick: timers, then planets, then ships.
func (c *Controller) Update(dt time.Duration) {
	if c.closed {
		return
	}
	c.Ticks++
	c.Sched.Advance(dt)
	c.Home.Update()
	for _, p := range c.Planets {
		p.Update()
	}
	for _, s := range c.Ships {
		s.Update(dt)
	}
	c.FX.Update(dt)
}

func (c *Controller) logStatus() {
	c.log.Info("Session status",
		"ticks", c.Ticks,
		"ships", len(c.Ships),
		"planets", len(c.Planets),
		"resources", c.Ledger.Total(),
		"gas", c.Ledger.Gas(),
		"fuel", c.Ledger.Fuel(),
	)
}

func (c *Controller) deliver(d Delivery) {
	switch {
	case d.Gas:
		c.Ledger.AddGas(1)
		c.Log.Add(c.Now(), fmt.Sprintf("Ship %d: +1 gas from %s.", d.Ship.ID, d.Source.Name), MsgDelivery)
	case d.Rarity != nil:
		c.Ledger.RecordDelivery(d.Rarity.Name)
		c.Log.AddDelivery(c.Now(), fmt.Sprintf("Ship %d: +1 %s from %s.", d.Ship.ID, d.Rarity.Name, d.Source.Name), d.Rarity.Name)
	default:
		return
	}
	c.log.Debug("Delivery", "ship", d.Ship.ID, "planet", d.Source.ID, "gas", d.Gas)
}

func (c *Controller) phaseChanged(s *Ship, from, to MissionPhase) {
	c.log.Debug("Ship phase", "ship", s.ID, "from", PhaseName(from), "to", PhaseName(to), "recalled", s.Recalled())
}

func (c *Controller) ShipCount() int   { return len(c.Ships) }
func (c *Controller) PlanetCount() int { return len(c.Planets) }
func (c *Controller) MaxShips() int    { return c.balance.Ships.MaxShips }
func (c *Controller) MaxPlanets() int  { return c.balance.Planets.MaxPlanets }

// HoldThreshold is the press length that counts as a hold.
func (c *Controller) HoldThreshold() time.Duration { return c.balance.Planets.HoldThreshold }

// Close disposes every ship and drops pending timers. The session is inert afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	for _, s := range c.Ships {
		s.Dispose()
	}
	c.Sched.CancelAll()
	c.closed = true
	c.log.Info("Session closed", "ticks", c.Ticks)
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool { return c.closed }
