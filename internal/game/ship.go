package game

import (
	"fmt"
	"math"
	"time"

	"github.com/spacehole-rogue/orbitminer/internal/world"
)

// MissionPhase is where a ship is in its mining cycle.
//
//	Idle -> Outbound -> ArrivedAtTarget -> Mining -> Inbound -> ArrivedAtHome -> Outbound ...
//	any non-idle phase -> Inbound (recalled) -> Idle
type MissionPhase uint8

const (
	PhaseIdle            MissionPhase = iota
	PhaseOutbound                     // spiralling toward the assigned planet
	PhaseArrivedAtTarget              // one tick in orbit before mining starts
	PhaseMining
	PhaseInbound       // spiralling home, with cargo or recalled
	PhaseArrivedAtHome // circling home once before resuming the assignment
)

// ShipState is the coarse state shown to players and clients.
type ShipState string

const (
	StateIdle      ShipState = "IDLE"
	StateTraveling ShipState = "TRAVELING"
	StateOrbiting  ShipState = "ORBITING"
	StateMining    ShipState = "MINING"
)

// Emitter receives visual effects from ships. fx.Field implements it.
type Emitter interface {
	Trail(ship int, x, y float64)
	Spark(ship int, x, y float64)
	ClearSparks(ship int)
	ClearShip(ship int)
}

type nopEmitter struct{}

func (nopEmitter) Trail(int, float64, float64) {}
func (nopEmitter) Spark(int, float64, float64) {}
func (nopEmitter) ClearSparks(int)             {}
func (nopEmitter) ClearShip(int)               {}

// Delivery is emitted when a ship lands home with cargo.
type Delivery struct {
	Ship   *Ship
	Source *Planet
	Rarity *RarityTier // nil for gas
	Gas    bool
}

// ShipConfig holds the mission timings.
type ShipConfig struct {
	BaseRotationSpeed float64
	SpiralStep        float64
	TravelDuration    time.Duration
	MiningDuration    time.Duration
	OrbitPoll         time.Duration
	OrbitTolerance    float64
	SparkInterval     time.Duration
}

// ShipConfigFromBalance maps balance fields onto a ShipConfig.
func ShipConfigFromBalance(b world.ShipBalance) ShipConfig {
	return ShipConfig{
		BaseRotationSpeed: b.BaseRotationSpeed,
		SpiralStep:        b.SpiralStep,
		TravelDuration:    b.TravelDuration,
		MiningDuration:    b.MiningDuration,
		OrbitPoll:         b.OrbitPoll,
		OrbitTolerance:    b.OrbitTolerance,
		SparkInterval:     b.SparkInterval,
	}
}

// spiral is a radius tween toward a planet while the angle advances at a constant rate.
type spiral struct {
	centerX, centerY float64
	startRadius      float64
	endRadius        float64
	radius           float64
	angle            float64
	elapsed          time.Duration
	duration         time.Duration
}

// mission is the single outstanding piece of work a ship has.
// Replacing it is the only way to start new work; clearing it cancels the old work.
type mission struct {
	phase        MissionPhase
	dest         *Planet // transit destination
	source       *Planet // planet whose cargo is on board
	spiral       spiral
	elapsed      time.Duration
	sparkAcc     time.Duration
	arrivalAngle float64
	pollAcc      time.Duration
	pending      *Planet // ArrivedAtHome: the planet to go back to
	recalled     bool
}

// Ship is a mining drone bound to the home planet.
type Ship struct {
	ID       int
	Home     *Planet
	Current  *Planet
	Assigned *Planet // set while the ship is, or will be, working a planet

	X, Y            float64
	Angle           float64
	RotationSpeed   float64
	SpeedMultiplier float64
	Progress        float64 // mining progress, 0..100

	OnPhase   func(s *Ship, from, to MissionPhase)
	OnDeliver func(d Delivery)

	cfg      ShipConfig
	mission  mission
	fx       Emitter
	disposed bool
}

// NewShip creates an idle ship orbiting home at the given angle.
func NewShip(id int, home *Planet, angle float64, cfg ShipConfig, fx Emitter) *Ship {
	if home == nil {
		panic("game: ship needs a home planet")
	}
	if fx == nil {
		fx = nopEmitter{}
	}
	s := &Ship{
		ID:              id,
		Home:            home,
		Current:         home,
		Angle:           angle,
		RotationSpeed:   cfg.BaseRotationSpeed,
		SpeedMultiplier: 1,
		cfg:             cfg,
		fx:              fx,
	}
	s.placeOnOrbit()
	return s
}

// Phase returns the current mission phase.
func (s *Ship) Phase() MissionPhase { return s.mission.phase }

// State collapses the phase into the coarse player-facing state.
func (s *Ship) State() ShipState {
	switch s.mission.phase {
	case PhaseOutbound, PhaseInbound:
		return StateTraveling
	case PhaseArrivedAtTarget, PhaseArrivedAtHome:
		return StateOrbiting
	case PhaseMining:
		return StateMining
	default:
		return StateIdle
	}
}

// Recalled reports whether the ship is on a forced return leg.
func (s *Ship) Recalled() bool { return s.mission.recalled }

// Destination is the planet being travelled to, or nil.
func (s *Ship) Destination() *Planet {
	if s.mission.phase == PhaseOutbound || s.mission.phase == PhaseInbound {
		return s.mission.dest
	}
	return nil
}

// Pending is the planet the ship will return to after circling home.
func (s *Ship) Pending() *Planet {
	if s.mission.phase == PhaseArrivedAtHome {
		return s.mission.pending
	}
	return nil
}

// Disposed reports whether the ship has been torn down.
func (s *Ship) Disposed() bool { return s.disposed }

// StatusText is the label drawn above the ship.
func (s *Ship) StatusText() string {
	switch s.mission.phase {
	case PhaseOutbound:
		return "TRAVELING"
	case PhaseArrivedAtTarget, PhaseArrivedAtHome:
		return "ORBITING"
	case PhaseMining:
		return fmt.Sprintf("MINING %d%%", int(s.Progress))
	case PhaseInbound:
		if s.mission.recalled {
			return "RECALLED"
		}
		return "RETURNING"
	default:
		return "IDLE"
	}
}

// SetSpeedMultiplier applies an upgrade. Legs already in flight keep their duration.
func (s *Ship) SetSpeedMultiplier(m float64) {
	if m <= 0 {
		return
	}
	s.SpeedMultiplier = m
	s.RotationSpeed = s.cfg.BaseRotationSpeed * m
}

// TravelTo assigns the ship to target and starts the outbound leg.
// It is ignored unless the ship is idle at home.
func (s *Ship) TravelTo(target *Planet) bool {
	if s.disposed || target == nil || target == s.Home {
		return false
	}
	if s.mission.phase != PhaseIdle {
		return false
	}
	s.Assigned = target
	s.beginTransit(target, PhaseOutbound, false)
	return true
}

// RecallToHome abandons the current work and flies home without cargo.
func (s *Ship) RecallToHome() bool {
	if s.disposed || s.mission.phase == PhaseIdle {
		return false
	}
	if s.mission.phase == PhaseInbound && s.mission.recalled {
		return false
	}
	from := s.mission.phase
	s.cancelMission()
	s.Assigned = nil
	s.startTransit(from, s.Home, PhaseInbound, true)
	return true
}

// Dispose cancels all work; the ship ignores every later call.
func (s *Ship) Dispose() {
	if s.disposed {
		return
	}
	s.cancelMission()
	s.fx.ClearShip(s.ID)
	s.Assigned = nil
	s.disposed = true
}

// Update advances the ship by one tick of dt.
func (s *Ship) Update(dt time.Duration) {
	if s.disposed {
		return
	}
	switch s.mission.phase {
	case PhaseIdle:
		s.orbit()
	case PhaseOutbound, PhaseInbound:
		s.stepTransit(dt)
	case PhaseArrivedAtTarget:
		s.orbit()
		if s.Assigned != nil && s.Current != s.Home {
			s.beginMining()
		} else {
			s.beginTransit(s.Home, PhaseInbound, true)
		}
	case PhaseMining:
		s.orbit()
		s.stepMining(dt)
	case PhaseArrivedAtHome:
		s.orbit()
		s.stepHomeOrbit(dt)
	}
}

func (s *Ship) orbit() {
	s.Angle += s.RotationSpeed
	s.placeOnOrbit()
}

func (s *Ship) placeOnOrbit() {
	r := s.Current.CoreRadius
	s.X = s.Current.X + math.Cos(s.Angle)*r
	s.Y = s.Current.Y + math.Sin(s.Angle)*r
}

func (s *Ship) travelDuration() time.Duration {
	return time.Duration(float64(s.cfg.TravelDuration) / s.SpeedMultiplier)
}

func (s *Ship) beginTransit(dest *Planet, phase MissionPhase, recalled bool) {
	s.startTransit(s.mission.phase, dest, phase, recalled)
}

// startTransit reports the leg as leaving from, which may differ from the
// descriptor's phase once a recall has cleared it.
func (s *Ship) startTransit(from MissionPhase, dest *Planet, phase MissionPhase, recalled bool) {
	source := s.mission.source
	if recalled {
		source = nil
	}

	dx, dy := s.X-dest.X, s.Y-dest.Y
	start := math.Hypot(dx, dy)
	s.mission = mission{
		phase:    phase,
		dest:     dest,
		source:   source,
		recalled: recalled,
		spiral: spiral{
			centerX:     dest.X,
			centerY:     dest.Y,
			startRadius: start,
			endRadius:   dest.CoreRadius,
			radius:      start,
			angle:       math.Atan2(dy, dx),
			duration:    s.travelDuration(),
		},
	}
	if recalled && from == phase {
		s.notifyPhase(from, phase)
		return
	}
	s.setPhase(from, phase)
}

func (s *Ship) stepTransit(dt time.Duration) {
	sp := &s.mission.spiral
	sp.elapsed += dt

	t := 1.0
	if sp.elapsed < sp.duration {
		t = float64(sp.elapsed) / float64(sp.duration)
	}
	sp.radius = sp.startRadius + (sp.endRadius-sp.startRadius)*easeOutPower2(t)
	sp.angle += s.cfg.SpiralStep * (s.RotationSpeed / s.cfg.BaseRotationSpeed)

	s.X = sp.centerX + math.Cos(sp.angle)*sp.radius
	s.Y = sp.centerY + math.Sin(sp.angle)*sp.radius
	s.fx.Trail(s.ID, s.X, s.Y)

	if t >= 1 {
		s.arrive()
	}
}

// easeOutPower2 is the cubic ease-out: fast start, slow settle.
func easeOutPower2(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func (s *Ship) arrive() {
	m := s.mission
	s.Angle = m.spiral.angle
	s.Current = m.dest
	s.placeOnOrbit()

	if m.phase == PhaseOutbound {
		s.mission = mission{phase: PhaseArrivedAtTarget}
		s.setPhase(PhaseOutbound, PhaseArrivedAtTarget)
		return
	}

	if m.recalled {
		s.mission = mission{}
		s.setPhase(PhaseInbound, PhaseIdle)
		return
	}

	if m.source != nil {
		s.deliver(m.source)
	}
	if s.Assigned == nil {
		s.mission = mission{}
		s.setPhase(PhaseInbound, PhaseIdle)
		return
	}
	s.mission = mission{
		phase:        PhaseArrivedAtHome,
		pending:      s.Assigned,
		arrivalAngle: s.Angle,
	}
	s.setPhase(PhaseInbound, PhaseArrivedAtHome)
}

func (s *Ship) deliver(source *Planet) {
	if s.OnDeliver == nil {
		return
	}
	s.OnDeliver(Delivery{
		Ship:   s,
		Source: source,
		Rarity: source.Rarity,
		Gas:    source.Kind == PlanetGas,
	})
}

func (s *Ship) beginMining() {
	s.Progress = 0
	s.mission = mission{phase: PhaseMining, source: s.Current}
	s.setPhase(PhaseArrivedAtTarget, PhaseMining)
}

func (s *Ship) stepMining(dt time.Duration) {
	m := &s.mission
	m.elapsed += dt
	s.Progress = math.Min(100, 100*float64(m.elapsed)/float64(s.cfg.MiningDuration))

	m.sparkAcc += dt
	for m.sparkAcc >= s.cfg.SparkInterval {
		m.sparkAcc -= s.cfg.SparkInterval
		s.fx.Spark(s.ID, s.X, s.Y)
	}

	if s.Progress >= 100 {
		s.fx.ClearSparks(s.ID)
		s.beginTransit(s.Home, PhaseInbound, false)
	}
}

// stepHomeOrbit checks on a coarse poll whether one full revolution is done.
func (s *Ship) stepHomeOrbit(dt time.Duration) {
	m := &s.mission
	m.pollAcc += dt
	for m.pollAcc >= s.cfg.OrbitPoll {
		m.pollAcc -= s.cfg.OrbitPoll
		if math.Abs(s.Angle-m.arrivalAngle) <= 2*math.Pi-s.cfg.OrbitTolerance {
			continue
		}
		next := m.pending
		if next == nil || next != s.Assigned {
			s.mission = mission{}
			s.setPhase(PhaseArrivedAtHome, PhaseIdle)
			return
		}
		s.beginTransit(next, PhaseOutbound, false)
		return
	}
}

func (s *Ship) cancelMission() {
	s.fx.ClearSparks(s.ID)
	s.mission = mission{}
	s.Progress = 0
}

func (s *Ship) setPhase(from, to MissionPhase) {
	if from != to {
		s.notifyPhase(from, to)
	}
}

// notifyPhase reports a transition even when the phase tag is unchanged,
// as when a laden inbound leg is recalled.
func (s *Ship) notifyPhase(from, to MissionPhase) {
	if s.OnPhase != nil {
		s.OnPhase(s, from, to)
	}
}

// PhaseName returns a label for a mission phase.
func PhaseName(p MissionPhase) string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOutbound:
		return "outbound"
	case PhaseArrivedAtTarget:
		return "arrived_at_target"
	case PhaseMining:
		return "mining"
	case PhaseInbound:
		return "inbound"
	case PhaseArrivedAtHome:
		return "arrived_at_home"
	default:
		return "unknown"
	}
}
