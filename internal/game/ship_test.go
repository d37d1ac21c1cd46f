package game

import (
	"math"
	"testing"
	"time"

	"github.com/spacehole-rogue/orbitminer/internal/wave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 10 * time.Millisecond

type recordingEmitter struct {
	trails, sparks, clears, disposed int
}

func (e *recordingEmitter) Trail(int, float64, float64) { e.trails++ }
func (e *recordingEmitter) Spark(int, float64, float64) { e.sparks++ }
func (e *recordingEmitter) ClearSparks(int)             { e.clears++ }
func (e *recordingEmitter) ClearShip(int)               { e.disposed++ }

func testShipConfig() ShipConfig {
	return ShipConfig{
		BaseRotationSpeed: 0.02,
		SpiralStep:        0.05,
		TravelDuration:    1500 * time.Millisecond,
		MiningDuration:    3000 * time.Millisecond,
		OrbitPoll:         100 * time.Millisecond,
		OrbitTolerance:    0.2,
		SparkInterval:     200 * time.Millisecond,
	}
}

func testPlanet(id int, x, y, core float64, kind PlanetKind) *Planet {
	return NewPlanet(
		PlanetSpec{ID: id, Name: "test", X: x, Y: y, CoreRadius: core, Kind: kind},
		RingSetup{Count: 2, Gap: 14, Wave: wave.DefaultConfig()},
		nil,
		testRNG(uint64(id)),
	)
}

// runUntil ticks the ship until cond holds, failing after max ticks.
func runUntil(t *testing.T, s *Ship, max int, cond func() bool) int {
	t.Helper()
	for i := 1; i <= max; i++ {
		s.Update(tick)
		if cond() {
			return i
		}
	}
	t.Fatalf("condition not reached after %d ticks (phase %s)", max, PhaseName(s.Phase()))
	return 0
}

func TestShipFullMissionSequence(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	s := NewShip(1, home, 0, testShipConfig(), nil)

	var states []ShipState
	var phases []MissionPhase
	s.OnPhase = func(sh *Ship, from, to MissionPhase) {
		phases = append(phases, to)
		states = append(states, sh.State())
	}

	require.True(t, s.TravelTo(target))
	runUntil(t, s, 2000, func() bool {
		return len(phases) >= 6
	})

	assert.Equal(t, []MissionPhase{
		PhaseOutbound, PhaseArrivedAtTarget, PhaseMining,
		PhaseInbound, PhaseArrivedAtHome, PhaseOutbound,
	}, phases[:6])
	assert.Equal(t, []ShipState{
		StateTraveling, StateOrbiting, StateMining,
		StateTraveling, StateOrbiting, StateTraveling,
	}, states[:6])
	assert.Same(t, target, s.Assigned)
}

func TestShipArrivalOrbitsOneTickBeforeMining(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	s := NewShip(1, home, 0, testShipConfig(), nil)

	require.True(t, s.TravelTo(target))
	n := runUntil(t, s, 500, func() bool { return s.Phase() == PhaseArrivedAtTarget })
	assert.Equal(t, 150, n)
	assert.Same(t, target, s.Current)
	assert.Equal(t, "ORBITING", s.StatusText())

	s.Update(tick)
	assert.Equal(t, PhaseMining, s.Phase())
	assert.Equal(t, "MINING 0%", s.StatusText())
}

func TestShipMiningProgressAndSparks(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	fx := &recordingEmitter{}
	s := NewShip(1, home, 0, testShipConfig(), fx)

	require.True(t, s.TravelTo(target))
	runUntil(t, s, 500, func() bool { return s.Phase() == PhaseMining })

	for range 150 {
		s.Update(tick)
	}
	assert.InDelta(t, 50, s.Progress, 1e-9)
	assert.Equal(t, "MINING 50%", s.StatusText())

	runUntil(t, s, 500, func() bool { return s.Phase() == PhaseInbound })
	assert.Equal(t, 100.0, s.Progress)
	assert.Equal(t, 15, fx.sparks)
	assert.Equal(t, 1, fx.clears)
	assert.Equal(t, "RETURNING", s.StatusText())
}

func TestShipDeliversCargoFromAssignedPlanet(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	target.Rarity = &RarityTier{Name: RarityEpic, Weight: 5}
	s := NewShip(1, home, 0, testShipConfig(), nil)

	var got []Delivery
	s.OnDeliver = func(d Delivery) { got = append(got, d) }

	require.True(t, s.TravelTo(target))
	runUntil(t, s, 2000, func() bool { return s.Phase() == PhaseArrivedAtHome })

	require.Len(t, got, 1)
	assert.Same(t, s, got[0].Ship)
	assert.Same(t, target, got[0].Source)
	assert.Equal(t, RarityEpic, got[0].Rarity.Name)
	assert.False(t, got[0].Gas)
	assert.Same(t, target, s.Pending())
	assert.Same(t, home, s.Current)
}

func TestShipGasPlanetDeliversGas(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	gas := testPlanet(1, -400, 300, 60, PlanetGas)
	s := NewShip(1, home, 0, testShipConfig(), nil)

	var got []Delivery
	s.OnDeliver = func(d Delivery) { got = append(got, d) }

	require.True(t, s.TravelTo(gas))
	runUntil(t, s, 2000, func() bool { return len(got) == 1 })
	assert.True(t, got[0].Gas)
	assert.Nil(t, got[0].Rarity)
}

func TestShipCirclesHomeOnceBeforeResuming(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	cfg := testShipConfig()
	s := NewShip(1, home, 0, cfg, nil)

	require.True(t, s.TravelTo(target))
	runUntil(t, s, 2000, func() bool { return s.Phase() == PhaseArrivedAtHome })
	start := s.Angle

	runUntil(t, s, 1000, func() bool { return s.Phase() == PhaseOutbound })
	assert.Greater(t, s.Angle-start, 2*math.Pi-cfg.OrbitTolerance)
	assert.Same(t, target, s.Destination())
}

func TestShipRecallReturnsExactlyToHomeOrbit(t *testing.T) {
	home := testPlanet(0, 100, -50, 80, PlanetHome)
	target := testPlanet(1, 600, 200, 60, PlanetMineral)
	s := NewShip(1, home, 0, testShipConfig(), nil)

	require.True(t, s.TravelTo(target))
	for range 40 {
		s.Update(tick)
	}
	require.Equal(t, PhaseOutbound, s.Phase())

	require.True(t, s.RecallToHome())
	assert.True(t, s.Recalled())
	assert.Nil(t, s.Assigned)
	assert.Equal(t, "RECALLED", s.StatusText())
	assert.False(t, s.RecallToHome(), "second recall is a no-op")

	runUntil(t, s, 500, func() bool { return s.Phase() == PhaseIdle })
	assert.Same(t, home, s.Current)
	assert.Nil(t, s.Assigned)
	assert.Equal(t, home.X+math.Cos(s.Angle)*home.CoreRadius, s.X)
	assert.Equal(t, home.Y+math.Sin(s.Angle)*home.CoreRadius, s.Y)
}

func TestShipRecallDuringMiningSkipsDelivery(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	fx := &recordingEmitter{}
	s := NewShip(1, home, 0, testShipConfig(), fx)
	delivered := 0
	s.OnDeliver = func(Delivery) { delivered++ }

	require.True(t, s.TravelTo(target))
	runUntil(t, s, 500, func() bool { return s.Phase() == PhaseMining })
	for range 50 {
		s.Update(tick)
	}

	require.True(t, s.RecallToHome())
	assert.Zero(t, s.Progress)
	assert.Equal(t, 1, fx.clears)

	runUntil(t, s, 500, func() bool { return s.Phase() == PhaseIdle })
	assert.Zero(t, delivered)

	for range 400 {
		s.Update(tick)
	}
	assert.Equal(t, PhaseIdle, s.Phase(), "recalled ship stays home")
}

type phaseChange struct {
	from, to MissionPhase
	recalled bool
}

func recordPhases(s *Ship) *[]phaseChange {
	var changes []phaseChange
	s.OnPhase = func(sh *Ship, from, to MissionPhase) {
		changes = append(changes, phaseChange{from: from, to: to, recalled: sh.Recalled()})
	}
	return &changes
}

func TestShipRecallReportsSourcePhase(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)

	t.Run("mining", func(t *testing.T) {
		s := NewShip(1, home, 0, testShipConfig(), nil)
		require.True(t, s.TravelTo(target))
		runUntil(t, s, 500, func() bool { return s.Phase() == PhaseMining })

		changes := recordPhases(s)
		require.True(t, s.RecallToHome())
		assert.Equal(t, []phaseChange{{from: PhaseMining, to: PhaseInbound, recalled: true}}, *changes)
	})

	t.Run("outbound", func(t *testing.T) {
		s := NewShip(1, home, 0, testShipConfig(), nil)
		require.True(t, s.TravelTo(target))
		s.Update(tick)

		changes := recordPhases(s)
		require.True(t, s.RecallToHome())
		assert.Equal(t, []phaseChange{{from: PhaseOutbound, to: PhaseInbound, recalled: true}}, *changes)
	})

	t.Run("laden inbound", func(t *testing.T) {
		s := NewShip(1, home, 0, testShipConfig(), nil)
		delivered := 0
		s.OnDeliver = func(Delivery) { delivered++ }
		require.True(t, s.TravelTo(target))
		runUntil(t, s, 1000, func() bool { return s.Phase() == PhaseInbound })
		require.False(t, s.Recalled())

		changes := recordPhases(s)
		require.True(t, s.RecallToHome())
		assert.Equal(t, []phaseChange{{from: PhaseInbound, to: PhaseInbound, recalled: true}}, *changes)
		assert.Equal(t, "RECALLED", s.StatusText())

		runUntil(t, s, 500, func() bool { return s.Phase() == PhaseIdle })
		assert.Zero(t, delivered)
		assert.Equal(t, phaseChange{from: PhaseInbound, to: PhaseIdle, recalled: false}, (*changes)[len(*changes)-1])
	})
}

func TestShipTravelToIgnoredWhenBusy(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	a := testPlanet(1, 500, 0, 60, PlanetMineral)
	b := testPlanet(2, -500, 0, 60, PlanetMineral)
	s := NewShip(1, home, 0, testShipConfig(), nil)

	assert.False(t, s.TravelTo(nil))
	assert.False(t, s.TravelTo(home))
	assert.False(t, s.RecallToHome(), "recall from idle is a no-op")

	require.True(t, s.TravelTo(a))
	assert.False(t, s.TravelTo(b))
	assert.False(t, s.TravelTo(a))
	assert.Same(t, a, s.Assigned)
	assert.Same(t, a, s.Destination())
}

func TestShipSpeedMultiplierShortensTravel(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	s := NewShip(1, home, 0, testShipConfig(), nil)

	s.SetSpeedMultiplier(2)
	assert.InDelta(t, 0.04, s.RotationSpeed, 1e-12)

	require.True(t, s.TravelTo(target))
	n := runUntil(t, s, 500, func() bool { return s.Phase() == PhaseArrivedAtTarget })
	assert.Equal(t, 75, n)

	s.SetSpeedMultiplier(0)
	assert.Equal(t, 2.0, s.SpeedMultiplier, "non-positive multiplier is ignored")
}

func TestShipTransitEmitsTrail(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	fx := &recordingEmitter{}
	s := NewShip(1, home, 0, testShipConfig(), fx)

	require.True(t, s.TravelTo(target))
	runUntil(t, s, 500, func() bool { return s.Phase() == PhaseArrivedAtTarget })
	assert.Equal(t, 150, fx.trails)
	assert.InDelta(t, target.CoreRadius, math.Hypot(s.X-target.X, s.Y-target.Y), 1e-9)
}

func TestShipDisposeCancelsEverything(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	target := testPlanet(1, 500, 0, 60, PlanetMineral)
	fx := &recordingEmitter{}
	s := NewShip(1, home, 0, testShipConfig(), fx)
	s.OnDeliver = func(Delivery) { t.Fatal("disposed ship delivered") }

	require.True(t, s.TravelTo(target))
	for range 40 {
		s.Update(tick)
	}
	s.Dispose()
	x, y := s.X, s.Y

	for range 1000 {
		s.Update(tick)
	}
	assert.True(t, s.Disposed())
	assert.Equal(t, x, s.X)
	assert.Equal(t, y, s.Y)
	assert.Equal(t, 1, fx.disposed)
	assert.False(t, s.TravelTo(target))
	assert.False(t, s.RecallToHome())

	s.Dispose()
	assert.Equal(t, 1, fx.disposed)
}

func TestNewShipPanicsWithoutHome(t *testing.T) {
	assert.Panics(t, func() { NewShip(1, nil, 0, testShipConfig(), nil) })
}

func TestShipIdleOrbitsHome(t *testing.T) {
	home := testPlanet(0, 0, 0, 80, PlanetHome)
	s := NewShip(1, home, 0, testShipConfig(), nil)
	assert.Equal(t, 80.0, s.X)
	assert.Equal(t, "IDLE", s.StatusText())

	s.Update(tick)
	assert.InDelta(t, 0.02, s.Angle, 1e-12)
	assert.InDelta(t, 80, math.Hypot(s.X, s.Y), 1e-9)
	assert.Equal(t, StateIdle, s.State())
}
