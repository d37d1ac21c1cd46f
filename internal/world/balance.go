package world

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed balance.yaml
var defaultBalance []byte

// Color is an RGB triple as written in the balance file.
type Color [3]int

// ShipBalance tunes the mission state machine.
type ShipBalance struct {
	MaxShips          int           `yaml:"max_ships" json:"max_ships"`
	StartShips        int           `yaml:"start_ships" json:"start_ships"`
	BaseRotationSpeed float64       `yaml:"base_rotation_speed" json:"base_rotation_speed"` // radians per tick while orbiting
	SpiralStep        float64       `yaml:"spiral_step" json:"spiral_step"`                 // radians per tick while in transit
	TravelDuration    time.Duration `yaml:"travel_duration" json:"travel_duration"`
	MiningDuration    time.Duration `yaml:"mining_duration" json:"mining_duration"`
	OrbitPoll         time.Duration `yaml:"orbit_poll" json:"orbit_poll"`
	OrbitTolerance    float64       `yaml:"orbit_tolerance" json:"orbit_tolerance"`
	SparkInterval     time.Duration `yaml:"spark_interval" json:"spark_interval"`
}

// PlanetBalance tunes planets and their interaction.
type PlanetBalance struct {
	MaxPlanets    int           `yaml:"max_planets" json:"max_planets"`
	HomeRadius    float64       `yaml:"home_radius" json:"home_radius"`
	RingCount     int           `yaml:"ring_count" json:"ring_count"`
	RingGap       float64       `yaml:"ring_gap" json:"ring_gap"`
	RingStagger   time.Duration `yaml:"ring_stagger" json:"ring_stagger"`
	HoldThreshold time.Duration `yaml:"hold_threshold" json:"hold_threshold"`
}

// PlacementBalance tunes discovery of new planets.
type PlacementBalance struct {
	MaxAttempts     int     `yaml:"max_attempts" json:"max_attempts"`
	BaseMinDistance float64 `yaml:"base_min_distance" json:"base_min_distance"`
	BaseMaxDistance float64 `yaml:"base_max_distance" json:"base_max_distance"`
	DistanceStep    float64 `yaml:"distance_step" json:"distance_step"` // annulus growth per existing planet
	MinLevel        int     `yaml:"min_level" json:"min_level"`
	MaxLevel        int     `yaml:"max_level" json:"max_level"`
	RadiusBase      float64 `yaml:"radius_base" json:"radius_base"`
	RadiusPerLevel  float64 `yaml:"radius_per_level" json:"radius_per_level"`
	Buffer          float64 `yaml:"buffer" json:"buffer"`
	GasChance       float64 `yaml:"gas_chance" json:"gas_chance"`
	CoreDarken      int     `yaml:"core_darken" json:"core_darken"`
	ColorJitter     int     `yaml:"color_jitter" json:"color_jitter"`
}

// WaveBalance holds the ring oscillator bands.
type WaveBalance struct {
	Segments     int     `yaml:"segments" json:"segments"`
	StrengthMin  float64 `yaml:"strength_min" json:"strength_min"`
	StrengthMax  float64 `yaml:"strength_max" json:"strength_max"`
	DecayMin     float64 `yaml:"decay_min" json:"decay_min"`
	DecayMax     float64 `yaml:"decay_max" json:"decay_max"`
	FrequencyMin int     `yaml:"frequency_min" json:"frequency_min"`
	FrequencyMax int     `yaml:"frequency_max" json:"frequency_max"`
	PhaseStep    float64 `yaml:"phase_step" json:"phase_step"`
}

// RarityDef is one weighted resource class.
type RarityDef struct {
	Name      string `yaml:"name" json:"name"`
	Weight    int    `yaml:"weight" json:"weight"`
	BaseColor Color  `yaml:"base_color" json:"base_color"`
	TextColor Color  `yaml:"text_color" json:"text_color"`
}

// Theme is a fixed planet look.
type Theme struct {
	CoreColor Color `yaml:"core_color" json:"core_color"`
	RingColor Color `yaml:"ring_color" json:"ring_color"`
	TextColor Color `yaml:"text_color" json:"text_color"`
}

// Themes holds the planets that do not derive colors from a rarity.
type Themes struct {
	Home Theme `yaml:"home" json:"home"`
	Gas  Theme `yaml:"gas" json:"gas"`
}

// EconomyBalance tunes the refinery and upgrades.
type EconomyBalance struct {
	RefineDuration  time.Duration `yaml:"refine_duration" json:"refine_duration"`
	UpgradeFuelCost int           `yaml:"upgrade_fuel_cost" json:"upgrade_fuel_cost"`
	UpgradeFactor   float64       `yaml:"upgrade_factor" json:"upgrade_factor"`
}

// Balance is the root of balance.yaml.
type Balance struct {
	Ships     ShipBalance      `yaml:"ships" json:"ships"`
	Planets   PlanetBalance    `yaml:"planets" json:"planets"`
	Placement PlacementBalance `yaml:"placement" json:"placement"`
	Wave      WaveBalance      `yaml:"wave" json:"wave"`
	Rarities  []RarityDef      `yaml:"rarities" json:"rarities"`
	Themes    Themes           `yaml:"themes" json:"themes"`
	Economy   EconomyBalance   `yaml:"economy" json:"economy"`
}

// DefaultBalance returns the embedded defaults.
func DefaultBalance() Balance {
	var b Balance
	if err := yaml.Unmarshal(defaultBalance, &b); err != nil {
		panic(fmt.Sprintf("embedded balance.yaml: %v", err))
	}
	return b
}

// LoadBalance parses YAML on top of the defaults and validates the result.
// Fields missing from data keep their default; a rarities list replaces the default list.
func LoadBalance(data []byte) (Balance, error) {
	b := DefaultBalance()
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Balance{}, fmt.Errorf("parse balance: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Balance{}, fmt.Errorf("invalid balance: %w", err)
	}
	return b, nil
}

// LoadBalanceFile reads a balance file. An empty path yields the defaults.
func LoadBalanceFile(path string) (Balance, error) {
	if path == "" {
		return DefaultBalance(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("read balance %s: %w", path, err)
	}
	return LoadBalance(data)
}

// Validate reports every field that would break the simulation.
func (b Balance) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	s := b.Ships
	check(s.MaxShips > 0, "ships.max_ships must be positive")
	check(s.StartShips >= 0 && s.StartShips <= s.MaxShips, "ships.start_ships must be within [0, max_ships]")
	check(s.BaseRotationSpeed > 0, "ships.base_rotation_speed must be positive")
	check(s.SpiralStep >= 0, "ships.spiral_step must not be negative")
	check(s.TravelDuration > 0, "ships.travel_duration must be positive")
	check(s.MiningDuration > 0, "ships.mining_duration must be positive")
	check(s.OrbitPoll > 0, "ships.orbit_poll must be positive")
	check(s.OrbitTolerance >= 0, "ships.orbit_tolerance must not be negative")
	check(s.SparkInterval > 0, "ships.spark_interval must be positive")

	p := b.Planets
	check(p.MaxPlanets > 0, "planets.max_planets must be positive")
	check(p.HomeRadius > 0, "planets.home_radius must be positive")
	check(p.RingCount > 0, "planets.ring_count must be positive")
	check(p.RingStagger >= 0, "planets.ring_stagger must not be negative")
	check(p.HoldThreshold > 0, "planets.hold_threshold must be positive")

	pl := b.Placement
	check(pl.MaxAttempts > 0, "placement.max_attempts must be positive")
	check(pl.BaseMinDistance >= 0 && pl.BaseMinDistance <= pl.BaseMaxDistance,
		"placement distances must satisfy 0 <= base_min_distance <= base_max_distance")
	check(pl.MinLevel > 0 && pl.MinLevel <= pl.MaxLevel, "placement levels must satisfy 0 < min_level <= max_level")
	check(pl.RadiusBase > 0, "placement.radius_base must be positive")
	check(pl.Buffer >= 0, "placement.buffer must not be negative")
	check(pl.GasChance >= 0 && pl.GasChance <= 1, "placement.gas_chance must be within [0, 1]")
	check(pl.ColorJitter >= 0, "placement.color_jitter must not be negative")

	w := b.Wave
	check(w.Segments > 0, "wave.segments must be positive")
	check(w.StrengthMin >= 0 && w.StrengthMin <= w.StrengthMax, "wave strength band is inverted")
	check(w.DecayMin > 0 && w.DecayMin <= w.DecayMax && w.DecayMax < 1, "wave decay band must lie within (0, 1)")
	check(w.FrequencyMin <= w.FrequencyMax, "wave frequency band is inverted")

	check(len(b.Rarities) > 0, "at least one rarity is required")
	seen := make(map[string]bool, len(b.Rarities))
	for i, r := range b.Rarities {
		check(r.Name != "", "rarities[%d] needs a name", i)
		check(r.Weight > 0, "rarity %q weight must be positive", r.Name)
		check(!seen[r.Name], "rarity %q is defined twice", r.Name)
		seen[r.Name] = true
	}

	e := b.Economy
	check(e.RefineDuration > 0, "economy.refine_duration must be positive")
	check(e.UpgradeFuelCost >= 0, "economy.upgrade_fuel_cost must not be negative")
	check(e.UpgradeFactor >= 1, "economy.upgrade_factor must be at least 1")

	return errors.Join(errs...)
}
