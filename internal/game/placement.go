package game

import (
	"math"
	"math/rand/v2"

	"github.com/spacehole-rogue/orbitminer/internal/world"
)

// PlacementGenerator finds room for newly discovered planets.
// The search annulus grows outward as the map fills.
type PlacementGenerator struct {
	cfg      world.PlacementBalance
	rarities *RarityTable
	gas      world.Theme
	rng      *rand.Rand
}

// NewPlacementGenerator creates a generator drawing from rng.
func NewPlacementGenerator(cfg world.PlacementBalance, rarities *RarityTable, gas world.Theme, rng *rand.Rand) *PlacementGenerator {
	return &PlacementGenerator{cfg: cfg, rarities: rarities, gas: gas, rng: rng}
}

// Place picks a position, size and look for the next planet.
// It reports false when every attempt collided; nothing is changed in that case.
// The returned spec has no ID or name; the caller assigns those.
func (g *PlacementGenerator) Place(home *Planet, planets []*Planet) (PlanetSpec, bool) {
	n := float64(len(planets))
	minDist := g.cfg.BaseMinDistance + n*g.cfg.DistanceStep
	maxDist := g.cfg.BaseMaxDistance + n*g.cfg.DistanceStep

	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		angle := g.rng.Float64() * 2 * math.Pi
		dist := minDist + g.rng.Float64()*(maxDist-minDist)
		level := g.cfg.MinLevel + g.rng.IntN(g.cfg.MaxLevel-g.cfg.MinLevel+1)
		core := g.cfg.RadiusBase + float64(level)*g.cfg.RadiusPerLevel

		x := home.X + math.Cos(angle)*dist
		y := home.Y + math.Sin(angle)*dist
		if g.collides(x, y, core, home, planets) {
			continue
		}

		spec := PlanetSpec{X: x, Y: y, CoreRadius: core, Level: level}
		g.classify(&spec)
		return spec, true
	}
	return PlanetSpec{}, false
}

// MinSeparation is the closest two planets of these core radii may sit
// when the first is the one being placed.
func (g *PlacementGenerator) MinSeparation(core, other float64) float64 {
	return core + other + core + g.cfg.Buffer
}

func (g *PlacementGenerator) collides(x, y, core float64, home *Planet, planets []*Planet) bool {
	if g.tooClose(x, y, core, home) {
		return true
	}
	for _, p := range planets {
		if g.tooClose(x, y, core, p) {
			return true
		}
	}
	return false
}

func (g *PlacementGenerator) tooClose(x, y, core float64, p *Planet) bool {
	return math.Hypot(x-p.X, y-p.Y) < g.MinSeparation(core, p.CoreRadius)
}

func (g *PlacementGenerator) classify(spec *PlanetSpec) {
	if g.rng.Float64() < g.cfg.GasChance {
		spec.Kind = PlanetGas
		spec.CoreColor = RGBFromConfig(g.gas.CoreColor)
		spec.RingColor = RGBFromConfig(g.gas.RingColor)
		spec.TextColor = RGBFromConfig(g.gas.TextColor)
		return
	}

	tier := g.rarities.Pick(g.rng)
	spec.Kind = PlanetMineral
	spec.Rarity = tier
	spec.CoreColor = tier.BaseColor.Offset(-g.cfg.CoreDarken).Jitter(g.rng, g.cfg.ColorJitter)
	spec.RingColor = tier.BaseColor.Jitter(g.rng, g.cfg.ColorJitter)
	spec.TextColor = tier.TextColor
}
