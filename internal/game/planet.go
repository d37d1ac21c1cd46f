package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/spacehole-rogue/orbitminer/internal/wave"
)

// PlanetKind determines what a planet yields.
type PlanetKind uint8

const (
	PlanetHome PlanetKind = iota
	PlanetMineral
	PlanetGas
)

// Planet is a stationary mining target (or the home base).
// Position, radius and rarity never change after creation.
type Planet struct {
	ID         int
	Name       string
	X, Y       float64
	CoreRadius float64
	Level      int
	Kind       PlanetKind
	Rarity     *RarityTier // nil for home and gas planets

	CoreColor RGB
	RingColor RGB
	TextColor RGB

	Rings   []*wave.Oscillator
	RingGap float64

	// Set by the controller; the input layer calls Tap and Hold.
	OnClick func(p *Planet)
	OnHold  func(p *Planet, x, y float64)

	sched   *Scheduler
	stagger time.Duration
	pending []Handle
	active  bool
}

// Point is a world-space coordinate.
type Point struct{ X, Y float64 }

// PlanetSpec carries everything needed to create a planet.
type PlanetSpec struct {
	ID         int
	Name       string
	X, Y       float64
	CoreRadius float64
	Level      int
	Kind       PlanetKind
	Rarity     *RarityTier
	CoreColor  RGB
	RingColor  RGB
	TextColor  RGB
}

// RingSetup configures the oscillators a planet owns.
type RingSetup struct {
	Count   int
	Gap     float64
	Stagger time.Duration
	Wave    wave.Config
}

// NewPlanet creates a planet with its own settled ring oscillators.
func NewPlanet(spec PlanetSpec, rings RingSetup, sched *Scheduler, rng *rand.Rand) *Planet {
	p := &Planet{
		ID:         spec.ID,
		Name:       spec.Name,
		X:          spec.X,
		Y:          spec.Y,
		CoreRadius: spec.CoreRadius,
		Level:      spec.Level,
		Kind:       spec.Kind,
		Rarity:     spec.Rarity,
		CoreColor:  spec.CoreColor,
		RingColor:  spec.RingColor,
		TextColor:  spec.TextColor,
		RingGap:    rings.Gap,
		sched:      sched,
		stagger:    rings.Stagger,
		Rings:      make([]*wave.Oscillator, rings.Count),
		pending:    make([]Handle, rings.Count),
	}
	for i := range p.Rings {
		p.Rings[i] = wave.New(rings.Wave, rng)
	}
	return p
}

// TriggerWave pulses every ring, ring i starting i*stagger after ring 0.
// Retriggering cancels any ring that has not started yet.
func (p *Planet) TriggerWave() {
	for i, ring := range p.Rings {
		p.pending[i].Cancel()
		p.pending[i] = Handle{}

		delay := time.Duration(i) * p.stagger
		if delay <= 0 || p.sched == nil {
			ring.Trigger()
			continue
		}
		p.pending[i] = p.sched.After(delay, ring.Trigger)
	}
	p.active = true
}

// Update steps every ring once and reports whether a redraw is needed.
func (p *Planet) Update() bool {
	active := false
	for i, ring := range p.Rings {
		ring.Update()
		if ring.Active() || p.pending[i].Pending() {
			active = true
		}
	}
	p.active = active
	return active
}

// Active reports the result of the last Update or TriggerWave.
func (p *Planet) Active() bool { return p.active }

// Tap is a short press on the planet.
func (p *Planet) Tap() {
	if p.OnClick != nil {
		p.OnClick(p)
	}
}

// Hold is a long press; the wave gives immediate feedback.
func (p *Planet) Hold(x, y float64) {
	p.TriggerWave()
	if p.OnHold != nil {
		p.OnHold(p, x, y)
	}
}

// RingRadius is the rest radius of ring i.
func (p *Planet) RingRadius(i int) float64 {
	return p.CoreRadius + p.RingGap*float64(i+1)
}

// OuterRadius is the radius of the outermost ring at rest.
func (p *Planet) OuterRadius() float64 {
	return p.RingRadius(len(p.Rings) - 1)
}

// RingPoints returns the displaced outline of ring i, one point per segment.
func (p *Planet) RingPoints(i int) []Point {
	samples := p.RingSamples(i)
	n := len(samples)
	base := p.RingRadius(i)
	pts := make([]Point, n)
	for seg, d := range samples {
		angle := segmentAngle(seg, n)
		r := base + d
		pts[seg] = Point{X: p.X + math.Cos(angle)*r, Y: p.Y + math.Sin(angle)*r}
	}
	return pts
}

// RingSamples returns the radial displacement of each segment of ring i.
// Segment k sits at angle 2πk/n.
func (p *Planet) RingSamples(i int) []float64 {
	ring := p.Rings[i]
	n := ring.Segments()
	out := make([]float64, n)
	for seg := range out {
		out[seg] = ring.Sample(seg, segmentAngle(seg, n))
	}
	return out
}

func segmentAngle(seg, n int) float64 {
	return float64(seg) / float64(n) * 2 * math.Pi
}

// Contains is the hit test used by the input layer.
func (p *Planet) Contains(x, y float64) bool {
	dx, dy := x-p.X, y-p.Y
	r := p.OuterRadius()
	return dx*dx+dy*dy <= r*r
}

// DistanceTo is the centre-to-centre distance.
func (p *Planet) DistanceTo(q *Planet) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// PlanetKindName returns a label for a planet kind.
func PlanetKindName(k PlanetKind) string {
	switch k {
	case PlanetHome:
		return "home"
	case PlanetMineral:
		return "mineral"
	case PlanetGas:
		return "gas"
	default:
		return "unknown"
	}
}
