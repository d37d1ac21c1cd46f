// Package wave produces the decaying ring pulse drawn around planets.
package wave

import (
	"math"
	"math/rand/v2"
)

// Epsilon is the strength below which an oscillator is considered settled.
const Epsilon = 0.1

// Config holds the randomisation bands for an oscillator.
type Config struct {
	Segments     int     // samples around the ring
	StrengthMin  float64 // trigger strength band
	StrengthMax  float64
	DecayMin     float64 // per-update strength multiplier band, fixed per instance
	DecayMax     float64
	FrequencyMin int // angular frequency band, re-rolled on trigger
	FrequencyMax int
	PhaseStep    float64 // phase advance per update
}

// DefaultConfig matches the reactive planet rings.
func DefaultConfig() Config {
	return Config{
		Segments:     64,
		StrengthMin:  3,
		StrengthMax:  6,
		DecayMin:     0.88,
		DecayMax:     0.94,
		FrequencyMin: 4,
		FrequencyMax: 10,
		PhaseStep:    0.25,
	}
}

// Oscillator is a per-segment decaying sinusoid.
// It is idle until Trigger is called and settles on its own.
type Oscillator struct {
	Strength     float64
	Phase        float64
	Decay        float64
	Frequency    int
	NoiseOffsets []float64

	cfg Config
	rng *rand.Rand
}

// New creates a settled oscillator. Decay is drawn once here and never changes.
func New(cfg Config, rng *rand.Rand) *Oscillator {
	if cfg.Segments <= 0 {
		panic("wave: oscillator needs at least one segment")
	}
	o := &Oscillator{
		NoiseOffsets: make([]float64, cfg.Segments),
		cfg:          cfg,
		rng:          rng,
	}
	o.Decay = cfg.DecayMin + rng.Float64()*(cfg.DecayMax-cfg.DecayMin)
	o.reroll()
	return o
}

// Trigger starts a new pulse with a fresh, uncorrelated noise pattern.
func (o *Oscillator) Trigger() {
	o.Strength = o.cfg.StrengthMin + o.rng.Float64()*(o.cfg.StrengthMax-o.cfg.StrengthMin)
	o.Phase = 0
	o.reroll()
}

func (o *Oscillator) reroll() {
	span := o.cfg.FrequencyMax - o.cfg.FrequencyMin + 1
	if span < 1 {
		span = 1
	}
	o.Frequency = o.cfg.FrequencyMin + o.rng.IntN(span)
	for i := range o.NoiseOffsets {
		o.NoiseOffsets[i] = o.rng.Float64() * 2 * math.Pi
	}
}

// Update advances one step. It reports whether the oscillator moved.
func (o *Oscillator) Update() bool {
	if o.Strength <= Epsilon {
		return false
	}
	o.Phase += o.cfg.PhaseStep
	o.Strength *= o.Decay
	return true
}

// Active reports whether the host still needs to redraw this ring.
func (o *Oscillator) Active() bool { return o.Strength > Epsilon }

// Sample returns the radial displacement for a segment at the given angle.
func (o *Oscillator) Sample(segment int, angle float64) float64 {
	offset := o.NoiseOffsets[segment%len(o.NoiseOffsets)]
	return math.Sin(angle*float64(o.Frequency)+o.Phase+offset) * o.Strength
}

// Segments returns the number of samples around the ring.
func (o *Oscillator) Segments() int { return len(o.NoiseOffsets) }
