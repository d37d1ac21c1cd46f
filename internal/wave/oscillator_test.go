package wave

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed>>16|1))
}

func TestNewOscillatorIsSettled(t *testing.T) {
	o := New(DefaultConfig(), testRNG(1))

	assert.False(t, o.Active())
	assert.False(t, o.Update(), "settled oscillator must not advance")
	assert.Equal(t, 0.0, o.Phase)
	assert.GreaterOrEqual(t, o.Decay, 0.88)
	assert.LessOrEqual(t, o.Decay, 0.94)
	assert.Len(t, o.NoiseOffsets, 64)
}

func TestTriggerRandomisesWithinBands(t *testing.T) {
	cfg := DefaultConfig()
	o := New(cfg, testRNG(2))

	for i := 0; i < 200; i++ {
		o.Phase = 3
		o.Trigger()
		require.GreaterOrEqual(t, o.Strength, cfg.StrengthMin)
		require.LessOrEqual(t, o.Strength, cfg.StrengthMax)
		require.GreaterOrEqual(t, o.Frequency, cfg.FrequencyMin)
		require.LessOrEqual(t, o.Frequency, cfg.FrequencyMax)
		require.Equal(t, 0.0, o.Phase)
		for _, off := range o.NoiseOffsets {
			require.GreaterOrEqual(t, off, 0.0)
			require.Less(t, off, 2*math.Pi)
		}
	}
}

func TestTriggerChangesNoisePattern(t *testing.T) {
	o := New(DefaultConfig(), testRNG(3))
	o.Trigger()
	before := append([]float64(nil), o.NoiseOffsets...)
	o.Trigger()
	assert.NotEqual(t, before, o.NoiseOffsets)
}

func TestUpdateDecaysToTermination(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DecayMin, cfg.DecayMax = 0.99, 0.99
	cfg.StrengthMin, cfg.StrengthMax = 50, 50
	o := New(cfg, testRNG(4))
	o.Trigger()

	steps := 0
	for o.Update() {
		steps++
		require.Less(t, steps, 10000, "oscillator never settled")
	}
	assert.False(t, o.Active())
	assert.LessOrEqual(t, o.Strength, Epsilon)
	assert.InDelta(t, float64(steps)*cfg.PhaseStep, o.Phase, 1e-9)

	// sample stays defined once settled
	v := o.Sample(5, 1.0)
	assert.False(t, math.IsNaN(v))
	assert.LessOrEqual(t, math.Abs(v), Epsilon)
}

func TestSampleFormula(t *testing.T) {
	o := New(DefaultConfig(), testRNG(5))
	o.Strength = 4
	o.Phase = 0.5
	o.Frequency = 7
	o.NoiseOffsets[3] = 1.25

	want := math.Sin(0.3*7+0.5+1.25) * 4
	assert.InDelta(t, want, o.Sample(3, 0.3), 1e-12)
	assert.InDelta(t, want, o.Sample(3+len(o.NoiseOffsets), 0.3), 1e-12)
}
