package fx

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestField() *Field {
	return NewField(rand.New(rand.NewPCG(7, 11)))
}

func TestSparksMoveAndExpire(t *testing.T) {
	f := newTestField()
	f.Spark(1, 100, 100)
	f.Spark(1, 100, 100)

	f.Update(100 * time.Millisecond)
	assert.Equal(t, 2, f.Count(1, KindSpark))
	f.Each(func(p Particle) {
		assert.NotEqual(t, [2]float64{100, 100}, [2]float64{p.X, p.Y}, "spark should have moved")
		assert.InDelta(t, 500.0/600.0, p.Alpha, 1e-9)
	})

	f.Update(SparkLife)
	assert.Equal(t, 0, f.Len())
}

func TestTrailStaysPut(t *testing.T) {
	f := newTestField()
	f.Trail(2, 5, 6)
	f.Update(TrailLife / 2)

	var got []Particle
	f.Each(func(p Particle) { got = append(got, p) })
	if assert.Len(t, got, 1) {
		assert.Equal(t, 5.0, got[0].X)
		assert.Equal(t, 6.0, got[0].Y)
		assert.Equal(t, KindTrail, got[0].Kind)
	}
}

func TestClearSparksKeepsTrailsAndOtherShips(t *testing.T) {
	f := newTestField()
	f.Spark(1, 0, 0)
	f.Spark(1, 0, 0)
	f.Trail(1, 0, 0)
	f.Spark(2, 0, 0)

	f.ClearSparks(1)

	assert.Equal(t, 0, f.Count(1, KindSpark))
	assert.Equal(t, 1, f.Count(1, KindTrail))
	assert.Equal(t, 1, f.Count(2, KindSpark))

	f.ClearShip(2)
	assert.Equal(t, 1, f.Len())
}
