// Package fx holds short-lived visual entities: mining particles and transit trails.
// They live in their own ECS world so the simulation never depends on them.
package fx

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"
)

// Kind separates trail dots from mining sparks.
type Kind uint8

const (
	KindTrail Kind = iota
	KindSpark
)

// Lifetimes and motion for each kind.
const (
	TrailLife  = 400 * time.Millisecond
	SparkLife  = 600 * time.Millisecond
	sparkSpeed = 40.0 // world units per second
)

// Position is a world-space point.
type Position struct{ X, Y float64 }

// Velocity is in world units per second.
type Velocity struct{ X, Y float64 }

// Life counts down to removal.
type Life struct {
	Remaining time.Duration
	Total     time.Duration
}

// Source ties an entity to the ship that emitted it.
type Source struct {
	Ship int
	Kind Kind
}

// Particle is the read-only view handed to renderers.
type Particle struct {
	X, Y  float64
	Ship  int
	Kind  Kind
	Alpha float64 // 1 when fresh, 0 when about to expire
}

// Field owns all live particles.
type Field struct {
	world   *ecs.World
	builder *ecs.Map4[Position, Velocity, Life, Source]
	filter  *ecs.Filter4[Position, Velocity, Life, Source]
	rng     *rand.Rand
	doomed  []ecs.Entity
}

// NewField creates an empty field.
func NewField(rng *rand.Rand) *Field {
	w := ecs.NewWorld(256)
	return &Field{
		world:   w,
		builder: ecs.NewMap4[Position, Velocity, Life, Source](w),
		filter:  ecs.NewFilter4[Position, Velocity, Life, Source](w),
		rng:     rng,
	}
}

// Trail drops a stationary fading dot behind a travelling ship.
func (f *Field) Trail(ship int, x, y float64) {
	f.builder.NewEntity(
		&Position{X: x, Y: y},
		&Velocity{},
		&Life{Remaining: TrailLife, Total: TrailLife},
		&Source{Ship: ship, Kind: KindTrail},
	)
}

// Spark throws a particle outward from a mining ship in a random direction.
func (f *Field) Spark(ship int, x, y float64) {
	angle := f.rng.Float64() * 2 * math.Pi
	speed := sparkSpeed * (0.5 + f.rng.Float64())
	f.builder.NewEntity(
		&Position{X: x, Y: y},
		&Velocity{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
		&Life{Remaining: SparkLife, Total: SparkLife},
		&Source{Ship: ship, Kind: KindSpark},
	)
}

// ClearSparks removes every spark emitted by a ship. Trails fade on their own.
func (f *Field) ClearSparks(ship int) {
	f.sweep(func(src *Source, _ *Life) bool {
		return src.Ship == ship && src.Kind == KindSpark
	})
}

// ClearShip removes everything a ship emitted.
func (f *Field) ClearShip(ship int) {
	f.sweep(func(src *Source, _ *Life) bool { return src.Ship == ship })
}

// Update moves and ages particles, dropping the expired ones.
func (f *Field) Update(dt time.Duration) {
	secs := dt.Seconds()
	query := f.filter.Query()
	for query.Next() {
		pos, vel, life, _ := query.Get()
		pos.X += vel.X * secs
		pos.Y += vel.Y * secs
		life.Remaining -= dt
		if life.Remaining <= 0 {
			f.doomed = append(f.doomed, query.Entity())
		}
	}
	f.flush()
}

// Each visits every live particle.
func (f *Field) Each(fn func(Particle)) {
	query := f.filter.Query()
	for query.Next() {
		pos, _, life, src := query.Get()
		alpha := 0.0
		if life.Total > 0 {
			alpha = float64(life.Remaining) / float64(life.Total)
		}
		fn(Particle{X: pos.X, Y: pos.Y, Ship: src.Ship, Kind: src.Kind, Alpha: alpha})
	}
}

// Count returns live particles, optionally filtered by ship and kind.
func (f *Field) Count(ship int, kind Kind) int {
	n := 0
	f.Each(func(p Particle) {
		if p.Ship == ship && p.Kind == kind {
			n++
		}
	})
	return n
}

// Len returns the number of live particles.
func (f *Field) Len() int {
	n := 0
	f.Each(func(Particle) { n++ })
	return n
}

func (f *Field) sweep(match func(*Source, *Life) bool) {
	query := f.filter.Query()
	for query.Next() {
		_, _, life, src := query.Get()
		if match(src, life) {
			f.doomed = append(f.doomed, query.Entity())
		}
	}
	f.flush()
}

// flush removes collected entities once no query holds the world lock.
func (f *Field) flush() {
	for _, e := range f.doomed {
		if f.world.Alive(e) {
			f.world.RemoveEntity(e)
		}
	}
	f.doomed = f.doomed[:0]
}
