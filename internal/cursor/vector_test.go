// internal/cursor/vector_test.go
package cursor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector_Operations(t *testing.T) {
	v1 := Vector{X: 3, Y: 4}
	v2 := Vector{X: 1, Y: 2}

	t.Run("Add", func(t *testing.T) {
		assert.Equal(t, Vector{X: 4, Y: 6}, v1.Add(v2))
	})

	t.Run("Sub", func(t *testing.T) {
		assert.Equal(t, Vector{X: 2, Y: 2}, v1.Sub(v2))
	})

	t.Run("Mul", func(t *testing.T) {
		assert.Equal(t, Vector{X: 6, Y: 8}, v1.Mul(2.0))
	})

	t.Run("Div", func(t *testing.T) {
		assert.Equal(t, Vector{X: 1.5, Y: 2}, v1.Div(2.0))
	})

	t.Run("Mag", func(t *testing.T) {
		assert.Equal(t, 5.0, v1.Mag())
	})

	t.Run("Perpendicular", func(t *testing.T) {
		p := v1.Perpendicular()
		assert.Equal(t, Vector{X: 4, Y: -3}, p)
		// Orthogonal: dot product is zero.
		assert.InDelta(t, 0.0, p.X*v1.X+p.Y*v1.Y, 1e-9)
	})

	t.Run("SetMag", func(t *testing.T) {
		s := v1.SetMag(10)
		assert.InDelta(t, 10.0, s.Mag(), 1e-9)
		assert.InDelta(t, 6.0, s.X, 1e-9)
		assert.InDelta(t, 8.0, s.Y, 1e-9)
	})
}

func TestVector_Unit(t *testing.T) {
	t.Run("Standard", func(t *testing.T) {
		u := Vector{X: 3, Y: 4}.Unit()
		assert.InDelta(t, 1.0, u.Mag(), 1e-9)
		assert.InDelta(t, 0.6, u.X, 1e-9)
		assert.InDelta(t, 0.8, u.Y, 1e-9)
	})

	t.Run("ZeroVector", func(t *testing.T) {
		assert.Equal(t, Vector{}, Vector{}.Unit())
		assert.Equal(t, Vector{}, Vector{}.SetMag(5))
	})
}

func TestDirection_MagnitudeIsDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a := Vector{X: rng.Float64()*2000 - 1000, Y: rng.Float64()*2000 - 1000}
		b := Vector{X: rng.Float64()*2000 - 1000, Y: rng.Float64()*2000 - 1000}
		want := math.Hypot(b.X-a.X, b.Y-a.Y)
		assert.InDelta(t, want, Direction(a, b).Mag(), 1e-9)
		assert.InDelta(t, want, a.Dist(b), 1e-9)
	}
}

func TestRandomPointOnSegment(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := Vector{X: 10, Y: 10}
	b := Vector{X: 110, Y: 60}
	for i := 0; i < 100; i++ {
		p := RandomPointOnSegment(rng, a, b)
		// Collinear with a and b and between them.
		assert.InDelta(t, a.Dist(b), a.Dist(p)+p.Dist(b), 1e-9)
	}
}

func TestClampPositive(t *testing.T) {
	in := []Vector{{X: -1, Y: 5}, {X: 3, Y: -0.5}, {X: -2, Y: -2}, {X: 4, Y: 4}}
	out := ClampPositive(in)

	assert.Equal(t, []Vector{{X: 0, Y: 5}, {X: 3, Y: 0}, {X: 0, Y: 0}, {X: 4, Y: 4}}, out)
	assert.Equal(t, -1.0, in[0].X, "input must not be modified")
}
