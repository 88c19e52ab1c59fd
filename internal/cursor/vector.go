// internal/cursor/vector.go
package cursor

import "math"

// Vector represents a point or displacement in viewport coordinates.
// It is an immutable value; every operation returns a new Vector.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Float64Source is the subset of *rand.Rand used by the geometry helpers.
type Float64Source interface {
	Float64() float64
}

// Add performs vector addition, returning `v + other`.
func (v Vector) Add(other Vector) Vector {
	return Vector{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub performs vector subtraction, returning `v - other`.
func (v Vector) Sub(other Vector) Vector {
	return Vector{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul performs scalar multiplication.
func (v Vector) Mul(scalar float64) Vector {
	return Vector{X: v.X * scalar, Y: v.Y * scalar}
}

// Div performs scalar division.
func (v Vector) Div(scalar float64) Vector {
	return Vector{X: v.X / scalar, Y: v.Y / scalar}
}

// Mag returns the Euclidean length of the vector.
func (v Vector) Mag() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Unit returns the vector scaled to length 1. The zero vector has no
// direction and maps to the zero vector.
func (v Vector) Unit() Vector {
	mag := v.Mag()
	if mag < 1e-9 {
		return Vector{}
	}
	return v.Div(mag)
}

// Perpendicular returns v rotated by -90 degrees, (y, -x).
func (v Vector) Perpendicular() Vector {
	return Vector{X: v.Y, Y: -v.X}
}

// SetMag returns a vector with v's direction and the given length.
func (v Vector) SetMag(amount float64) Vector {
	return v.Unit().Mul(amount)
}

// Dist returns the Euclidean distance between v and other.
func (v Vector) Dist(other Vector) float64 {
	return Direction(v, other).Mag()
}

// Direction returns the displacement from a to b.
func Direction(a, b Vector) Vector {
	return b.Sub(a)
}

// RandomPointOnSegment returns a uniform random point on the segment a–b.
func RandomPointOnSegment(rng Float64Source, a, b Vector) Vector {
	return a.Add(Direction(a, b).Mul(rng.Float64()))
}

// ClampPositive maps every negative component to zero. The input is not modified.
func ClampPositive(vectors []Vector) []Vector {
	out := make([]Vector, len(vectors))
	for i, v := range vectors {
		out[i] = Vector{X: math.Max(0, v.X), Y: math.Max(0, v.Y)}
	}
	return out
}
