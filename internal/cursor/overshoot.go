package cursor

import "math"

// ShouldOvershoot reports whether a move from a to b is long enough to aim
// past the destination and correct back.
func ShouldOvershoot(a, b Vector) bool {
	return Direction(a, b).Mag() > overshootThreshold
}

// Overshoot displaces p in a uniformly random direction by up to radius.
// The sqrt keeps the result uniform over the disc's area rather than
// clustering near p.
func Overshoot(rng Float64Source, p Vector, radius float64) Vector {
	angle := rng.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(rng.Float64())
	return p.Add(Vector{X: r * math.Cos(angle), Y: r * math.Sin(angle)})
}
