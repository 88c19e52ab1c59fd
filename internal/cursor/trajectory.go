package cursor

import (
	"math"
)

const (
	// Spread bounds for the default curve bend, in pixels.
	minSpread = 2.0
	maxSpread = 200.0
	// fittsTargetWidth is the nominal target width (W) used to size paths.
	fittsTargetWidth = 100.0
	// maxStepJitter bounds the random term added to every step count.
	maxStepJitter = 25.0
	// arcLengthSegments is the polyline resolution used to measure a curve.
	arcLengthSegments = 128
)

// cubicBezier is a cubic bezier curve through p0 and p3 with control points p1 and p2.
type cubicBezier struct {
	p0, p1, p2, p3 Vector
}

// at evaluates the curve at parameter t in [0, 1].
func (c cubicBezier) at(t float64) Vector {
	omt := 1.0 - t
	omt2 := omt * omt
	omt3 := omt2 * omt
	t2 := t * t
	t3 := t2 * t
	return c.p0.Mul(omt3).Add(c.p1.Mul(3 * omt2 * t)).Add(c.p2.Mul(3 * omt * t2)).Add(c.p3.Mul(t3))
}

// length approximates the arc length by summing a fine polyline.
func (c cubicBezier) length() float64 {
	total := 0.0
	prev := c.p0
	for i := 1; i <= arcLengthSegments; i++ {
		next := c.at(float64(i) / arcLengthSegments)
		total += prev.Dist(next)
		prev = next
	}
	return total
}

// sample returns n points at evenly spaced parameters from t=0 to t=1.
func (c cubicBezier) sample(n int) []Vector {
	if n < 2 {
		n = 2
	}
	points := make([]Vector, n)
	for i := 0; i < n; i++ {
		points[i] = c.at(float64(i) / float64(n-1))
	}
	return points
}

// GenerateBezierAnchors picks two control points that bend the segment a–b
// to one randomly chosen side. Each anchor is drawn independently, which
// keeps the arc asymmetric. The pair is sorted ascending by X.
func GenerateBezierAnchors(rng Float64Source, a, b Vector, spread float64) (Vector, Vector) {
	side := -1.0
	if math.Round(rng.Float64()) == 1 {
		side = 1.0
	}
	anchor := func() Vector {
		mid := RandomPointOnSegment(rng, a, b)
		normal := Direction(a, mid).Perpendicular().SetMag(spread)
		return RandomPointOnSegment(rng, mid, mid.Add(normal.Mul(side)))
	}
	first, second := anchor(), anchor()
	if second.X < first.X {
		first, second = second, first
	}
	return first, second
}

// fittsIndex is the Fitts's law index of difficulty for a move of the given
// distance onto a target of the given width.
func fittsIndex(distance, width float64) float64 {
	return math.Log2(distance/width + 1)
}

// stepCount sizes a path: harder moves get more waypoints, and jitter in
// [0, maxStepJitter) keeps identical moves from producing identical counts.
func stepCount(length, jitter float64) int {
	id := fittsIndex(length, fittsTargetWidth)
	steps := int(math.Ceil((math.Log2(id+1) + jitter) * 3))
	if steps < 2 {
		steps = 2
	}
	return steps
}

// Planner builds waypoint sequences. It is safe for concurrent use when its
// random source is.
type Planner struct {
	rng Float64Source
}

// NewPlanner returns a Planner drawing from rng.
func NewPlanner(rng Float64Source) *Planner {
	return &Planner{rng: rng}
}

// curve builds the bezier between start and end. A spreadOverride <= 0 uses
// the distance clamped to [minSpread, maxSpread].
func (p *Planner) curve(start, end Vector, spreadOverride float64) cubicBezier {
	spread := spreadOverride
	if spread <= 0 {
		spread = math.Min(maxSpread, math.Max(minSpread, start.Dist(end)))
	}
	a1, a2 := GenerateBezierAnchors(p.rng, start, end, spread)
	return cubicBezier{p0: start, p1: a1, p2: a2, p3: end}
}

// Path returns the waypoints from start to end, all clamped non-negative.
// The first waypoint is start and the last is end (before clamping).
func (p *Planner) Path(start, end Vector, spreadOverride float64) []Vector {
	c := p.curve(start, end, spreadOverride)
	// Measured slightly short so sampling density tracks the visible arc.
	length := c.length() * 0.8
	steps := stepCount(length, p.rng.Float64()*maxStepJitter)
	return ClampPositive(c.sample(steps))
}
