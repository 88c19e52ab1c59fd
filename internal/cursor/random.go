package cursor

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// source serializes access to a *rand.Rand. The idle goroutine and user
// actions draw from the same source.
type source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSource(rng *rand.Rand) *source {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &source{rng: rng}
}

// Float64 returns a uniform value in [0, 1).
func (s *source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Intn returns a uniform value in [0, n).
func (s *source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Range returns a uniform value in [min, max).
func (s *source) Range(min, max float64) float64 {
	return s.Float64()*(max-min) + min
}

// Value returns an integer in [ceil(min), floor(max)), or ceil(min) when the
// range is empty.
func (s *source) Value(min, max float64) int {
	lo := int(math.Ceil(min))
	hi := int(math.Floor(max))
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo)
}

// validate rejects ranges with a negative bound or Min > Max.
func (d DelayRange) validate(name string) error {
	if d.Min < 0 || d.Max < 0 {
		return fmt.Errorf("%w: %s must not be negative (got [%d, %d])", ErrInvalidParameter, name, d.Min, d.Max)
	}
	if d.Min > d.Max {
		return fmt.Errorf("%w: %s min exceeds max (got [%d, %d])", ErrInvalidParameter, name, d.Min, d.Max)
	}
	return nil
}

// delay draws a duration from d. d must already be validated.
func (s *source) delay(d DelayRange) time.Duration {
	return time.Duration(s.Value(float64(d.Min), float64(d.Max))) * time.Millisecond
}
