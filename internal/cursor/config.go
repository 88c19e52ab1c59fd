// internal/cursor/config.go
package cursor

import (
	"fmt"
	"math/rand"
	"time"
)

// overshootThreshold is the move distance in pixels above which the cursor
// aims past its destination and corrects back.
const overshootThreshold = 500.0

// Config holds the tunable parameters of a Cursor.
type Config struct {
	// Overshoot Behavior
	OvershootSpread float64 `json:"overshoot_spread" yaml:"overshoot_spread" mapstructure:"overshoot_spread"`
	OvershootRadius float64 `json:"overshoot_radius" yaml:"overshoot_radius" mapstructure:"overshoot_radius"`

	// Page Instrumentation
	DebugOverlay bool `json:"debug_overlay" yaml:"debug_overlay" mapstructure:"debug_overlay"`

	// Idle Wandering
	IdleEnabled  bool          `json:"idle_enabled" yaml:"idle_enabled" mapstructure:"idle_enabled"`
	IdleInterval time.Duration `json:"idle_interval" yaml:"idle_interval" mapstructure:"idle_interval"`

	// Target Resolution
	SelectorTimeout   time.Duration `json:"selector_timeout" yaml:"selector_timeout" mapstructure:"selector_timeout"`
	MaxScrollAttempts int           `json:"max_scroll_attempts" yaml:"max_scroll_attempts" mapstructure:"max_scroll_attempts"`
	ScrollTimeout     time.Duration `json:"scroll_timeout" yaml:"scroll_timeout" mapstructure:"scroll_timeout"`
	ScrollStepMax     float64       `json:"scroll_step_max" yaml:"scroll_step_max" mapstructure:"scroll_step_max"`

	// Rng is the single random source for every draw the cursor makes.
	// A nil Rng is seeded from the clock.
	Rng *rand.Rand `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		OvershootSpread:   10,
		OvershootRadius:   120,
		DebugOverlay:      true,
		IdleEnabled:       true,
		IdleInterval:      2 * time.Second,
		SelectorTimeout:   30 * time.Second,
		MaxScrollAttempts: 40,
		ScrollTimeout:     15 * time.Second,
		ScrollStepMax:     300,
	}
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.OvershootSpread <= 0 {
		return fmt.Errorf("%w: overshoot_spread must be positive", ErrInvalidParameter)
	}
	if c.OvershootRadius < 0 {
		return fmt.Errorf("%w: overshoot_radius must not be negative", ErrInvalidParameter)
	}
	if c.IdleEnabled && c.IdleInterval <= 0 {
		return fmt.Errorf("%w: idle_interval must be positive when idle wandering is enabled", ErrInvalidParameter)
	}
	if c.SelectorTimeout <= 0 {
		return fmt.Errorf("%w: selector_timeout must be positive", ErrInvalidParameter)
	}
	if c.MaxScrollAttempts <= 0 {
		return fmt.Errorf("%w: max_scroll_attempts must be positive", ErrInvalidParameter)
	}
	if c.ScrollTimeout <= 0 {
		return fmt.Errorf("%w: scroll_timeout must be positive", ErrInvalidParameter)
	}
	if c.ScrollStepMax <= 0 {
		return fmt.Errorf("%w: scroll_step_max must be positive", ErrInvalidParameter)
	}
	return nil
}
