// File: internal/config/cursor_config.go
package config

import (
	"math/rand"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/ghostcursor/internal/cursor"
)

// CursorConfig is the file representation of cursor.Config. It exposes the
// engine's overshoot, idle wandering and scroll tuning to the config file.
type CursorConfig struct {
	cursor.Config `mapstructure:",squash" yaml:",inline"`
	// Seed, when non-zero, seeds the cursor's random source so every
	// trajectory is reproducible.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// Build returns the cursor.Config for a new cursor. Each call creates a
// fresh random source.
func (c CursorConfig) Build() cursor.Config {
	cfg := c.Config
	if c.Seed != 0 {
		cfg.Rng = rand.New(rand.NewSource(c.Seed))
	}
	return cfg
}

func setCursorDefaults(v *viper.Viper) {
	d := cursor.DefaultConfig()
	v.SetDefault("cursor.overshoot_spread", d.OvershootSpread)
	v.SetDefault("cursor.overshoot_radius", d.OvershootRadius)
	v.SetDefault("cursor.debug_overlay", d.DebugOverlay)
	v.SetDefault("cursor.idle_enabled", d.IdleEnabled)
	v.SetDefault("cursor.idle_interval", d.IdleInterval.String())
	v.SetDefault("cursor.selector_timeout", d.SelectorTimeout.String())
	v.SetDefault("cursor.max_scroll_attempts", d.MaxScrollAttempts)
	v.SetDefault("cursor.scroll_timeout", d.ScrollTimeout.String())
	v.SetDefault("cursor.scroll_step_max", d.ScrollStepMax)
	v.SetDefault("cursor.seed", 0)
}
