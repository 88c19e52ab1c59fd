// internal/browser/session/launch_test.go
package session

import (
	"context"
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/ghostcursor/internal/config"
)

func testBrowserConfig() config.BrowserConfig {
	return config.NewDefaultConfig().Browser()
}

func TestNewLauncher_Flags(t *testing.T) {
	cfg := testBrowserConfig()
	cfg.Headless = false
	cfg.Args = []string{"--lang=en-US", "--mute-audio"}

	l := newLauncher(context.Background(), cfg, "")

	assert.False(t, l.Has(flags.Headless))
	assert.Equal(t, "1280,720", l.Get(flags.Flag("window-size")))
	assert.Equal(t, "AutomationControlled", l.Get(flags.Flag("disable-blink-features")))
	assert.Equal(t, "en-US", l.Get(flags.Flag("lang")))
	assert.True(t, l.Has(flags.Flag("mute-audio")))
}

func TestBuildAllocatorOptions_IncludesCustomArgs(t *testing.T) {
	cfg := testBrowserConfig()
	base := buildAllocatorOptions(cfg, "")

	cfg.Args = []string{"--lang=en-US", "--mute-audio"}
	withArgs := buildAllocatorOptions(cfg, "/usr/bin/chromium")

	// Two custom flags plus the exec path.
	assert.Len(t, withArgs, len(base)+3)
}

func TestLaunch_RejectsInvalidConfig(t *testing.T) {
	cfg := testBrowserConfig()
	cfg.Driver = "selenium"

	_, err := Launch(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid browser configuration")
}
