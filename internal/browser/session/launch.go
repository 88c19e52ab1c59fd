// internal/browser/session/launch.go
package session

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/internal/config"
	"github.com/xkilldash9x/ghostcursor/internal/cursor"
)

// Session is a launched browser with one page that a cursor can drive.
type Session interface {
	cursor.Surface
	Navigate(ctx context.Context, url string) error
	Close() error
}

// Launch starts a browser with the configured driver and opens a blank page.
func Launch(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid browser configuration: %w", err)
	}

	execPath := cfg.ExecPath
	if execPath == "" {
		if found, ok := launcher.LookPath(); ok {
			execPath = found
		}
	}

	logger.Info("Launching browser...",
		zap.String("driver", cfg.Driver),
		zap.Bool("headless", cfg.Headless),
		zap.String("exec_path", execPath))

	switch cfg.Driver {
	case config.DriverRod:
		return launchRod(ctx, cfg, execPath, logger)
	default:
		return launchCDP(ctx, cfg, execPath, logger)
	}
}

// -- chromedp --

type cdpSession struct {
	*CDPSurface
	cfg         config.BrowserConfig
	allocCancel context.CancelFunc
	ctxCancel   context.CancelFunc
}

// buildAllocatorOptions assembles the flags for a configurable browser instance.
func buildAllocatorOptions(cfg config.BrowserConfig, execPath string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("enable-automation", false),
		// Hide navigator.webdriver from the page.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(cfg.Viewport.Width, cfg.Viewport.Height),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	// Add custom arguments from the config file.
	for _, arg := range cfg.Args {
		name, value := flagPair(arg)
		if value != "" {
			opts = append(opts, chromedp.Flag(name, value))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	// Add flags required for running inside containers (e.g., Docker on Linux).
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}
	return opts
}

func launchCDP(ctx context.Context, cfg config.BrowserConfig, execPath string, logger *zap.Logger) (Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, buildAllocatorOptions(cfg, execPath)...)
	browserCtx, ctxCancel := chromedp.NewContext(allocCtx)

	// The first Run starts the browser. Its context must be the browser
	// context itself; a derived deadline would tear the browser down.
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(cfg.Viewport.Width), int64(cfg.Viewport.Height)),
		chromedp.Navigate("about:blank"),
	)
	if err != nil {
		ctxCancel()
		allocCancel()
		return nil, fmt.Errorf("browser failed to start or respond: %w", err)
	}

	logger.Info("Browser launched successfully and is responsive.")
	return &cdpSession{
		CDPSurface:  NewCDPSurface(browserCtx, cfg.PollingRateHz, logger),
		cfg:         cfg,
		allocCancel: allocCancel,
		ctxCancel:   ctxCancel,
	}, nil
}

func (s *cdpSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()
	return s.CDPSurface.Navigate(navCtx, url)
}

// Close shuts the browser down gracefully and releases the allocator.
func (s *cdpSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.ctxCancel()
	s.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

// -- go-rod --

type rodSession struct {
	*RodSurface
	cfg      config.BrowserConfig
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func newLauncher(ctx context.Context, cfg config.BrowserConfig, execPath string) *launcher.Launcher {
	l := launcher.New().Context(ctx).Headless(cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", cfg.Viewport.Width, cfg.Viewport.Height))
	if execPath != "" {
		l = l.Bin(execPath)
	}
	for _, arg := range cfg.Args {
		name, value := flagPair(arg)
		if value != "" {
			l = l.Set(flags.Flag(name), value)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	if runtime.GOOS == "linux" {
		l = l.NoSandbox(true)
	}
	return l
}

func launchRod(ctx context.Context, cfg config.BrowserConfig, execPath string, logger *zap.Logger) (Session, error) {
	l := newLauncher(ctx, cfg, execPath)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL).NoDefaultDevice()
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Viewport.Width,
		Height:            cfg.Viewport.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	logger.Info("Browser launched successfully and is responsive.")
	return &rodSession{
		RodSurface: NewRodSurface(page, cfg.PollingRateHz, logger),
		cfg:        cfg,
		browser:    browser,
		launcher:   l,
	}, nil
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()
	return s.RodSurface.Navigate(navCtx, url)
}

// Close closes the browser and removes its temporary profile.
func (s *rodSession) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
