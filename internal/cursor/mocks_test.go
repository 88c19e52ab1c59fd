// internal/cursor/mocks_test.go
package cursor

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// surfaceCall is one recorded primitive invocation.
type surfaceCall struct {
	Op       string
	X, Y     float64
	Selector string
}

// mockSurface implements Surface for testing. It is centralized here so every
// test in the package shares the same recording behavior.
//
// Overrides must not call back into the Cursor: most surface calls happen
// while the cursor holds its action and trace locks.
type mockSurface struct {
	t  *testing.T
	mu sync.Mutex

	calls          []surfaceCall
	sleepDurations []time.Duration
	onLoad         []func(ctx context.Context)

	viewport schemas.ViewportSize
	// boxes maps selectors to their current box. A missing entry makes
	// LocateBoundingBox report (nil, nil).
	boxes map[string]schemas.BoundingBox
	// verifyResult is the raw JSON returned by the target verification script.
	verifyResult string
	// evaluateErr, when set, fails every default Evaluate.
	evaluateErr error

	// Overrides replace the default behavior when set.
	MockEvaluate          func(ctx context.Context, script string, args []interface{}) (json.RawMessage, error)
	MockMoveTo            func(ctx context.Context, x, y float64) error
	MockScrollBy          func(ctx context.Context, dx, dy float64) error
	MockLocateBoundingBox func(ctx context.Context, selector string) (*schemas.BoundingBox, error)
	MockWaitForSelector   func(ctx context.Context, selector string, timeout time.Duration) error
	MockNativeClick       func(ctx context.Context, selector string, opts NativeClickOptions) error
	MockSleep             func(ctx context.Context, d time.Duration) error
}

func newMockSurface(t *testing.T) *mockSurface {
	return &mockSurface{
		t:            t,
		viewport:     schemas.ViewportSize{Width: 1280, Height: 720},
		boxes:        make(map[string]schemas.BoundingBox),
		verifyResult: "true",
	}
}

func (m *mockSurface) record(call surfaceCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockSurface) Evaluate(ctx context.Context, script string, args ...interface{}) (json.RawMessage, error) {
	if m.MockEvaluate != nil {
		return m.MockEvaluate(ctx, script, args)
	}
	return m.DefaultEvaluate(ctx, script, args)
}

// DefaultEvaluate answers the scripts the cursor is known to run.
func (m *mockSurface) DefaultEvaluate(ctx context.Context, script string, args []interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.record(surfaceCall{Op: "evaluate"})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.evaluateErr != nil {
		return nil, m.evaluateErr
	}
	switch script {
	case viewportScript:
		return json.Marshal(m.viewport)
	case trackerScript, overlayScript:
		return json.RawMessage("true"), nil
	case actualPositionScript:
		var last Vector
		for _, c := range m.calls {
			if c.Op == "move" {
				last = Vector{X: c.X, Y: c.Y}
			}
		}
		return json.Marshal(last)
	case verifyTargetScript:
		return json.RawMessage(m.verifyResult), nil
	}
	return nil, fmt.Errorf("mockSurface: unexpected script %q", script)
}

func (m *mockSurface) MoveTo(ctx context.Context, x, y float64) error {
	if m.MockMoveTo != nil {
		return m.MockMoveTo(ctx, x, y)
	}
	return m.DefaultMoveTo(ctx, x, y)
}

func (m *mockSurface) DefaultMoveTo(ctx context.Context, x, y float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.record(surfaceCall{Op: "move", X: x, Y: y})
	return nil
}

func (m *mockSurface) PressDown(ctx context.Context) error {
	m.record(surfaceCall{Op: "press"})
	return nil
}

// ReleaseUp is always recorded, even on a cancelled context, since the
// cursor releases with a detached context after an interrupted hold.
func (m *mockSurface) ReleaseUp(ctx context.Context) error {
	m.record(surfaceCall{Op: "release"})
	return nil
}

func (m *mockSurface) ScrollBy(ctx context.Context, dx, dy float64) error {
	if m.MockScrollBy != nil {
		return m.MockScrollBy(ctx, dx, dy)
	}
	return m.DefaultScrollBy(ctx, dx, dy)
}

// DefaultScrollBy shifts every known box the way a page scroll would.
func (m *mockSurface) DefaultScrollBy(ctx context.Context, dx, dy float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.record(surfaceCall{Op: "scroll", X: dx, Y: dy})
	m.mu.Lock()
	defer m.mu.Unlock()
	for sel, b := range m.boxes {
		b.X -= dx
		b.Y -= dy
		m.boxes[sel] = b
	}
	return nil
}

func (m *mockSurface) LocateBoundingBox(ctx context.Context, selector string) (*schemas.BoundingBox, error) {
	if m.MockLocateBoundingBox != nil {
		return m.MockLocateBoundingBox(ctx, selector)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boxes[selector]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *mockSurface) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if m.MockWaitForSelector != nil {
		return m.MockWaitForSelector(ctx, selector, timeout)
	}
	m.record(surfaceCall{Op: "wait", Selector: selector})
	m.mu.Lock()
	_, ok := m.boxes[selector]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("waiting for %q: %w", selector, context.DeadlineExceeded)
	}
	return nil
}

func (m *mockSurface) OnLoad(handler func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLoad = append(m.onLoad, handler)
}

func (m *mockSurface) NativeClick(ctx context.Context, selector string, opts NativeClickOptions) error {
	if m.MockNativeClick != nil {
		return m.MockNativeClick(ctx, selector, opts)
	}
	m.record(surfaceCall{Op: "native_click", Selector: selector, X: float64(opts.Count)})
	return nil
}

func (m *mockSurface) Sleep(ctx context.Context, d time.Duration) error {
	if m.MockSleep != nil {
		return m.MockSleep(ctx, d)
	}
	return m.DefaultSleep(ctx, d)
}

func (m *mockSurface) DefaultSleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleepDurations = append(m.sleepDurations, d)
	return nil
}

// -- inspection helpers --

func (m *mockSurface) setBox(selector string, box schemas.BoundingBox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boxes[selector] = box
}

func (m *mockSurface) recorded() []surfaceCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]surfaceCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// ops returns the recorded operation names, optionally filtered.
func (m *mockSurface) ops(only ...string) []string {
	keep := make(map[string]bool, len(only))
	for _, o := range only {
		keep[o] = true
	}
	var out []string
	for _, c := range m.recorded() {
		if len(only) == 0 || keep[c.Op] {
			out = append(out, c.Op)
		}
	}
	return out
}

func (m *mockSurface) moves() []Vector {
	var out []Vector
	for _, c := range m.recorded() {
		if c.Op == "move" {
			out = append(out, Vector{X: c.X, Y: c.Y})
		}
	}
	return out
}

func (m *mockSurface) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.sleepDurations = nil
}

// testConfig is DefaultConfig with idle wandering off and a seeded source.
func testConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.IdleEnabled = false
	cfg.Rng = rand.New(rand.NewSource(seed))
	return cfg
}

// newTestCursor builds a cursor on a fresh mock surface and closes it when
// the test ends.
func newTestCursor(t *testing.T, cfg Config) (*Cursor, *mockSurface) {
	t.Helper()
	surface := newMockSurface(t)
	c, err := New(context.Background(), surface, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	surface.reset()
	return c, surface
}
