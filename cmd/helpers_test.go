// File: cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
	"github.com/xkilldash9x/ghostcursor/internal/browser/session"
	"github.com/xkilldash9x/ghostcursor/internal/config"
	"github.com/xkilldash9x/ghostcursor/internal/cursor"
	"github.com/xkilldash9x/ghostcursor/internal/observability"
)

// fakeSession is an in-memory browser page with one 80x30 button.
type fakeSession struct {
	mu        sync.Mutex
	cfg       config.BrowserConfig
	navigated []string
	ops       []string
	closed    bool
	boxes     map[string]schemas.BoundingBox
}

var _ session.Session = (*fakeSession)(nil)

func newFakeSession() *fakeSession {
	return &fakeSession{boxes: map[string]schemas.BoundingBox{
		"#go": {X: 100, Y: 100, Width: 80, Height: 30},
	}}
}

func (f *fakeSession) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
}

func (f *fakeSession) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

// Evaluate answers every script with the viewport size, which is all the
// cursor needs to decode; instrumentation results are ignored.
func (f *fakeSession) Evaluate(ctx context.Context, script string, args ...interface{}) (json.RawMessage, error) {
	return json.RawMessage(`{"width":1280,"height":720}`), nil
}

func (f *fakeSession) MoveTo(ctx context.Context, x, y float64) error {
	f.record("move")
	return nil
}

func (f *fakeSession) PressDown(ctx context.Context) error {
	f.record("press")
	return nil
}

func (f *fakeSession) ReleaseUp(ctx context.Context) error {
	f.record("release")
	return nil
}

func (f *fakeSession) ScrollBy(ctx context.Context, dx, dy float64) error {
	f.record("scroll")
	return nil
}

func (f *fakeSession) LocateBoundingBox(ctx context.Context, selector string) (*schemas.BoundingBox, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boxes[selector]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (f *fakeSession) OnLoad(handler func(ctx context.Context)) {}

func (f *fakeSession) NativeClick(ctx context.Context, selector string, opts cursor.NativeClickOptions) error {
	f.record("native_click")
	return nil
}

func (f *fakeSession) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// setupCmdTest resets the global logger and swaps the browser launcher for
// a fake session.
func setupCmdTest(t *testing.T) *fakeSession {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	fake := newFakeSession()
	original := launchSession
	launchSession = func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (session.Session, error) {
		fake.mu.Lock()
		fake.cfg = cfg
		fake.mu.Unlock()
		return fake, nil
	}
	t.Cleanup(func() { launchSession = original })
	return fake
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
