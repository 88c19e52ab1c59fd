package cursor

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// trackerScript records the last pointer position and event target in
// window.__ghostcursor. It is idempotent.
//
//go:embed tracker.js
var trackerScript string

// overlayScript draws a dot that follows the pointer. It is idempotent.
//
//go:embed overlay.js
var overlayScript string

const viewportScript = `() => ({ width: window.innerWidth, height: window.innerHeight })`

const actualPositionScript = `() => {
	const state = window.__ghostcursor;
	return state ? { x: state.x, y: state.y } : null;
}`

// verifyTargetScript returns null when the tracker is missing, otherwise
// whether the element last under the pointer matches the selector.
const verifyTargetScript = `(selector) => {
	const state = window.__ghostcursor;
	if (!state) {
		return null;
	}
	const el = state.target || document.elementFromPoint(state.x, state.y);
	if (!el || typeof el.matches !== 'function') {
		return false;
	}
	return el.matches(selector) || el.closest(selector) !== null;
}`

// errTrackerMissing means the page has no tracker installed, so the
// pointer's target cannot be verified.
var errTrackerMissing = errors.New("cursor: position tracker not installed")

// installInstrumentation (re)installs the tracker and, if configured, the
// debug overlay. Failures are logged; the page may not be ready yet and the
// next load reinstalls both.
func (c *Cursor) installInstrumentation(ctx context.Context) {
	if _, err := c.surface.Evaluate(ctx, trackerScript); err != nil {
		c.logger.Debug("Cursor: failed to install position tracker", zap.Error(err))
	}
	if !c.cfg.DebugOverlay {
		return
	}
	if _, err := c.surface.Evaluate(ctx, overlayScript); err != nil {
		c.logger.Debug("Cursor: failed to install debug overlay", zap.Error(err))
	}
}

// evaluateInto runs script and decodes its JSON result into out. It reports
// false when the script returned null or undefined.
func (c *Cursor) evaluateInto(ctx context.Context, out interface{}, script string, args ...interface{}) (bool, error) {
	raw, err := c.surface.Evaluate(ctx, script, args...)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "undefined" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("cursor: failed to decode script result %s: %w", string(raw), err)
	}
	return true, nil
}

// viewportQueryTimeout bounds a shared viewport evaluation.
const viewportQueryTimeout = 10 * time.Second

// viewport reads the inner window size. Concurrent callers (an action and
// the idle loop) share a single evaluation. The shared evaluation runs
// detached from any one caller, so a caller giving up only abandons its own
// wait.
func (c *Cursor) viewport(ctx context.Context) (schemas.ViewportSize, error) {
	if err := ctx.Err(); err != nil {
		return schemas.ViewportSize{}, err
	}
	ch := c.viewportGroup.DoChan("viewport", func() (interface{}, error) {
		queryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewportQueryTimeout)
		defer cancel()

		var size schemas.ViewportSize
		ok, err := c.evaluateInto(queryCtx, &size, viewportScript)
		if err != nil {
			return schemas.ViewportSize{}, err
		}
		if !ok {
			return schemas.ViewportSize{}, errors.New("cursor: viewport query returned no result")
		}
		return size, nil
	})

	select {
	case <-ctx.Done():
		return schemas.ViewportSize{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return schemas.ViewportSize{}, res.Err
		}
		return res.Val.(schemas.ViewportSize), nil
	}
}

// ActualPosition reads the pointer position recorded by the page-side
// tracker. ok is false when the tracker is not installed on the current page.
func (c *Cursor) ActualPosition(ctx context.Context) (pos Vector, ok bool, err error) {
	ok, err = c.evaluateInto(ctx, &pos, actualPositionScript)
	return pos, ok, err
}

// verifyTarget reports whether the element under the pointer matches selector.
func (c *Cursor) verifyTarget(ctx context.Context, selector string) (bool, error) {
	var matched bool
	ok, err := c.evaluateInto(ctx, &matched, verifyTargetScript, selector)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errTrackerMissing
	}
	return matched, nil
}
