// internal/browser/session/cdp_surface.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
	"github.com/xkilldash9x/ghostcursor/internal/cursor"
)

// mouseEventTimeout bounds a single dispatched mouse event.
const mouseEventTimeout = 10 * time.Second

// CDPSurface implements cursor.Surface using chromedp actions. This bridges
// the browser-agnostic cursor with the concrete CDP implementation.
type CDPSurface struct {
	*pointer

	ctx            context.Context // This should be the session's master context
	logger         *zap.Logger
	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error
}

var _ cursor.Surface = (*CDPSurface)(nil)

// NewCDPSurface creates a surface for the chromedp target carried by ctx.
// pollingRateHz caps the pointer move rate; zero or less disables the cap.
func NewCDPSurface(ctx context.Context, pollingRateHz float64, logger *zap.Logger) *CDPSurface {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CDPSurface{
		ctx:    ctx,
		logger: logger.Named("surface.cdp"),
	}
	s.runActionsFunc = s.runActions
	s.pointer = newPointer(pollingRateHz, s.dispatchMouseEvent)
	return s
}

// runActions executes actions against the session target. It is canceled
// when either the session or the operational context ends, and reports the
// operational context's error in the latter case.
func (s *CDPSurface) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}

// dispatchMouseEvent dispatches a single mouse event via CDP.
func (s *CDPSurface) dispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	p := input.DispatchMouseEvent(input.MouseType(data.Type), data.X, data.Y).
		WithButton(input.MouseButton(data.Button)).
		WithButtons(data.Buttons).
		WithClickCount(int64(data.ClickCount))

	// Add wheel delta only for mouseWheel events
	if data.Type == schemas.MouseWheel {
		p = p.WithDeltaX(data.DeltaX).WithDeltaY(data.DeltaY)
	}

	opCtx, cancel := context.WithTimeout(ctx, mouseEventTimeout)
	defer cancel()

	err := s.runActionsFunc(opCtx, p)
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		s.logger.Debug("CDPSurface mouse event timed out.", zap.String("type", string(data.Type)), zap.Duration("timeout", mouseEventTimeout))
		return fmt.Errorf("cdp: %s timed out after %v: %w", data.Type, mouseEventTimeout, opCtx.Err())
	}
	return err
}

// Evaluate runs a function expression with JSON-encoded arguments and
// returns the JSON value it produced. An undefined result reads as null.
func (s *CDPSurface) Evaluate(ctx context.Context, script string, args ...interface{}) (json.RawMessage, error) {
	expr, err := buildExpression(script, args)
	if err != nil {
		return nil, err
	}

	var obj *runtime.RemoteObject
	err = s.runActionsFunc(ctx, chromedp.Evaluate(expr, &obj, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithAwaitPromise(true)
	}))
	if err != nil {
		return nil, fmt.Errorf("cdp: evaluate failed: %w", err)
	}
	if obj == nil || len(obj.Value) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(obj.Value), nil
}

// LocateBoundingBox returns the selector's box, or nil when it has no layout.
func (s *CDPSurface) LocateBoundingBox(ctx context.Context, selector string) (*schemas.BoundingBox, error) {
	return locateBoundingBox(ctx, s, selector)
}

// WaitForSelector waits until the selector matches a visible element.
func (s *CDPSurface) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.runActionsFunc(opCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("cdp: waiting for %q: %w", selector, err)
	}
	return nil
}

// OnLoad invokes handler in its own goroutine after every page load.
func (s *CDPSurface) OnLoad(handler func(ctx context.Context)) {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		if _, ok := ev.(*page.EventLoadEventFired); ok {
			// Listeners run on the event loop and must not block on commands.
			go handler(s.ctx)
		}
	})
}

// NativeClick brings the element into view and clicks its center directly,
// holding each press for opts.Delay.
func (s *CDPSurface) NativeClick(ctx context.Context, selector string, opts cursor.NativeClickOptions) error {
	center, err := elementCenter(ctx, s, selector)
	if err != nil {
		return err
	}
	return s.clickAt(ctx, center.X, center.Y, opts.Count, opts.Delay, s.Sleep)
}

// Sleep pauses execution for the specified duration, respecting the context.
func (s *CDPSurface) Sleep(ctx context.Context, d time.Duration) error {
	return s.runActionsFunc(ctx, chromedp.Sleep(d))
}

// Navigate loads url and waits for the document to be ready.
func (s *CDPSurface) Navigate(ctx context.Context, url string) error {
	if err := s.runActionsFunc(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("cdp: navigate to %s: %w", url, err)
	}
	return nil
}
