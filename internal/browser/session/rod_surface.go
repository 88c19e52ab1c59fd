// internal/browser/session/rod_surface.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
	"github.com/xkilldash9x/ghostcursor/internal/cursor"
)

// RodSurface implements cursor.Surface on a go-rod page. Input goes through
// raw Input.dispatchMouseEvent calls so every event honors the caller's
// context.
type RodSurface struct {
	*pointer

	page   *rod.Page
	logger *zap.Logger
}

var _ cursor.Surface = (*RodSurface)(nil)

// NewRodSurface creates a surface for page.
func NewRodSurface(page *rod.Page, pollingRateHz float64, logger *zap.Logger) *RodSurface {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RodSurface{
		page:   page,
		logger: logger.Named("surface.rod"),
	}
	s.pointer = newPointer(pollingRateHz, s.dispatchMouseEvent)
	return s
}

// toProtoMouseEvent maps the shared mouse event onto rod's CDP binding. The
// event and button names are the CDP wire values on both sides.
func toProtoMouseEvent(data schemas.MouseEventData) proto.InputDispatchMouseEvent {
	buttons := int(data.Buttons)
	ev := proto.InputDispatchMouseEvent{
		Type:       proto.InputDispatchMouseEventType(data.Type),
		X:          data.X,
		Y:          data.Y,
		Button:     proto.InputMouseButton(data.Button),
		Buttons:    &buttons,
		ClickCount: data.ClickCount,
	}
	if data.Type == schemas.MouseWheel {
		ev.DeltaX, ev.DeltaY = data.DeltaX, data.DeltaY
	}
	return ev
}

func (s *RodSurface) dispatchMouseEvent(ctx context.Context, data schemas.MouseEventData) error {
	opCtx, cancel := context.WithTimeout(ctx, mouseEventTimeout)
	defer cancel()
	p := s.page.Context(opCtx)
	if err := toProtoMouseEvent(data).Call(p); err != nil {
		return fmt.Errorf("rod: %s: %w", data.Type, err)
	}
	return nil
}

// Evaluate calls the function expression with args in the page and returns
// the JSON value it produced. An undefined result reads as null.
func (s *RodSurface) Evaluate(ctx context.Context, script string, args ...interface{}) (json.RawMessage, error) {
	res, err := s.page.Context(ctx).Evaluate(rod.Eval(script, args...).ByPromise())
	if err != nil {
		return nil, fmt.Errorf("rod: evaluate failed: %w", err)
	}
	if res == nil || res.Type == proto.RuntimeRemoteObjectTypeUndefined || res.Value.Nil() {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(res.Value.JSON("", "")), nil
}

// LocateBoundingBox returns the selector's box, or nil when it has no layout.
func (s *RodSurface) LocateBoundingBox(ctx context.Context, selector string) (*schemas.BoundingBox, error) {
	return locateBoundingBox(ctx, s, selector)
}

// WaitForSelector waits until the selector matches a visible element.
func (s *RodSurface) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	el, err := s.page.Context(opCtx).Element(selector)
	if err != nil {
		return fmt.Errorf("rod: waiting for %q: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("rod: waiting for %q to be visible: %w", selector, err)
	}
	return nil
}

// OnLoad invokes handler in its own goroutine after every page load.
func (s *RodSurface) OnLoad(handler func(ctx context.Context)) {
	ctx := s.page.GetContext()
	wait := s.page.Context(ctx).EachEvent(func(e *proto.PageLoadEventFired) {
		go handler(ctx)
	})
	go wait()
}

// NativeClick hovers the element the way rod's own Element.Click does and
// then clicks at the resulting pointer position.
func (s *RodSurface) NativeClick(ctx context.Context, selector string, opts cursor.NativeClickOptions) error {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("rod: no element matches %q: %w", selector, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("rod: scroll %q into view: %w", selector, err)
	}
	shape, err := el.Shape()
	if err != nil {
		return fmt.Errorf("rod: locate %q: %w", selector, err)
	}
	center := shape.OnePointInside()
	if center == nil {
		return fmt.Errorf("rod: %q has no visible area", selector)
	}
	return s.clickAt(ctx, center.X, center.Y, opts.Count, opts.Delay, s.Sleep)
}

// Sleep pauses execution for the specified duration, respecting the context.
func (s *RodSurface) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Navigate loads url and waits for the load event.
func (s *RodSurface) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("rod: navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("rod: wait for %s to load: %w", url, err)
	}
	return nil
}
