// internal/browser/session/pointer.go
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// multiClickWindow is how soon a press must follow the previous release to
// count as the next click of a multi click.
const multiClickWindow = 500 * time.Millisecond

// pointer tracks the virtual mouse of one page and turns cursor primitives
// into raw mouse events. Drivers supply the dispatch function.
type pointer struct {
	dispatch func(ctx context.Context, data schemas.MouseEventData) error
	limiter  *rate.Limiter

	mu          sync.Mutex
	x, y        float64
	pressed     bool
	clickCount  int
	lastRelease time.Time
}

func newPointer(pollingRateHz float64, dispatch func(ctx context.Context, data schemas.MouseEventData) error) *pointer {
	return &pointer{dispatch: dispatch, limiter: newPollingLimiter(pollingRateHz)}
}

// newPollingLimiter returns a limiter admitting hz pointer events per second.
func newPollingLimiter(hz float64) *rate.Limiter {
	if hz <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(hz), 1)
}

// Position returns the last successfully dispatched pointer position.
func (p *pointer) Position() (x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y
}

// MoveTo dispatches a mouseMoved event, paced by the polling rate limiter.
func (p *pointer) MoveTo(ctx context.Context, x, y float64) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	data := schemas.MouseEventData{Type: schemas.MouseMove, X: x, Y: y, Button: schemas.ButtonNone}
	if p.pressed {
		data.Button, data.Buttons = schemas.ButtonLeft, 1
	}
	p.mu.Unlock()

	if err := p.dispatch(ctx, data); err != nil {
		return err
	}

	p.mu.Lock()
	p.x, p.y = x, y
	p.mu.Unlock()
	return nil
}

// PressDown presses the left button at the current position.
func (p *pointer) PressDown(ctx context.Context) error {
	p.mu.Lock()
	if time.Since(p.lastRelease) > multiClickWindow {
		p.clickCount = 0
	}
	p.clickCount++
	data := schemas.MouseEventData{
		Type:       schemas.MousePress,
		X:          p.x,
		Y:          p.y,
		Button:     schemas.ButtonLeft,
		Buttons:    1,
		ClickCount: p.clickCount,
	}
	p.mu.Unlock()

	if err := p.dispatch(ctx, data); err != nil {
		return err
	}
	p.mu.Lock()
	p.pressed = true
	p.mu.Unlock()
	return nil
}

// ReleaseUp releases the left button at the current position.
func (p *pointer) ReleaseUp(ctx context.Context) error {
	p.mu.Lock()
	data := schemas.MouseEventData{
		Type:       schemas.MouseRelease,
		X:          p.x,
		Y:          p.y,
		Button:     schemas.ButtonLeft,
		ClickCount: max(p.clickCount, 1),
	}
	p.mu.Unlock()

	if err := p.dispatch(ctx, data); err != nil {
		return err
	}
	p.mu.Lock()
	p.pressed = false
	p.lastRelease = time.Now()
	p.mu.Unlock()
	return nil
}

// ScrollBy dispatches a wheel event at the current position.
func (p *pointer) ScrollBy(ctx context.Context, dx, dy float64) error {
	p.mu.Lock()
	data := schemas.MouseEventData{
		Type:   schemas.MouseWheel,
		X:      p.x,
		Y:      p.y,
		Button: schemas.ButtonNone,
		DeltaX: dx,
		DeltaY: dy,
	}
	p.mu.Unlock()
	return p.dispatch(ctx, data)
}

// clickAt moves straight to (x, y) and clicks count times, holding each
// press for hold. The button is released even if ctx ends during the hold.
func (p *pointer) clickAt(ctx context.Context, x, y float64, count int, hold time.Duration,
	sleep func(context.Context, time.Duration) error) error {
	if err := p.MoveTo(ctx, x, y); err != nil {
		return err
	}
	for i := 0; i < max(count, 1); i++ {
		if err := p.PressDown(ctx); err != nil {
			return err
		}
		if hold > 0 {
			if err := sleep(ctx, hold); err != nil {
				return errors.Join(err, p.ReleaseUp(Detach(ctx)))
			}
		}
		if err := p.ReleaseUp(ctx); err != nil {
			return err
		}
	}
	return nil
}
