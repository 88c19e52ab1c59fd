package cursor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// Settle delay after each scroll step, in milliseconds.
const (
	scrollSettleMin = 40
	scrollSettleMax = 80
)

// ElementBoundingBox returns the box of the element matched by selector
// once it lies entirely inside the viewport, scrolling it into view first.
// It fails with ErrSelectorNotFound when the element is not laid out and
// with ErrViewportUnresolvable when it cannot be brought fully into view
// within Config.MaxScrollAttempts and Config.ScrollTimeout.
func (c *Cursor) ElementBoundingBox(ctx context.Context, selector string) (schemas.BoundingBox, error) {
	scrollCtx, cancel := context.WithTimeout(ctx, c.cfg.ScrollTimeout)
	defer cancel()

	for attempt := 0; attempt < c.cfg.MaxScrollAttempts; attempt++ {
		box, err := c.surface.LocateBoundingBox(scrollCtx, selector)
		if err != nil {
			return schemas.BoundingBox{}, c.scrollError(ctx, selector, "locate element", err)
		}
		if box == nil {
			return schemas.BoundingBox{}, fmt.Errorf("%w: %s", ErrSelectorNotFound, selector)
		}

		vp, err := c.viewport(scrollCtx)
		if err != nil {
			return schemas.BoundingBox{}, c.scrollError(ctx, selector, "read viewport", err)
		}
		if box.Within(vp.Box()) {
			return *box, nil
		}
		if box.Width > vp.Width || box.Height > vp.Height {
			return schemas.BoundingBox{}, fmt.Errorf("%w: %s is %.0fx%.0f, viewport is %.0fx%.0f",
				ErrViewportUnresolvable, selector, box.Width, box.Height, vp.Width, vp.Height)
		}

		dx := scrollDelta(box.X, box.Right(), vp.Width, c.cfg.ScrollStepMax)
		dy := scrollDelta(box.Y, box.Bottom(), vp.Height, c.cfg.ScrollStepMax)
		c.logger.Debug("Scrolling element into view",
			zap.String("selector", selector),
			zap.Int("attempt", attempt+1),
			zap.Float64("dx", dx),
			zap.Float64("dy", dy))
		if err := c.surface.ScrollBy(scrollCtx, dx, dy); err != nil {
			return schemas.BoundingBox{}, c.scrollError(ctx, selector, "scroll", err)
		}
		settle := c.rng.delay(DelayRange{Min: scrollSettleMin, Max: scrollSettleMax})
		if err := c.surface.Sleep(scrollCtx, settle); err != nil {
			return schemas.BoundingBox{}, c.scrollError(ctx, selector, "settle", err)
		}
	}
	return schemas.BoundingBox{}, fmt.Errorf("%w: %s still outside viewport after %d scroll attempts",
		ErrViewportUnresolvable, selector, c.cfg.MaxScrollAttempts)
}

// scrollError maps a failure inside the scroll loop. Running out of scroll
// time is reported as ErrViewportUnresolvable; the caller's own cancellation
// is passed through unchanged.
func (c *Cursor) scrollError(parent context.Context, selector, op string, err error) error {
	if parent.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s not visible within %s", ErrViewportUnresolvable, selector, c.cfg.ScrollTimeout)
	}
	return fmt.Errorf("cursor: failed to %s for %s: %w", op, selector, err)
}

// scrollDelta returns the scroll distance along one axis that moves the
// span [start, end] toward [0, extent], clamped to maxStep. It is zero when
// the span already fits.
func scrollDelta(start, end, extent, maxStep float64) float64 {
	var delta float64
	switch {
	case start < 0:
		delta = math.Floor(start)
	case end > extent:
		delta = math.Ceil(end - extent)
	default:
		return 0
	}
	return math.Max(-maxStep, math.Min(maxStep, delta))
}

// RandomPointInsideBox picks a uniform point inside box after shrinking it
// by paddingPercentage percent of each dimension, split evenly between both
// edges. 0 uses the whole box and 100 collapses it to the center.
func RandomPointInsideBox(rng Float64Source, box schemas.BoundingBox, paddingPercentage float64) (Vector, error) {
	if paddingPercentage < 0 || paddingPercentage > 100 || math.IsNaN(paddingPercentage) {
		return Vector{}, fmt.Errorf("%w: padding percentage must be within [0, 100], got %v",
			ErrInvalidParameter, paddingPercentage)
	}
	padW := box.Width * paddingPercentage / 100
	padH := box.Height * paddingPercentage / 100
	return Vector{
		X: box.X + padW/2 + rng.Float64()*(box.Width-padW),
		Y: box.Y + padH/2 + rng.Float64()*(box.Height-padH),
	}, nil
}

// RandomPointOnViewport picks a random point inside the current viewport.
func (c *Cursor) RandomPointOnViewport(ctx context.Context, paddingPercentage float64) (Vector, error) {
	if paddingPercentage < 0 || paddingPercentage > 100 {
		return Vector{}, fmt.Errorf("%w: padding percentage must be within [0, 100], got %v",
			ErrInvalidParameter, paddingPercentage)
	}
	vp, err := c.viewport(ctx)
	if err != nil {
		return Vector{}, fmt.Errorf("cursor: failed to read viewport: %w", err)
	}
	return RandomPointInsideBox(c.rng, vp.Box(), paddingPercentage)
}
