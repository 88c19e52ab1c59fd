package cursor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// defaultWaitBetweenClick is the press hold and double click gap used when
// ClickOptions.WaitBetweenClick is nil.
var defaultWaitBetweenClick = DelayRange{Min: 20, Max: 50}

// Move travels to target. Selector targets are waited for, scrolled into
// view and sampled like box targets; point targets are used as is.
func (c *Cursor) Move(ctx context.Context, target Target, opts *MoveOptions) error {
	if opts == nil {
		opts = &MoveOptions{}
	}
	if err := validateMove(target, opts); err != nil {
		return err
	}

	release, err := c.begin()
	if err != nil {
		return err
	}
	defer release()

	return c.move(ctx, target, opts)
}

// MoveTo travels to an exact viewport coordinate.
func (c *Cursor) MoveTo(ctx context.Context, destination Vector, opts *MoveToOptions) error {
	if opts == nil {
		opts = &MoveToOptions{}
	}
	moveOpts := &MoveOptions{WaitBeforeMove: opts.WaitBeforeMove}
	if err := validateMove(Point(destination), moveOpts); err != nil {
		return err
	}

	release, err := c.begin()
	if err != nil {
		return err
	}
	defer release()

	return c.move(ctx, Point(destination), moveOpts)
}

// Click optionally moves to opts.Target and then clicks at the current
// position, twice when DoubleClick is set.
func (c *Cursor) Click(ctx context.Context, opts *ClickOptions) error {
	if opts == nil {
		opts = &ClickOptions{}
	}
	moveOpts := opts.Move
	if moveOpts == nil {
		moveOpts = &MoveOptions{}
	}
	between := defaultWaitBetweenClick
	if opts.WaitBetweenClick != nil {
		between = *opts.WaitBetweenClick
	}
	if opts.Target != nil {
		if err := validateMove(*opts.Target, moveOpts); err != nil {
			return err
		}
	}
	if err := opts.WaitBeforeClick.validate("wait_before_click"); err != nil {
		return err
	}
	if err := between.validate("wait_between_click"); err != nil {
		return err
	}

	release, err := c.begin()
	if err != nil {
		return err
	}
	defer release()

	if opts.Target != nil {
		if err := c.move(ctx, *opts.Target, moveOpts); err != nil {
			return err
		}
	}
	if err := c.wait(ctx, opts.WaitBeforeClick); err != nil {
		return err
	}

	count := 1
	if opts.DoubleClick {
		count = 2
	}

	if opts.VerifyTarget {
		if selector, ok := clickSelector(opts.Target); ok {
			matched, err := c.verifyTarget(ctx, selector)
			switch {
			case err != nil && ctx.Err() != nil:
				return ctx.Err()
			case err != nil:
				c.logger.Debug("Cursor: target verification unavailable, using native click",
					zap.String("selector", selector), zap.Error(err))
				return c.nativeClick(ctx, selector, count, between)
			case !matched:
				c.logger.Debug("Cursor: pointer is not over target, using native click",
					zap.String("selector", selector))
				return c.nativeClick(ctx, selector, count, between)
			}
		}
	}

	for i := 0; i < count; i++ {
		if i > 0 {
			if err := c.wait(ctx, between); err != nil {
				return err
			}
		}
		if err := c.pressAndRelease(ctx, between); err != nil {
			return err
		}
	}

	pos := c.Position()
	c.logger.Debug("Cursor: click complete",
		zap.Int("count", count),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y))
	return nil
}

func clickSelector(target *Target) (string, bool) {
	if target == nil {
		return "", false
	}
	return target.SelectorValue()
}

func validateMove(target Target, opts *MoveOptions) error {
	switch target.kind {
	case TargetSelector:
		if target.selector == "" {
			return fmt.Errorf("%w: selector must not be empty", ErrInvalidParameter)
		}
	case TargetBox:
		b := target.box
		if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsNaN(b.Width) || math.IsNaN(b.Height) {
			return fmt.Errorf("%w: box coordinates must be numbers", ErrInvalidParameter)
		}
		if b.Width < 0 || b.Height < 0 {
			return fmt.Errorf("%w: box dimensions must not be negative", ErrInvalidParameter)
		}
	case TargetPoint:
		if math.IsNaN(target.point.X) || math.IsNaN(target.point.Y) {
			return fmt.Errorf("%w: point coordinates must be numbers", ErrInvalidParameter)
		}
	default:
		return fmt.Errorf("%w: unset target", ErrInvalidParameter)
	}
	if opts.PaddingPercentage < 0 || opts.PaddingPercentage > 100 {
		return fmt.Errorf("%w: padding percentage must be within [0, 100], got %v",
			ErrInvalidParameter, opts.PaddingPercentage)
	}
	if opts.WaitForSelector < 0 {
		return fmt.Errorf("%w: wait_for_selector must not be negative", ErrInvalidParameter)
	}
	return opts.WaitBeforeMove.validate("wait_before_move")
}

// move is the unlocked body of Move. The caller holds the action lock.
func (c *Cursor) move(ctx context.Context, target Target, opts *MoveOptions) error {
	if err := c.wait(ctx, opts.WaitBeforeMove); err != nil {
		return err
	}

	var destination Vector
	switch target.kind {
	case TargetSelector:
		box, err := c.resolveSelector(ctx, target.selector, opts.WaitForSelector)
		if err != nil {
			return err
		}
		if destination, err = RandomPointInsideBox(c.rng, box, opts.PaddingPercentage); err != nil {
			return err
		}
	case TargetBox:
		var err error
		if destination, err = RandomPointInsideBox(c.rng, target.box, opts.PaddingPercentage); err != nil {
			return err
		}
	case TargetPoint:
		destination = target.point
	}

	c.logger.Debug("Cursor: moving",
		zap.Stringer("target", target),
		zap.Float64("to_x", destination.X),
		zap.Float64("to_y", destination.Y))
	return c.travel(ctx, destination)
}

// resolveSelector waits for selector to exist and be visible, then scrolls
// it into view.
func (c *Cursor) resolveSelector(ctx context.Context, selector string, timeout time.Duration) (schemas.BoundingBox, error) {
	if timeout <= 0 {
		timeout = c.cfg.SelectorTimeout
	}
	if err := c.surface.WaitForSelector(ctx, selector, timeout); err != nil {
		if ctx.Err() != nil {
			return schemas.BoundingBox{}, ctx.Err()
		}
		return schemas.BoundingBox{}, fmt.Errorf("%w: %s (waited %s): %w", ErrSelectorNotFound, selector, timeout, err)
	}
	return c.ElementBoundingBox(ctx, selector)
}

// travel traces a path from the current position to destination. Long
// moves aim at a point near the destination first and then follow a
// tighter correction curve from wherever the pointer landed.
func (c *Cursor) travel(ctx context.Context, destination Vector) error {
	start := c.Position()
	if !ShouldOvershoot(start, destination) {
		return c.trace(ctx, c.planner.Path(start, destination, 0))
	}

	aim := Overshoot(c.rng, destination, c.cfg.OvershootRadius)
	if err := c.trace(ctx, c.planner.Path(start, aim, 0)); err != nil {
		return err
	}
	return c.trace(ctx, c.planner.Path(c.Position(), destination, c.cfg.OvershootSpread))
}

// trace dispatches waypoints in order. A failed waypoint is logged and
// skipped; only cancellation stops the trace.
func (c *Cursor) trace(ctx context.Context, waypoints []Vector) error {
	failed := 0
	for i, p := range waypoints {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.surface.MoveTo(ctx, p.X, p.Y); err != nil {
			failed++
			c.logger.Warn("Cursor: pointer step failed, skipping",
				zap.Int("step", i),
				zap.Float64("x", p.X),
				zap.Float64("y", p.Y),
				zap.Error(err))
			continue
		}
		c.setPosition(p)
	}
	if failed > 0 {
		c.logger.Debug("Cursor: trace finished with skipped steps",
			zap.Int("skipped", failed), zap.Int("total", len(waypoints)))
	}
	return nil
}

// wait sleeps for a duration drawn from d through the surface.
func (c *Cursor) wait(ctx context.Context, d DelayRange) error {
	dur := c.rng.delay(d)
	if dur <= 0 {
		return nil
	}
	return c.surface.Sleep(ctx, dur)
}

// pressAndRelease performs one press, hold and release cycle. A pressed
// button is always released, even when ctx is cancelled during the hold.
func (c *Cursor) pressAndRelease(ctx context.Context, hold DelayRange) error {
	if err := c.surface.PressDown(ctx); err != nil {
		return fmt.Errorf("cursor: failed to press button: %w", err)
	}
	holdErr := c.wait(ctx, hold)

	releaseCtx := ctx
	if ctx.Err() != nil {
		releaseCtx = context.WithoutCancel(ctx)
	}
	if err := c.surface.ReleaseUp(releaseCtx); err != nil {
		return errors.Join(holdErr, fmt.Errorf("cursor: failed to release button: %w", err))
	}
	return holdErr
}

func (c *Cursor) nativeClick(ctx context.Context, selector string, count int, delay DelayRange) error {
	opts := NativeClickOptions{Count: count, Delay: c.rng.delay(delay)}
	if err := c.surface.NativeClick(ctx, selector, opts); err != nil {
		return fmt.Errorf("cursor: native click on %s failed: %w", selector, err)
	}
	return nil
}
