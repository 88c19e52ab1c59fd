package cursor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// idleLoop wanders the pointer to random viewport points while no user
// action is in flight. It exits when ctx is done or when the surface fails.
func (c *Cursor) idleLoop(ctx context.Context) {
	defer close(c.idleDone)

	timer := time.NewTimer(c.idleWait())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if c.State() == StateIdle {
			if err := c.wander(ctx); err != nil {
				if ctx.Err() == nil {
					c.logger.Warn("Cursor: idle wandering stopped after surface error", zap.Error(err))
				}
				return
			}
		}
		timer.Reset(c.idleWait())
	}
}

// idleWait draws the pause before the next wander from [0, IdleInterval].
func (c *Cursor) idleWait() time.Duration {
	return time.Duration(c.rng.Float64() * float64(c.cfg.IdleInterval))
}

// wander traces one path to a random viewport point. The trace is abandoned
// as soon as a user action starts.
func (c *Cursor) wander(ctx context.Context) error {
	gen := c.generation.Load()
	destination, err := c.RandomPointOnViewport(ctx, 0)
	if err != nil {
		return err
	}
	for _, p := range c.planner.Path(c.Position(), destination, 0) {
		stop, err := c.idleStep(ctx, gen, p)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

// idleStep dispatches one idle waypoint. It reports stop when the trace was
// preempted or cancelled.
func (c *Cursor) idleStep(ctx context.Context, gen uint64, p Vector) (stop bool, err error) {
	c.traceMu.Lock()
	defer c.traceMu.Unlock()

	if ctx.Err() != nil || c.State() != StateIdle || c.generation.Load() != gen {
		return true, nil
	}
	if err := c.surface.MoveTo(ctx, p.X, p.Y); err != nil {
		return true, err
	}
	c.setPosition(p)
	return false, nil
}
