// internal/cursor/cursor.go
package cursor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State describes who owns the pointer.
type State int32

const (
	// StateIdle means no user action is in flight; idle wandering may run.
	StateIdle State = iota
	// StateBusy means a user action owns the pointer.
	StateBusy
)

func (s State) String() string {
	if s == StateBusy {
		return "busy"
	}
	return "idle"
}

// Cursor synthesizes human-like pointer motion on a Surface.
//
// Only user actions (Move, MoveTo, Click) write the state; the idle loop
// only reads it. Every waypoint dispatch happens under traceMu, which a user
// action holds for its whole duration, so at most one trace is ever active.
type Cursor struct {
	id      string
	cfg     Config
	logger  *zap.Logger
	surface Surface
	rng     *source
	planner *Planner

	posMu    sync.RWMutex
	previous Vector

	// actionMu serializes user actions.
	actionMu sync.Mutex
	// traceMu guards waypoint dispatch.
	traceMu sync.Mutex
	state   atomic.Int32
	// generation is bumped when a user action starts and again when it ends;
	// an idle trace started under an older generation is abandoned.
	generation atomic.Uint64

	viewportGroup singleflight.Group

	cancelIdle context.CancelFunc
	idleDone   chan struct{}
	closeOnce  sync.Once
	closed     atomic.Bool
}

var _ Controller = (*Cursor)(nil)

// New creates a Cursor on surface, installs the page instrumentation, seeds
// the tracked position with a random point in the viewport and, when
// enabled, starts idle wandering. ctx bounds the lifetime of the idle loop;
// Close stops it earlier.
func New(ctx context.Context, surface Surface, cfg Config, logger *zap.Logger) (*Cursor, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: surface is required", ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New().String()
	c := &Cursor{
		id:       id,
		cfg:      cfg,
		logger:   logger.Named("cursor").With(zap.String("cursor_id", id)),
		surface:  surface,
		rng:      newSource(cfg.Rng),
		idleDone: make(chan struct{}),
	}
	c.planner = NewPlanner(c.rng)
	c.state.Store(int32(StateIdle))

	c.installInstrumentation(ctx)

	vp, err := c.viewport(ctx)
	if err != nil {
		return nil, fmt.Errorf("cursor: failed to read viewport for start point: %w", err)
	}
	c.previous = Vector{
		X: float64(c.rng.Value(0, vp.Width)),
		Y: float64(c.rng.Value(0, vp.Height)),
	}
	surface.OnLoad(c.installInstrumentation)

	if cfg.IdleEnabled {
		idleCtx, cancel := context.WithCancel(ctx)
		c.cancelIdle = cancel
		go c.idleLoop(idleCtx)
	} else {
		close(c.idleDone)
	}

	c.logger.Debug("Cursor: created",
		zap.Float64("start_x", c.previous.X),
		zap.Float64("start_y", c.previous.Y),
		zap.Bool("idle", cfg.IdleEnabled))
	return c, nil
}

// ID returns the unique identifier attached to this cursor's log lines.
func (c *Cursor) ID() string { return c.id }

// Position returns the last pointer location the cursor dispatched.
func (c *Cursor) Position() Vector {
	c.posMu.RLock()
	defer c.posMu.RUnlock()
	return c.previous
}

func (c *Cursor) setPosition(v Vector) {
	c.posMu.Lock()
	c.previous = v
	c.posMu.Unlock()
}

// State reports whether a user action currently owns the pointer.
func (c *Cursor) State() State {
	return State(c.state.Load())
}

// Close stops idle wandering and waits for it to exit. Actions issued after
// Close fail with ErrClosed.
func (c *Cursor) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.cancelIdle != nil {
			c.cancelIdle()
		}
		<-c.idleDone
	})
}

// begin claims the pointer for a user action. The returned release function
// must be called exactly once.
func (c *Cursor) begin() (func(), error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.actionMu.Lock()
	c.state.Store(int32(StateBusy))
	c.generation.Add(1)
	c.traceMu.Lock()
	return func() {
		c.generation.Add(1)
		c.state.Store(int32(StateIdle))
		c.traceMu.Unlock()
		c.actionMu.Unlock()
	}, nil
}
