// internal/plan/runner.go
package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostcursor/internal/cursor"
)

// Step outcomes recorded in a Report.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// SleepFunc pauses for d or until ctx ends.
type SleepFunc func(ctx context.Context, d time.Duration) error

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int           `json:"index"`
	Type     StepType      `json:"type"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
	Position cursor.Vector `json:"position"`
}

// Report collects the step results of one run.
type Report struct {
	Plan    string       `json:"plan"`
	Results []StepResult `json:"results"`
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// JSON renders the report for machine consumption.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// positioner is implemented by controllers that expose their pointer position.
type positioner interface {
	Position() cursor.Vector
}

// stepHandler runs a single step type.
type stepHandler func(ctx context.Context, step Step) error

// Runner executes plans against a cursor.Controller.
type Runner struct {
	logger     *zap.Logger
	controller cursor.Controller
	sleep      SleepFunc
	handlers   map[StepType]stepHandler
}

// NewRunner creates a Runner. sleep backs wait steps; nil uses a timer.
func NewRunner(controller cursor.Controller, sleep SleepFunc, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sleep == nil {
		sleep = timerSleep
	}
	r := &Runner{
		logger:     logger.Named("plan"),
		controller: controller,
		sleep:      sleep,
		handlers:   make(map[StepType]stepHandler),
	}
	r.registerHandlers()
	return r
}

func timerSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// registerHandlers populates the internal map of step types to their handler functions.
func (r *Runner) registerHandlers() {
	r.handlers[StepMove] = r.handleMove
	r.handlers[StepMoveTo] = r.handleMoveTo
	r.handlers[StepClick] = r.handleClick
	r.handlers[StepWait] = r.handleWait
}

// Run executes the plan's steps in order. It stops at the first failing
// step unless that step sets ContinueOnError, and always stops when ctx
// ends; remaining steps are reported as skipped. The returned error is the
// first failure that stopped the run.
func (r *Runner) Run(ctx context.Context, p *Plan) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	report := &Report{Plan: p.Name, Results: make([]StepResult, 0, len(p.Steps))}

	var runErr error
	for i, step := range p.Steps {
		res := StepResult{Index: i, Type: step.Type}
		if runErr != nil {
			res.Status = StatusSkipped
			report.Results = append(report.Results, res)
			continue
		}

		start := time.Now()
		err := r.execute(ctx, step)
		res.Duration = time.Since(start)
		res.Position = r.position()

		if err == nil {
			res.Status = StatusSuccess
			report.Results = append(report.Results, res)
			continue
		}

		res.Status = StatusFailed
		res.Error = err.Error()
		report.Results = append(report.Results, res)
		r.logger.Warn("Plan step failed",
			zap.Int("step", i),
			zap.String("type", string(step.Type)),
			zap.Error(err))

		if ctx.Err() != nil || !step.ContinueOnError {
			runErr = fmt.Errorf("plan: step %d (%s): %w", i, step.Type, err)
		}
	}

	r.logger.Info("Plan finished",
		zap.String("plan", p.Name),
		zap.Int("steps", len(p.Steps)),
		zap.Bool("failed", report.Failed()))
	return report, runErr
}

func (r *Runner) execute(ctx context.Context, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	handler, ok := r.handlers[step.Type]
	if !ok {
		return fmt.Errorf("no handler for step type %q", step.Type)
	}
	r.logger.Debug("Running plan step", zap.String("type", string(step.Type)))
	return handler(ctx, step)
}

func (r *Runner) position() cursor.Vector {
	if p, ok := r.controller.(positioner); ok {
		return p.Position()
	}
	return cursor.Vector{}
}

func moveOptions(step Step) *cursor.MoveOptions {
	return &cursor.MoveOptions{
		PaddingPercentage: step.Padding,
		WaitForSelector:   step.WaitForSelector,
		WaitBeforeMove:    step.WaitBeforeMove,
	}
}

func (r *Runner) handleMove(ctx context.Context, step Step) error {
	target, ok := step.Target()
	if !ok {
		return errors.New("move requires a target")
	}
	return r.controller.Move(ctx, target, moveOptions(step))
}

func (r *Runner) handleMoveTo(ctx context.Context, step Step) error {
	if step.Point == nil {
		return errors.New("moveTo requires a point")
	}
	dest := cursor.Vector{X: step.Point.X, Y: step.Point.Y}
	return r.controller.MoveTo(ctx, dest, &cursor.MoveToOptions{WaitBeforeMove: step.WaitBeforeMove})
}

func (r *Runner) handleClick(ctx context.Context, step Step) error {
	opts := &cursor.ClickOptions{
		Move:             moveOptions(step),
		WaitBeforeClick:  step.WaitBefore,
		WaitBetweenClick: step.WaitBetween,
		DoubleClick:      step.DoubleClick,
		VerifyTarget:     step.VerifyTarget,
	}
	if target, ok := step.Target(); ok {
		opts.Target = &target
	}
	return r.controller.Click(ctx, opts)
}

func (r *Runner) handleWait(ctx context.Context, step Step) error {
	return r.sleep(ctx, step.Duration)
}
