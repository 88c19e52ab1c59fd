// internal/plan/plan.go
package plan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
	"github.com/xkilldash9x/ghostcursor/internal/cursor"
)

// StepType names a plan step.
type StepType string

const (
	StepMove   StepType = "move"
	StepMoveTo StepType = "moveTo"
	StepClick  StepType = "click"
	StepWait   StepType = "wait"
)

// ErrInvalidPlan wraps every load and validation failure.
var ErrInvalidPlan = errors.New("plan: invalid plan")

// Plan is an ordered list of cursor actions, usually loaded from YAML:
//
//	name: login
//	steps:
//	  - type: move
//	    selector: "#email"
//	    padding: 20
//	  - type: click
//	    selector: "button[type=submit]"
//	    wait_before: {min: 100, max: 300}
//	  - type: wait
//	    duration: 500ms
type Plan struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Point is an exact viewport coordinate.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Step is one action. Which fields apply depends on Type.
type Step struct {
	Type StepType `yaml:"type" json:"type"`

	// Target; at most one is set. move needs one, click may omit it to
	// click in place, moveTo uses Point.
	Selector string               `yaml:"selector,omitempty" json:"selector,omitempty"`
	Box      *schemas.BoundingBox `yaml:"box,omitempty" json:"box,omitempty"`
	Point    *Point               `yaml:"point,omitempty" json:"point,omitempty"`

	Padding         float64           `yaml:"padding,omitempty" json:"padding,omitempty"`
	WaitForSelector time.Duration     `yaml:"wait_for_selector,omitempty" json:"wait_for_selector,omitempty"`
	WaitBeforeMove  cursor.DelayRange `yaml:"wait_before_move,omitempty" json:"wait_before_move,omitempty"`

	WaitBefore   cursor.DelayRange  `yaml:"wait_before,omitempty" json:"wait_before,omitempty"`
	WaitBetween  *cursor.DelayRange `yaml:"wait_between,omitempty" json:"wait_between,omitempty"`
	DoubleClick  bool               `yaml:"double_click,omitempty" json:"double_click,omitempty"`
	VerifyTarget bool               `yaml:"verify_target,omitempty" json:"verify_target,omitempty"`

	Duration time.Duration `yaml:"duration,omitempty" json:"duration,omitempty"`

	ContinueOnError bool `yaml:"continue_on_error,omitempty" json:"continue_on_error,omitempty"`
}

// Load decodes and validates a YAML plan. Unknown keys are rejected.
func Load(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidPlan)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a plan from path.
func LoadFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks every step.
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidPlan)
	}
	for i, s := range p.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: step %d (%s): %v", ErrInvalidPlan, i, s.Type, err)
		}
	}
	return nil
}

// Validate checks that the step's fields fit its type. Numeric bounds are
// left to the cursor, which rejects them before touching the page.
func (s Step) Validate() error {
	targets := s.targetCount()
	if targets > 1 {
		return errors.New("selector, box and point are mutually exclusive")
	}
	switch s.Type {
	case StepMove:
		if targets == 0 {
			return errors.New("move requires a selector, box or point")
		}
	case StepMoveTo:
		if s.Point == nil {
			return errors.New("moveTo requires a point")
		}
	case StepClick:
	case StepWait:
		if s.Duration <= 0 {
			return errors.New("wait requires a positive duration")
		}
	case "":
		return errors.New("missing type")
	default:
		return fmt.Errorf("unknown type %q", s.Type)
	}
	return nil
}

func (s Step) targetCount() int {
	n := 0
	if s.Selector != "" {
		n++
	}
	if s.Box != nil {
		n++
	}
	if s.Point != nil {
		n++
	}
	return n
}

// Target returns the step's target, if any.
func (s Step) Target() (cursor.Target, bool) {
	switch {
	case s.Selector != "":
		return cursor.Selector(s.Selector), true
	case s.Box != nil:
		return cursor.Box(*s.Box), true
	case s.Point != nil:
		return cursor.Point(cursor.Vector{X: s.Point.X, Y: s.Point.Y}), true
	}
	return cursor.Target{}, false
}
