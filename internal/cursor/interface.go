// internal/cursor/interface.go
package cursor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// Surface defines the low-level pointer primitives required by the Cursor.
// Implementations bridge the browser-agnostic motion logic with a concrete
// driver (see internal/browser/session).
type Surface interface {
	// Evaluate runs a JavaScript function expression with JSON-encodable
	// arguments in the page and returns its JSON-serialized result.
	Evaluate(ctx context.Context, script string, args ...interface{}) (json.RawMessage, error)
	MoveTo(ctx context.Context, x, y float64) error
	PressDown(ctx context.Context) error
	ReleaseUp(ctx context.Context) error
	ScrollBy(ctx context.Context, dx, dy float64) error
	// LocateBoundingBox returns (nil, nil) when the element is not currently laid out.
	LocateBoundingBox(ctx context.Context, selector string) (*schemas.BoundingBox, error)
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	// OnLoad registers handler to be invoked after every navigation.
	OnLoad(handler func(ctx context.Context))
	NativeClick(ctx context.Context, selector string, opts NativeClickOptions) error
	Sleep(ctx context.Context, d time.Duration) error
}

// NativeClickOptions configures the driver's own click primitive.
type NativeClickOptions struct {
	Count int
	// Delay between press and release.
	Delay time.Duration
}

// Controller is the high-level action surface exposed by Cursor.
type Controller interface {
	Move(ctx context.Context, target Target, opts *MoveOptions) error
	MoveTo(ctx context.Context, destination Vector, opts *MoveToOptions) error
	Click(ctx context.Context, opts *ClickOptions) error
}

// DelayRange is an inclusive-exclusive millisecond range [Min, Max) for a
// randomized wait. Min == Max yields exactly Min.
type DelayRange struct {
	Min int `json:"min" yaml:"min" mapstructure:"min"`
	Max int `json:"max" yaml:"max" mapstructure:"max"`
}

// MoveOptions configures Move.
type MoveOptions struct {
	// PaddingPercentage in [0, 100] shrinks the region a box target is sampled
	// from. 0 samples the whole box, 100 collapses it to the center.
	PaddingPercentage float64
	// WaitForSelector bounds the existence wait for selector targets.
	// Zero uses Config.SelectorTimeout.
	WaitForSelector time.Duration
	WaitBeforeMove  DelayRange
}

// MoveToOptions configures MoveTo.
type MoveToOptions struct {
	WaitBeforeMove DelayRange
}

// ClickOptions configures Click.
type ClickOptions struct {
	// Target, if set, is moved to before clicking.
	Target *Target
	Move   *MoveOptions

	WaitBeforeClick DelayRange
	// WaitBetweenClick is the hold between press and release, and the pause
	// between the two cycles of a double click. Zero value uses [20, 50).
	WaitBetweenClick *DelayRange
	DoubleClick      bool
	// VerifyTarget checks that the element under the pointer matches the
	// selector target before pressing, falling back to NativeClick otherwise.
	VerifyTarget bool
}
