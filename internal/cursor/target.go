package cursor

import (
	"fmt"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

// TargetKind identifies which case of Target is populated.
type TargetKind int

const (
	TargetSelector TargetKind = iota + 1
	TargetBox
	TargetPoint
)

func (k TargetKind) String() string {
	switch k {
	case TargetSelector:
		return "selector"
	case TargetBox:
		return "box"
	case TargetPoint:
		return "point"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// Target is what an action aims at: a CSS selector, a fixed bounding box,
// or a single point. Construct it with Selector, Box or Point.
type Target struct {
	kind     TargetKind
	selector string
	box      schemas.BoundingBox
	point    Vector
}

// Selector targets the element matched by a CSS selector.
func Selector(selector string) Target {
	return Target{kind: TargetSelector, selector: selector}
}

// Box targets a fixed rectangle in viewport coordinates.
func Box(box schemas.BoundingBox) Target {
	return Target{kind: TargetBox, box: box}
}

// Point targets an exact viewport coordinate.
func Point(p Vector) Target {
	return Target{kind: TargetPoint, point: p}
}

// Kind returns the populated case.
func (t Target) Kind() TargetKind { return t.kind }

// SelectorValue returns the selector and whether t is a selector target.
func (t Target) SelectorValue() (string, bool) {
	return t.selector, t.kind == TargetSelector
}

func (t Target) String() string {
	switch t.kind {
	case TargetSelector:
		return fmt.Sprintf("selector(%q)", t.selector)
	case TargetBox:
		return fmt.Sprintf("box(%.1f,%.1f %.1fx%.1f)", t.box.X, t.box.Y, t.box.Width, t.box.Height)
	case TargetPoint:
		return fmt.Sprintf("point(%.1f,%.1f)", t.point.X, t.point.Y)
	default:
		return "invalid target"
	}
}
