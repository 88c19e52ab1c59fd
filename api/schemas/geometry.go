package schemas

// -- Pointer Geometry Schemas --

// BoundingBox is an axis-aligned rectangle in viewport (CSS pixel) coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the box's right edge.
func (b BoundingBox) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the box's bottom edge.
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// Within reports whether b lies fully inside [0, outer.Width] x [0, outer.Height].
func (b BoundingBox) Within(outer BoundingBox) bool {
	return b.X >= 0 && b.Y >= 0 && b.Right() <= outer.Width && b.Bottom() <= outer.Height
}

// ViewportSize is the inner window size reported by the page.
type ViewportSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box returns the viewport as a bounding box anchored at the origin.
func (v ViewportSize) Box() BoundingBox {
	return BoundingBox{X: 0, Y: 0, Width: v.Width, Height: v.Height}
}

// -- Low-Level Mouse Event Schemas --

// MouseEventType defines the type of a mouse event.
type MouseEventType string

const (
	MouseMove    MouseEventType = "mouseMoved"
	MousePress   MouseEventType = "mousePressed"
	MouseRelease MouseEventType = "mouseReleased"
	MouseWheel   MouseEventType = "mouseWheel"
)

// MouseButton defines the mouse button being pressed.
type MouseButton string

const (
	ButtonNone  MouseButton = "none"
	ButtonLeft  MouseButton = "left"
	ButtonRight MouseButton = "right"
)

// MouseEventData encapsulates all data for a single dispatched mouse event.
type MouseEventData struct {
	Type       MouseEventType `json:"type"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Button     MouseButton    `json:"button"`
	Buttons    int64          `json:"buttons"`
	ClickCount int            `json:"clickCount"`
	DeltaX     float64        `json:"deltaX"`
	DeltaY     float64        `json:"deltaY"`
}
