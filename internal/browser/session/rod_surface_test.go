// internal/browser/session/rod_surface_test.go
package session

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/ghostcursor/api/schemas"
)

func TestToProtoMouseEvent(t *testing.T) {
	t.Run("Press", func(t *testing.T) {
		ev := toProtoMouseEvent(schemas.MouseEventData{
			Type:       schemas.MousePress,
			X:          12,
			Y:          34,
			Button:     schemas.ButtonLeft,
			Buttons:    1,
			ClickCount: 2,
		})
		assert.Equal(t, proto.InputDispatchMouseEventTypeMousePressed, ev.Type)
		assert.Equal(t, proto.InputMouseButtonLeft, ev.Button)
		require.NotNil(t, ev.Buttons)
		assert.Equal(t, 1, *ev.Buttons)
		assert.Equal(t, 2, ev.ClickCount)
		assert.Equal(t, 12.0, ev.X)
		assert.Equal(t, 34.0, ev.Y)
	})

	t.Run("Move", func(t *testing.T) {
		ev := toProtoMouseEvent(schemas.MouseEventData{Type: schemas.MouseMove, X: 1, Y: 2, Button: schemas.ButtonNone})
		assert.Equal(t, proto.InputDispatchMouseEventTypeMouseMoved, ev.Type)
		assert.Equal(t, proto.InputMouseButtonNone, ev.Button)
	})

	t.Run("Release", func(t *testing.T) {
		ev := toProtoMouseEvent(schemas.MouseEventData{Type: schemas.MouseRelease, Button: schemas.ButtonLeft, ClickCount: 1})
		assert.Equal(t, proto.InputDispatchMouseEventTypeMouseReleased, ev.Type)
	})

	t.Run("WheelCarriesDeltas", func(t *testing.T) {
		ev := toProtoMouseEvent(schemas.MouseEventData{Type: schemas.MouseWheel, DeltaX: -5, DeltaY: 120})
		assert.Equal(t, proto.InputDispatchMouseEventTypeMouseWheel, ev.Type)
		assert.Equal(t, -5.0, ev.DeltaX)
		assert.Equal(t, 120.0, ev.DeltaY)
	})

	t.Run("NonWheelDropsDeltas", func(t *testing.T) {
		ev := toProtoMouseEvent(schemas.MouseEventData{Type: schemas.MouseMove, DeltaY: 120})
		assert.Zero(t, ev.DeltaY)
	})
}
