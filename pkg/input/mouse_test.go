package input

import (
	"math"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/picking"
)

var _ picking.Mouse = (*Mouse)(nil)

func TestModifiers(t *testing.T) {
	m := NewMouse(40)
	assert.False(t, m.AltKey() || m.CtrlKey() || m.MetaKey() || m.ShiftKey())

	m.Handle(uv.MouseMotionEvent{X: 1, Y: 1, Mod: uv.ModCtrl | uv.ModShift})
	assert.True(t, m.CtrlKey())
	assert.True(t, m.ShiftKey())
	assert.False(t, m.AltKey())
	assert.False(t, m.MetaKey())

	m.Handle(uv.KeyPressEvent{Code: 'x', Mod: uv.ModAlt})
	assert.True(t, m.AltKey())
	assert.False(t, m.CtrlKey())

	m.Handle(uv.KeyReleaseEvent{Code: 'x', Mod: uv.ModAlt})
	assert.False(t, m.AltKey())
}

func TestCanvasPosition(t *testing.T) {
	m := NewMouse(40)
	m.Handle(uv.MouseMotionEvent{X: 5, Y: 0})
	assert.Equal(t, math3d.V2(5.5, 39.5), m.CanvasPosition())

	m.Handle(uv.MouseMotionEvent{X: 0, Y: 19})
	assert.Equal(t, math3d.V2(0.5, 1.5), m.CanvasPosition())

	// The pick row for a canvas position is floor(height - y).
	row := int(math.Floor(40 - m.CanvasPosition().Y))
	assert.Equal(t, 38, row)

	m.SetHeight(80)
	assert.Equal(t, math3d.V2(0.5, 41.5), m.CanvasPosition())
}

func TestDrag(t *testing.T) {
	m := NewMouse(40)
	m.Handle(uv.MouseMotionEvent{X: 2, Y: 2})
	dx, dy := m.TakeDrag()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	m.Handle(uv.MouseClickEvent{X: 2, Y: 2, Button: uv.MouseLeft})
	assert.True(t, m.Pressed())
	m.Handle(uv.MouseMotionEvent{X: 5, Y: 1, Button: uv.MouseLeft})
	m.Handle(uv.MouseMotionEvent{X: 6, Y: 0, Button: uv.MouseLeft})
	dx, dy = m.TakeDrag()
	assert.Equal(t, 4, dx)
	assert.Equal(t, -2, dy)

	m.Handle(uv.MouseReleaseEvent{X: 6, Y: 0, Button: uv.MouseLeft})
	assert.False(t, m.Pressed())
	m.Handle(uv.MouseMotionEvent{X: 9, Y: 9})
	dx, dy = m.TakeDrag()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestMoved(t *testing.T) {
	m := NewMouse(40)
	assert.False(t, m.TakeMoved())
	m.Handle(uv.MouseMotionEvent{X: 3, Y: 3})
	assert.True(t, m.TakeMoved())
	assert.False(t, m.TakeMoved())
	m.Handle(uv.MouseMotionEvent{X: 3, Y: 3})
	assert.False(t, m.TakeMoved())
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	m := NewMouse(40)
	assert.False(t, m.Handle(uv.WindowSizeEvent{Width: 10, Height: 10}))
	assert.True(t, m.Handle(uv.MouseWheelEvent{Button: uv.MouseWheelUp, Mod: uv.ModMeta}))
	assert.True(t, m.MetaKey())
}
