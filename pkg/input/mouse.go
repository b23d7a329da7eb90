// Package input turns terminal events into the pointer state the viewer
// reads when it resolves picks.
package input

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/molview/pkg/math3d"
)

// Mouse tracks the pointer cell, held buttons and modifier keys. Each
// terminal cell covers one framebuffer column and two framebuffer rows.
// Mouse is not safe for concurrent use; feed it from the render loop.
type Mouse struct {
	col, row int
	mod      uv.KeyMod
	down     bool
	moved    bool
	height   int // framebuffer rows

	dragX, dragY int
}

// NewMouse creates a tracker for a framebuffer fbHeight pixels tall.
func NewMouse(fbHeight int) *Mouse {
	return &Mouse{height: fbHeight}
}

// SetHeight updates the framebuffer height after a resize.
func (m *Mouse) SetHeight(fbHeight int) {
	m.height = fbHeight
}

// Handle updates the state from ev. It reports whether ev was a mouse or
// key event.
func (m *Mouse) Handle(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.MouseClickEvent:
		m.mod = ev.Mod
		m.moveTo(ev.X, ev.Y)
		if ev.Button == uv.MouseLeft {
			m.down = true
		}
	case uv.MouseReleaseEvent:
		m.mod = ev.Mod
		m.moveTo(ev.X, ev.Y)
		m.down = false
	case uv.MouseMotionEvent:
		m.mod = ev.Mod
		if m.down {
			m.dragX += ev.X - m.col
			m.dragY += ev.Y - m.row
		}
		m.moveTo(ev.X, ev.Y)
	case uv.MouseWheelEvent:
		m.mod = ev.Mod
	case uv.KeyPressEvent:
		m.mod = ev.Mod
	case uv.KeyReleaseEvent:
		m.mod = 0
	default:
		return false
	}
	return true
}

func (m *Mouse) moveTo(col, row int) {
	if col != m.col || row != m.row {
		m.moved = true
	}
	m.col, m.row = col, row
}

// Cell returns the pointer cell.
func (m *Mouse) Cell() (col, row int) {
	return m.col, m.row
}

// Pressed reports whether the left button is held.
func (m *Mouse) Pressed() bool {
	return m.down
}

// TakeDrag returns the cells dragged over since the last call.
func (m *Mouse) TakeDrag() (dx, dy int) {
	dx, dy = m.dragX, m.dragY
	m.dragX, m.dragY = 0, 0
	return dx, dy
}

// TakeMoved reports whether the pointer changed cell since the last call.
func (m *Mouse) TakeMoved() bool {
	moved := m.moved
	m.moved = false
	return moved
}

func (m *Mouse) AltKey() bool   { return m.mod.Contains(uv.ModAlt) }
func (m *Mouse) CtrlKey() bool  { return m.mod.Contains(uv.ModCtrl) }
func (m *Mouse) MetaKey() bool  { return m.mod.Contains(uv.ModMeta) }
func (m *Mouse) ShiftKey() bool { return m.mod.Contains(uv.ModShift) }

// CanvasPosition returns the centre of the upper pixel of the pointer
// cell, origin at the bottom-left of the framebuffer.
func (m *Mouse) CanvasPosition() math3d.Vec2 {
	return math3d.V2(float64(m.col)+0.5, float64(m.height)-float64(m.row*2)-0.5)
}
