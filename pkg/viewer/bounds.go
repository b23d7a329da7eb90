package viewer

import (
	"slices"

	"github.com/taigrr/molview/pkg/buffer"
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/picking"
)

// pointMargin pads a single-point box so a lone atom still has extent.
const pointMargin = 5

type boundsEntry struct {
	buf  *buffer.Buffer
	inst *picking.Instance
}

// SceneBounds tracks the world-space box of every attached placement.
// Adding grows the box by union; removing recomputes it from scratch.
type SceneBounds struct {
	entries []boundsEntry
	box     math3d.Box3
}

// NewSceneBounds returns an empty tracker.
func NewSceneBounds() *SceneBounds {
	return &SceneBounds{box: math3d.EmptyBox3()}
}

// worldBox returns the local box of buf placed by its model matrix and,
// when inst is not nil, the instance matrix.
func worldBox(buf *buffer.Buffer, inst *picking.Instance) math3d.Box3 {
	box := buf.BoundingBox()
	if box.IsEmpty() {
		return box
	}
	box = box.ApplyMatrix4(buf.Matrix)
	if inst != nil {
		box = box.ApplyMatrix4(inst.Matrix)
	}
	if box.IsPoint() {
		box = box.ExpandByScalar(pointMargin)
	}
	return box
}

// AddBuffer attaches one placement of buf and grows the box.
func (s *SceneBounds) AddBuffer(buf *buffer.Buffer, inst *picking.Instance) {
	s.entries = append(s.entries, boundsEntry{buf: buf, inst: inst})
	s.box = s.box.Union(worldBox(buf, inst))
}

// RemoveBuffer detaches every placement of buf and recomputes the box.
func (s *SceneBounds) RemoveBuffer(buf *buffer.Buffer) {
	s.entries = slices.DeleteFunc(s.entries, func(e boundsEntry) bool {
		return e.buf == buf
	})
	s.RecomputeAll()
}

// RecomputeAll rebuilds the box from every attached placement. Buffers
// whose geometry changed must have recomputed their local box first.
func (s *SceneBounds) RecomputeAll() {
	s.box = math3d.EmptyBox3()
	for _, e := range s.entries {
		s.box = s.box.Union(worldBox(e.buf, e.inst))
	}
}

// Len returns the number of attached placements.
func (s *SceneBounds) Len() int {
	return len(s.entries)
}

// Box returns the current world box.
func (s *SceneBounds) Box() math3d.Box3 {
	return s.box
}

// Size returns Max - Min. An empty scene has infinite negative size, so
// its diagonal is not finite.
func (s *SceneBounds) Size() math3d.Vec3 {
	return s.box.Max.Sub(s.box.Min)
}

// Length returns the box diagonal.
func (s *SceneBounds) Length() float64 {
	return s.Size().Len()
}
