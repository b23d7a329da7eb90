// Package buffer holds renderable buffers: geometry in local space, the
// model matrix placing it in the world, the material it is drawn with and
// the picker that resolves its pick indices.
package buffer

import (
	"image/color"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/render"
)

// Buffer is one drawable object. A mesh without faces is a point set drawn
// as sphere impostors with per-vertex Radii.
type Buffer struct {
	Name     string
	Mesh     *models.Mesh
	Color    color.RGBA
	Colors   []color.RGBA // per vertex, optional
	Radii    []float64    // per vertex, point sets only
	Matrix   math3d.Mat4
	Picker   picking.Picker // nil when not pickable
	// PickIDs maps the primitive index written by the pick pass (face
	// primitive, or vertex index for point sets) to the picker index.
	// nil means the identity mapping.
	PickIDs  []int
	Material *render.Material
	Visible  bool

	bbox   math3d.Box3
	bboxOK bool
}

// New creates a visible buffer with the identity model matrix and a
// standard material.
func New(name string, mesh *models.Mesh, picker picking.Picker) *Buffer {
	if mesh == nil {
		mesh = models.NewMesh(name)
	}
	return &Buffer{
		Name:     name,
		Mesh:     mesh,
		Color:    render.ColorWhite,
		Matrix:   math3d.Identity(),
		Picker:   picker,
		Material: render.NewStandardMaterial(name),
		Visible:  true,
	}
}

// NewPoints creates a point-set buffer, one impostor per position.
func NewPoints(name string, positions []math3d.Vec3, radii []float64, colors []color.RGBA, picker picking.Picker) *Buffer {
	m := models.NewMesh(name)
	for _, p := range positions {
		m.AddVertex(p, math3d.V3(0, 0, 1))
	}
	b := New(name, m, picker)
	b.Radii = radii
	b.Colors = colors
	return b
}

// IsPointSet reports whether the buffer is drawn as impostors.
func (b *Buffer) IsPointSet() bool {
	return b.Mesh.TriangleCount() == 0
}

// ComputeBoundingBox recomputes and caches the local-space bounding box of
// the geometry. Impostor radii are not included, so a single impostor has
// a single-point box.
func (b *Buffer) ComputeBoundingBox() math3d.Box3 {
	b.bbox = b.Mesh.ComputeBoundingBox()
	b.bboxOK = true
	return b.bbox
}

// BoundingBox returns the cached local-space box, computing it on first
// use.
func (b *Buffer) BoundingBox() math3d.Box3 {
	if !b.bboxOK {
		return b.ComputeBoundingBox()
	}
	return b.bbox
}

// SetMesh replaces the geometry and drops the cached bounding box.
func (b *Buffer) SetMesh(m *models.Mesh) {
	b.Mesh = m
	b.bboxOK = false
}

// DrawCall returns the rasterizer call for one placement. instance is -1
// for the uninstanced placement.
func (b *Buffer) DrawCall(instance int) render.DrawCall {
	return render.DrawCall{
		Geometry: b.Mesh,
		Material: b.Material,
		Color:    b.Color,
		Colors:   b.Colors,
		Radii:    b.Radii,
		Instance: instance,
	}
}

// PickID returns the picker index for a primitive read from the pick
// buffer, or -1 when the primitive is not mapped.
func (b *Buffer) PickID(primitive int) int {
	if b.PickIDs == nil {
		return primitive
	}
	if primitive < 0 || primitive >= len(b.PickIDs) {
		return -1
	}
	return b.PickIDs[primitive]
}

// Dispose releases the geometry. The buffer must not be drawn afterwards.
func (b *Buffer) Dispose() {
	b.Mesh = models.NewMesh(b.Name)
	b.Colors, b.Radii, b.PickIDs = nil, nil, nil
	b.Picker = nil
	b.Visible = false
	b.bboxOK = false
}
