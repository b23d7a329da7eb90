package picking

import (
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/structure"
)

// PickResult is a single decoded pick-buffer read.
type PickResult struct {
	ID       int
	Picker   Picker
	Instance *Instance
}

// Mouse is the pointer state read by a Proxy.
type Mouse interface {
	AltKey() bool
	CtrlKey() bool
	MetaKey() bool
	ShiftKey() bool
	CanvasPosition() math3d.Vec2
}

// Projector projects world positions onto the canvas.
type Projector interface {
	PositionOnCanvas(p math3d.Vec3) math3d.Vec2
}

// ComponentSource finds the components displaying a data object.
type ComponentSource interface {
	ComponentsByObject(data any) []Component
}

// Context supplies the collaborators a Proxy reads from. Any field may be
// nil.
type Context struct {
	Mouse      Mouse
	Projector  Projector
	Components ComponentSource
}

// Proxy wraps one pick result. Modifier keys and the canvas position are
// read from the Mouse each time they are requested, not captured when the
// pick happened.
type Proxy struct {
	result PickResult
	ctx    Context
}

// NewProxy wraps r.
func NewProxy(r PickResult, ctx Context) *Proxy {
	return &Proxy{result: r, ctx: ctx}
}

// ID returns the picker-local index.
func (p *Proxy) ID() int { return p.result.ID }

// Picker returns the picker that produced the result.
func (p *Proxy) Picker() Picker { return p.result.Picker }

// Instance returns the picked instance, or nil.
func (p *Proxy) Instance() *Instance { return p.result.Instance }

// Kind returns the picker kind. A proxy without a picker reports
// KindUnknown but resolves no object.
func (p *Proxy) Kind() Kind {
	if p.result.Picker == nil {
		return KindUnknown
	}
	return p.result.Picker.Kind()
}

// Object returns the raw picked object.
func (p *Proxy) Object() any {
	if p.result.Picker == nil {
		return nil
	}
	return p.result.Picker.Object(p.result.ID)
}

// Position returns the world position of the picked object.
func (p *Proxy) Position() math3d.Vec3 {
	if p.result.Picker == nil {
		return math3d.Vec3{}
	}
	return p.result.Picker.Position(p.result.ID, p.result.Instance, p.Component())
}

// Component returns the first component displaying the picker's data.
// Data shared by several components resolves to whichever is listed
// first.
func (p *Proxy) Component() Component {
	if p.ctx.Components == nil || p.result.Picker == nil {
		return nil
	}
	list := p.ctx.Components.ComponentsByObject(p.result.Picker.Data())
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// AltKey reports whether Alt is held right now.
func (p *Proxy) AltKey() bool { return p.ctx.Mouse != nil && p.ctx.Mouse.AltKey() }

// CtrlKey reports whether Ctrl is held right now.
func (p *Proxy) CtrlKey() bool { return p.ctx.Mouse != nil && p.ctx.Mouse.CtrlKey() }

// MetaKey reports whether Meta is held right now.
func (p *Proxy) MetaKey() bool { return p.ctx.Mouse != nil && p.ctx.Mouse.MetaKey() }

// ShiftKey reports whether Shift is held right now.
func (p *Proxy) ShiftKey() bool { return p.ctx.Mouse != nil && p.ctx.Mouse.ShiftKey() }

// CanvasPosition returns the current pointer position on the canvas.
func (p *Proxy) CanvasPosition() math3d.Vec2 {
	if p.ctx.Mouse == nil {
		return math3d.Vec2{}
	}
	return p.ctx.Mouse.CanvasPosition()
}

// ClosestBondAtom returns the endpoint of a picked bond whose canvas
// projection is nearest the pointer. Equal distances return Atom1. Returns
// nil unless the kind is bond and a projector is available.
func (p *Proxy) ClosestBondAtom() *structure.Atom {
	bond := p.Bond()
	if bond == nil || p.ctx.Projector == nil {
		return nil
	}
	cp := p.CanvasPosition()
	d1 := cp.Distance(p.ctx.Projector.PositionOnCanvas(bond.Atom1().Position))
	d2 := cp.Distance(p.ctx.Projector.PositionOnCanvas(bond.Atom2().Position))
	if d1 <= d2 {
		return bond.Atom1()
	}
	return bond.Atom2()
}

func objectIf[T any](p *Proxy, k Kind) *T {
	if p.Kind() != k {
		return nil
	}
	obj, _ := p.Object().(*T)
	return obj
}

// Arrow returns the picked arrow, or nil for any other kind.
func (p *Proxy) Arrow() *Primitive { return objectIf[Primitive](p, KindArrow) }

// Atom returns the picked atom, or nil for any other kind.
func (p *Proxy) Atom() *structure.Atom { return objectIf[structure.Atom](p, KindAtom) }

// Axes returns the picked principal axes, or nil for any other kind.
func (p *Proxy) Axes() *Axes { return objectIf[Axes](p, KindAxes) }

// Bond returns the picked bond, or nil for any other kind.
func (p *Proxy) Bond() *BondObject { return objectIf[BondObject](p, KindBond) }

// Box returns the picked box, or nil for any other kind.
func (p *Proxy) Box() *Primitive { return objectIf[Primitive](p, KindBox) }

// Cone returns the picked cone, or nil for any other kind.
func (p *Proxy) Cone() *Primitive { return objectIf[Primitive](p, KindCone) }

// Clash returns the picked clash, or nil for any other kind.
func (p *Proxy) Clash() *structure.Clash { return objectIf[structure.Clash](p, KindClash) }

// Contact returns the picked contact, or nil for any other kind.
func (p *Proxy) Contact() *BondObject { return objectIf[BondObject](p, KindContact) }

// Cylinder returns the picked cylinder, or nil for any other kind.
func (p *Proxy) Cylinder() *Primitive { return objectIf[Primitive](p, KindCylinder) }

// Distance returns the picked distance, or nil for any other kind.
func (p *Proxy) Distance() *BondObject { return objectIf[BondObject](p, KindDistance) }

// Ellipsoid returns the picked ellipsoid, or nil for any other kind.
func (p *Proxy) Ellipsoid() *Primitive { return objectIf[Primitive](p, KindEllipsoid) }

// Octahedron returns the picked octahedron, or nil for any other kind.
func (p *Proxy) Octahedron() *Primitive { return objectIf[Primitive](p, KindOctahedron) }

// Mesh returns the picked mesh, or nil for any other kind.
func (p *Proxy) Mesh() *MeshObject { return objectIf[MeshObject](p, KindMesh) }

// Slice returns the picked slice, or nil for any other kind.
func (p *Proxy) Slice() *VolumeValue { return objectIf[VolumeValue](p, KindSlice) }

// Sphere returns the picked sphere, or nil for any other kind.
func (p *Proxy) Sphere() *Primitive { return objectIf[Primitive](p, KindSphere) }

// Surface returns the picked surface, or nil for any other kind.
func (p *Proxy) Surface() *SurfaceObject { return objectIf[SurfaceObject](p, KindSurface) }

// Tetrahedron returns the picked tetrahedron, or nil for any other kind.
func (p *Proxy) Tetrahedron() *Primitive { return objectIf[Primitive](p, KindTetrahedron) }

// Torus returns the picked torus, or nil for any other kind.
func (p *Proxy) Torus() *Primitive { return objectIf[Primitive](p, KindTorus) }

// Unitcell returns the picked unit cell, or nil for any other kind.
func (p *Proxy) Unitcell() *UnitcellObject { return objectIf[UnitcellObject](p, KindUnitcell) }

// Unknown returns the picked unknown object, or nil for any other kind.
func (p *Proxy) Unknown() *Unknown { return objectIf[Unknown](p, KindUnknown) }

// Volume returns the picked volume, or nil for any other kind.
func (p *Proxy) Volume() *VolumeValue { return objectIf[VolumeValue](p, KindVolume) }
