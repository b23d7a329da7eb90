package picking

import (
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/shape"
	"github.com/taigrr/molview/pkg/structure"
	"github.com/taigrr/molview/pkg/volume"
)

// Instance is one placement of an instanced buffer.
type Instance struct {
	ID     int
	Name   string
	Matrix math3d.Mat4
}

// Component is a visual component that owns picker data.
type Component interface {
	Name() string
	Object() any
	Matrix() math3d.Mat4
}

// Picker maps a local pick index to a domain object of a single kind.
// Object returns nil for indices it does not know.
type Picker interface {
	Kind() Kind
	// Data returns the backing object used for component lookup.
	Data() any
	Object(id int) any
	Position(id int, inst *Instance, c Component) math3d.Vec3
}

func applyTransforms(v math3d.Vec3, inst *Instance, c Component) math3d.Vec3 {
	if inst != nil {
		v = inst.Matrix.MulVec3(v)
	}
	if c != nil {
		v = c.Matrix().MulVec3(v)
	}
	return v
}

func inRange[T any](s []T, i int) bool {
	return i >= 0 && i < len(s)
}

// AtomPicker picks atoms by structure index.
type AtomPicker struct {
	Structure *structure.Structure
}

// Kind implements Picker.
func (p *AtomPicker) Kind() Kind { return KindAtom }

// Data returns the structure.
func (p *AtomPicker) Data() any { return p.Structure }

// Object returns the atom with index id, or nil.
func (p *AtomPicker) Object(id int) any {
	if !inRange(p.Structure.Atoms, id) {
		return nil
	}
	return p.Structure.Atoms[id]
}

// Position returns the atom position, transformed to world space.
func (p *AtomPicker) Position(id int, inst *Instance, c Component) math3d.Vec3 {
	if !inRange(p.Structure.Atoms, id) {
		return math3d.Vec3{}
	}
	return applyTransforms(p.Structure.Atoms[id].Position, inst, c)
}

// BondPicker picks bonds, contacts or distances from a bond list.
type BondPicker struct {
	kind      Kind
	Structure *structure.Structure
	Bonds     []*structure.Bond
}

// NewBondPicker picks from the structure's own bonds.
func NewBondPicker(s *structure.Structure) *BondPicker {
	return &BondPicker{kind: KindBond, Structure: s, Bonds: s.Bonds}
}

// NewContactPicker picks from a list of non-covalent contacts.
func NewContactPicker(s *structure.Structure, contacts []*structure.Bond) *BondPicker {
	return &BondPicker{kind: KindContact, Structure: s, Bonds: contacts}
}

// NewDistancePicker picks from a list of measured atom pairs.
func NewDistancePicker(s *structure.Structure, pairs []*structure.Bond) *BondPicker {
	return &BondPicker{kind: KindDistance, Structure: s, Bonds: pairs}
}

// Kind implements Picker.
func (p *BondPicker) Kind() Kind { return p.kind }

// Data returns the structure.
func (p *BondPicker) Data() any { return p.Structure }

// Object returns a BondObject for bond id, or nil.
func (p *BondPicker) Object(id int) any {
	if !inRange(p.Bonds, id) {
		return nil
	}
	return &BondObject{Bond: p.Bonds[id], Structure: p.Structure}
}

// Position returns the bond midpoint.
func (p *BondPicker) Position(id int, inst *Instance, c Component) math3d.Vec3 {
	if !inRange(p.Bonds, id) {
		return math3d.Vec3{}
	}
	b := p.Bonds[id]
	return applyTransforms(b.Atom1.Position.Lerp(b.Atom2.Position, 0.5), inst, c)
}

// ClashPicker picks the structure's clashes.
type ClashPicker struct {
	Structure *structure.Structure
}

// Kind implements Picker.
func (p *ClashPicker) Kind() Kind { return KindClash }

// Data returns the structure.
func (p *ClashPicker) Data() any { return p.Structure }

// Object returns clash id, or nil.
func (p *ClashPicker) Object(id int) any {
	if !inRange(p.Structure.Clashes, id) {
		return nil
	}
	return &p.Structure.Clashes[id]
}

// Position returns the midpoint of the two clashing atoms, transformed to world space.
func (p *ClashPicker) Position(id int, inst *Instance, c Component) math3d.Vec3 {
	if !inRange(p.Structure.Clashes, id) {
		return math3d.Vec3{}
	}
	cl := p.Structure.Clashes[id]
	return applyTransforms(cl.Atom1.Position.Lerp(cl.Atom2.Position, 0.5), inst, c)
}

// PrimitivePicker picks one primitive list of a shape.
type PrimitivePicker struct {
	kind  Kind
	Shape *shape.Shape
}

// NewPrimitivePicker returns a picker over the primitives of the given
// kind. It panics if kind is not a shape primitive kind.
func NewPrimitivePicker(kind Kind, s *shape.Shape) *PrimitivePicker {
	if !kind.IsShapePrimitive() {
		panic("picking: " + kind.String() + " is not a shape primitive")
	}
	return &PrimitivePicker{kind: kind, Shape: s}
}

// Kind implements Picker.
func (p *PrimitivePicker) Kind() Kind { return p.kind }

// Data returns the shape.
func (p *PrimitivePicker) Data() any { return p.Shape }

func (p *PrimitivePicker) lookup(id int) (name string, center math3d.Vec3, ok bool) {
	s := p.Shape
	switch p.kind {
	case KindSphere:
		if ok = inRange(s.Spheres, id); ok {
			return s.Spheres[id].Name, s.Spheres[id].Position, true
		}
	case KindEllipsoid:
		if ok = inRange(s.Ellipsoids, id); ok {
			return s.Ellipsoids[id].Name, s.Ellipsoids[id].Position, true
		}
	case KindCylinder:
		if ok = inRange(s.Cylinders, id); ok {
			return s.Cylinders[id].Name, s.Cylinders[id].Center(), true
		}
	case KindCone:
		if ok = inRange(s.Cones, id); ok {
			return s.Cones[id].Name, s.Cones[id].Center(), true
		}
	case KindArrow:
		if ok = inRange(s.Arrows, id); ok {
			return s.Arrows[id].Name, s.Arrows[id].Center(), true
		}
	case KindBox:
		if ok = inRange(s.Boxes, id); ok {
			return s.Boxes[id].Name, s.Boxes[id].Position, true
		}
	case KindOctahedron:
		if ok = inRange(s.Octahedra, id); ok {
			return s.Octahedra[id].Name, s.Octahedra[id].Position, true
		}
	case KindTetrahedron:
		if ok = inRange(s.Tetrahedra, id); ok {
			return s.Tetrahedra[id].Name, s.Tetrahedra[id].Position, true
		}
	case KindTorus:
		if ok = inRange(s.Tori, id); ok {
			return s.Tori[id].Name, s.Tori[id].Position, true
		}
	}
	return "", math3d.Vec3{}, false
}

// Object returns the primitive numbered id across the kind, or nil.
func (p *PrimitivePicker) Object(id int) any {
	name, _, ok := p.lookup(id)
	if !ok {
		return nil
	}
	return &Primitive{Kind: p.kind, Name: name, Shape: p.Shape}
}

// Position returns the primitive centre, transformed to world space.
func (p *PrimitivePicker) Position(id int, inst *Instance, c Component) math3d.Vec3 {
	_, center, _ := p.lookup(id)
	return applyTransforms(center, inst, c)
}

// MeshPicker picks one shape mesh. The pick index is the face index.
type MeshPicker struct {
	Shape *shape.Shape
	Mesh  shape.Mesh
}

// Kind implements Picker.
func (p *MeshPicker) Kind() Kind { return KindMesh }

// Data returns the shape.
func (p *MeshPicker) Data() any { return p.Shape }

// Object returns the mesh when id is one of its faces, or nil.
func (p *MeshPicker) Object(id int) any {
	if id < 0 || id >= p.Mesh.Mesh.TriangleCount() {
		return nil
	}
	return &MeshObject{Name: p.Mesh.Name, Shape: p.Shape, Serial: p.Mesh.Serial}
}

// Position returns the face centre, or the mesh centre for an unknown face, transformed to world space.
func (p *MeshPicker) Position(id int, inst *Instance, c Component) math3d.Vec3 {
	if id < 0 || id >= p.Mesh.Mesh.TriangleCount() {
		return applyTransforms(p.Mesh.Mesh.Center(), inst, c)
	}
	return applyTransforms(faceCenter(p.Mesh.Mesh.GetVertex, p.Mesh.Mesh.GetFace(id)), inst, c)
}

func faceCenter(vertex func(int) (math3d.Vec3, math3d.Vec3), f [3]int) math3d.Vec3 {
	a, _ := vertex(f[0])
	b, _ := vertex(f[1])
	c, _ := vertex(f[2])
	return a.Add(b).Add(c).Div(3)
}

// SurfacePicker picks surface faces.
type SurfacePicker struct {
	Surface *volume.Surface
}

// Kind implements Picker.
func (p *SurfacePicker) Kind() Kind { return KindSurface }

// Data returns the surface.
func (p *SurfacePicker) Data() any { return p.Surface }

// Object returns the surface face id, or nil.
func (p *SurfacePicker) Object(id int) any {
	if id < 0 || id >= p.Surface.Mesh.TriangleCount() {
		return nil
	}
	return &SurfaceObject{Surface: p.Surface, Index: id}
}

// Position returns the face centre, transformed to world space.
func (p *SurfacePicker) Position(id int, inst *Instance, c Component) math3d.Vec3 {
	if id < 0 || id >= p.Surface.Mesh.TriangleCount() {
		return math3d.Vec3{}
	}
	return applyTransforms(p.Surface.FaceCenter(id), inst, c)
}

// VolumePicker picks volume samples. Indices maps pick indices to sample
// indices; nil means the identity mapping. A slice picker reports
// KindSlice.
type VolumePicker struct {
	kind    Kind
	Volume  *volume.Volume
	Indices []int
}

// NewVolumePicker picks samples of a volume rendered as points.
func NewVolumePicker(v *volume.Volume, indices []int) *VolumePicker {
	return &VolumePicker{kind: KindVolume, Volume: v, Indices: indices}
}

// NewSlicePicker picks samples of a volume slice.
func NewSlicePicker(v *volume.Volume, indices []int) *VolumePicker {
	return &VolumePicker{kind: KindSlice, Volume: v, Indices: indices}
}

// Kind implements Picker.
func (p *VolumePicker) Kind() Kind { return p.kind }

// Data returns the volume.
func (p *VolumePicker) Data() any { return p.Volume }

func (p *VolumePicker) sample(id int) (int, bool) {
	if p.Indices != nil {
		if !inRange(p.Indices, id) {
			return 0, false
		}
		id = p.Indices[id]
	}
	return id, inRange(p.Volume.Data, id)
}

// Object returns the sample picked as id, or nil.
func (p *VolumePicker) Object(id int) any {
	i, ok := p.sample(id)
	if !ok {
		return nil
	}
	return &VolumeValue{Volume: p.Volume, Value: p.Volume.Value(i), Index: i}
}

// Position returns the sample position, transformed to world space.
func (p *VolumePicker) Position(id int, inst *Instance, c Component) math3d.Vec3 {
	i, ok := p.sample(id)
	if !ok {
		return math3d.Vec3{}
	}
	return applyTransforms(p.Volume.Position(i), inst, c)
}

// UnitcellPicker picks a structure's unit cell.
type UnitcellPicker struct {
	Structure *structure.Structure
}

// Kind implements Picker.
func (p *UnitcellPicker) Kind() Kind { return KindUnitcell }

// Data returns the structure.
func (p *UnitcellPicker) Data() any { return p.Structure }

// Object returns the unit cell, or nil.
func (p *UnitcellPicker) Object(int) any {
	if p.Structure.Unitcell == nil {
		return nil
	}
	return &UnitcellObject{Unitcell: p.Structure.Unitcell, Structure: p.Structure}
}

// Position returns the cell centre.
func (p *UnitcellPicker) Position(_ int, inst *Instance, c Component) math3d.Vec3 {
	if p.Structure.Unitcell == nil {
		return math3d.Vec3{}
	}
	center := p.Structure.Unitcell.FracToCart().MulVec3(math3d.V3(0.5, 0.5, 0.5))
	return applyTransforms(center, inst, c)
}

// AxesPicker picks a set of principal axes.
type AxesPicker struct {
	Axes   *Axes
	Source any
}

// Kind implements Picker.
func (p *AxesPicker) Kind() Kind { return KindAxes }

// Data returns the source object.
func (p *AxesPicker) Data() any { return p.Source }

// Object returns the principal axes, or nil.
func (p *AxesPicker) Object(int) any {
	return p.Axes
}

// Position returns the axes centre, transformed to world space.
func (p *AxesPicker) Position(_ int, inst *Instance, c Component) math3d.Vec3 {
	return applyTransforms(p.Axes.Center, inst, c)
}

// UnknownPicker wraps data of no particular kind.
type UnknownPicker struct {
	Source any
}

// Kind implements Picker.
func (p *UnknownPicker) Kind() Kind { return KindUnknown }

// Data returns the source object.
func (p *UnknownPicker) Data() any { return p.Source }

// Object returns an Unknown wrapping id and the source. It never returns nil.
func (p *UnknownPicker) Object(id int) any {
	return &Unknown{ID: id, Data: p.Source}
}

// Position returns the local origin, transformed to world space.
func (p *UnknownPicker) Position(_ int, inst *Instance, c Component) math3d.Vec3 {
	return applyTransforms(math3d.Vec3{}, inst, c)
}
