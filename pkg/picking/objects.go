package picking

import (
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/shape"
	"github.com/taigrr/molview/pkg/structure"
	"github.com/taigrr/molview/pkg/volume"
)

// Object payloads. Pickers return pointers to these (or *structure.Atom
// and *structure.Clash directly).

// Primitive is a picked shape primitive (arrow, box, cone, cylinder,
// ellipsoid, octahedron, sphere, tetrahedron or torus).
type Primitive struct {
	Kind  Kind
	Name  string
	Shape *shape.Shape
}

// Axes are the principal axes of a set of positions.
type Axes struct {
	Name    string
	Center  math3d.Vec3
	Vectors [3]math3d.Vec3
}

// BondObject is a picked bond, contact or distance.
type BondObject struct {
	Bond      *structure.Bond
	Structure *structure.Structure
}

// Atom1 and Atom2 return the bonded atoms.
func (b *BondObject) Atom1() *structure.Atom { return b.Bond.Atom1 }
func (b *BondObject) Atom2() *structure.Atom { return b.Bond.Atom2 }

// MeshObject is a picked shape mesh.
type MeshObject struct {
	Name   string
	Shape  *shape.Shape
	Serial int
}

// VolumeValue is a picked volume or slice sample.
type VolumeValue struct {
	Volume *volume.Volume
	Value  float64
	Index  int
}

// SurfaceObject is a picked surface face.
type SurfaceObject struct {
	Surface *volume.Surface
	Index   int
}

// UnitcellObject is a picked unit cell outline.
type UnitcellObject struct {
	Unitcell  *structure.Unitcell
	Structure *structure.Structure
}

// Unknown wraps data from a picker of unknown kind.
type Unknown struct {
	ID   int
	Data any
}
