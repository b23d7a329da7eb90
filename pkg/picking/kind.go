// Package picking resolves pick-buffer reads to typed domain objects.
//
// A Picker maps the local index encoded in the pick buffer to one object
// of a single Kind. A Proxy wraps one pick result and exposes a typed
// accessor per kind, of which at most one returns a value.
package picking

import "fmt"

// Kind identifies the variant of object a Picker returns. The declaration
// order is the label priority order used by Describe.
type Kind int

const (
	KindArrow Kind = iota
	KindAtom
	KindAxes
	KindBond
	KindBox
	KindCone
	KindClash
	KindContact
	KindCylinder
	KindDistance
	KindEllipsoid
	KindOctahedron
	KindMesh
	KindSlice
	KindSphere
	KindSurface
	KindTetrahedron
	KindTorus
	KindUnitcell
	KindUnknown
	KindVolume

	numKinds
)

var kindNames = [numKinds]string{
	KindArrow:       "arrow",
	KindAtom:        "atom",
	KindAxes:        "axes",
	KindBond:        "bond",
	KindBox:         "box",
	KindCone:        "cone",
	KindClash:       "clash",
	KindContact:     "contact",
	KindCylinder:    "cylinder",
	KindDistance:    "distance",
	KindEllipsoid:   "ellipsoid",
	KindOctahedron:  "octahedron",
	KindMesh:        "mesh",
	KindSlice:       "slice",
	KindSphere:      "sphere",
	KindSurface:     "surface",
	KindTetrahedron: "tetrahedron",
	KindTorus:       "torus",
	KindUnitcell:    "unitcell",
	KindUnknown:     "unknown",
	KindVolume:      "volume",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds returns every kind in priority order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return KindUnknown, fmt.Errorf("picking: unknown kind %q", s)
}

// IsShapePrimitive reports whether k is one of the shape primitive kinds
// labelled "<kind>: <name-or-id> (<shape>)".
func (k Kind) IsShapePrimitive() bool {
	switch k {
	case KindArrow, KindBox, KindCone, KindCylinder, KindEllipsoid,
		KindOctahedron, KindSphere, KindTetrahedron, KindTorus:
		return true
	}
	return false
}
