package picking

import (
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/molview/pkg/shape"
	"github.com/taigrr/molview/pkg/structure"
)

// Describe returns a one-line label for the picked object, e.g.
// "bond: A:1:CA - A:1:CB (prot)". It returns "nothing" when the picker's
// object does not match its kind.
func (p *Proxy) Describe() string {
	switch p.Kind() {
	case KindArrow:
		if o := p.Arrow(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindAtom:
		if a := p.Atom(); a != nil {
			return "atom: " + a.QualifiedName() + " (" + structureName(a.Structure) + ")"
		}
	case KindAxes:
		if p.Axes() != nil {
			return "axes"
		}
	case KindBond:
		if b := p.Bond(); b != nil {
			return bondLabel("bond", b)
		}
	case KindBox:
		if o := p.Box(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindCone:
		if o := p.Cone(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindClash:
		if c := p.Clash(); c != nil {
			return "clash: " + c.Sele1 + " - " + c.Sele2
		}
	case KindContact:
		if b := p.Contact(); b != nil {
			return bondLabel("contact", b)
		}
	case KindCylinder:
		if o := p.Cylinder(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindDistance:
		if b := p.Distance(); b != nil {
			return bondLabel("distance", b)
		}
	case KindEllipsoid:
		if o := p.Ellipsoid(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindOctahedron:
		if o := p.Octahedron(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindMesh:
		if m := p.Mesh(); m != nil {
			name := m.Name
			if name == "" {
				name = strconv.Itoa(m.Serial)
			}
			return "mesh: " + name + " (" + shapeName(m.Shape) + ")"
		}
	case KindSlice:
		if v := p.Slice(); v != nil {
			return volumeLabel("slice", v)
		}
	case KindSphere:
		if o := p.Sphere(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindSurface:
		if s := p.Surface(); s != nil && s.Surface != nil {
			return "surface: " + s.Surface.Name
		}
	case KindTetrahedron:
		if o := p.Tetrahedron(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindTorus:
		if o := p.Torus(); o != nil {
			return p.primitiveLabel(o)
		}
	case KindUnitcell:
		if u := p.Unitcell(); u != nil && u.Unitcell != nil {
			return "unitcell: " + u.Unitcell.Spacegroup + " (" + structureName(u.Structure) + ")"
		}
	case KindUnknown:
		if p.Unknown() != nil {
			return "unknown"
		}
	case KindVolume:
		if v := p.Volume(); v != nil {
			return volumeLabel("volume", v)
		}
	}
	return "nothing"
}

func (p *Proxy) primitiveLabel(o *Primitive) string {
	name := o.Name
	if name == "" {
		name = strconv.Itoa(p.result.ID)
	}
	return p.Kind().String() + ": " + name + " (" + shapeName(o.Shape) + ")"
}

func bondLabel(kind string, b *BondObject) string {
	if b.Bond == nil {
		return "nothing"
	}
	return kind + ": " + b.Atom1().QualifiedName() + " - " + b.Atom2().QualifiedName() +
		" (" + structureName(b.Structure) + ")"
}

func volumeLabel(kind string, v *VolumeValue) string {
	name := ""
	if v.Volume != nil {
		name = v.Volume.Name
	}
	return kind + ": " + ToPrecision(v.Value, 3) + " (" + name + ")"
}

func structureName(s *structure.Structure) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func shapeName(s *shape.Shape) string {
	if s == nil {
		return ""
	}
	return s.Name
}

// ToPrecision formats x with the given number of significant digits the
// way JavaScript's Number.prototype.toPrecision does: fixed notation
// unless the exponent is below -6 or at least digits, in which case the
// exponent is written without padding ("1.23e+5").
func ToPrecision(x float64, digits int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		x = 0 // drop the sign of negative zero
	}
	digits = max(1, min(digits, 100))

	e := strconv.FormatFloat(x, 'e', digits-1, 64)
	mantissa, expPart, _ := strings.Cut(e, "e")
	exp, _ := strconv.Atoi(expPart)
	if exp < -6 || exp >= digits {
		sign := "+"
		if exp < 0 {
			sign = "-"
		}
		return mantissa + "e" + sign + strconv.Itoa(abs(exp))
	}
	return strconv.FormatFloat(x, 'f', digits-1-exp, 64)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
