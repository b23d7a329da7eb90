package repr

import (
	"image/color"

	"github.com/taigrr/molview/pkg/buffer"
	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/picking"
	"github.com/taigrr/molview/pkg/render"
	"github.com/taigrr/molview/pkg/structure"
)

// Representation type names.
const (
	TypeBallAndStick = "ball+stick"
	TypeSpacefill    = "spacefill"
	TypeBackbone     = "backbone"
	TypeContact      = "contact"
	TypeDistance     = "distance"
	TypeClash        = "clash"
	TypeUnitcell     = "unitcell"
	TypeAxes         = "axes"
	TypeShape        = "shape"
	TypeSurface      = "surface"
	TypeDot          = "dot"
	TypeSlice        = "slice"
)

var (
	contactColor  = color.RGBA{150, 150, 255, 255}
	distanceColor = color.RGBA{200, 200, 200, 255}
	clashColor    = color.RGBA{255, 0, 255, 255}
	cellColor     = color.RGBA{255, 165, 0, 255}
)

// Colour schemes for atoms.
const (
	SchemeElement      = "element"
	SchemeChainName    = "chainname"
	SchemeResidueIndex = "residueindex"
)

// atomColors colours atoms by p.ColorScheme. Chain and residue schemes
// number chains and residues in order of first appearance and map them
// through p.ColorScale.
func atomColors(atoms []*structure.Atom, p Params) []color.RGBA {
	out := make([]color.RGBA, len(atoms))
	type residue struct {
		chain string
		resno int
	}
	var key func(a *structure.Atom) any
	switch p.ColorScheme {
	case SchemeChainName:
		key = func(a *structure.Atom) any { return a.Chain }
	case SchemeResidueIndex:
		key = func(a *structure.Atom) any { return residue{a.Chain, a.ResNo} }
	default:
		for i, a := range atoms {
			out[i] = structure.ElementColor(a.Element)
		}
		return out
	}

	index := make(map[any]int)
	ids := make([]int, len(atoms))
	for i, a := range atoms {
		k := key(a)
		id, ok := index[k]
		if !ok {
			id = len(index)
			index[k] = id
		}
		ids[i] = id
	}
	scale, err := render.NewColorScale(p.ColorScale, 0, float64(max(len(index)-1, 1)))
	if err != nil {
		scale, _ = render.NewColorScale("RdYlBu", 0, float64(max(len(index)-1, 1)))
	}
	scale.Reverse = p.ColorReverse
	if p.ColorScheme == SchemeChainName {
		scale.Filter = render.FilterNearest
	}
	for i, id := range ids {
		out[i] = scale.Color(float64(id))
	}
	return out
}

func atomIndices(atoms []*structure.Atom) []int {
	out := make([]int, len(atoms))
	for i, a := range atoms {
		out[i] = a.Index
	}
	return out
}

func atomPositions(atoms []*structure.Atom) []math3d.Vec3 {
	out := make([]math3d.Vec3, len(atoms))
	for i, a := range atoms {
		out[i] = a.Position
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// bondBuffer draws bonds as cylinders split at the midpoint and coloured by
// element. Face primitives are bond indices.
func bondBuffer(name string, bonds []*structure.Bond, radius float64, picker picking.Picker, p Params) *buffer.Buffer {
	unit := models.Cylinder(p.RadialSegments, true)
	mb := newMeshBuilder(name)
	for i, b := range bonds {
		c1 := structure.ElementColor(b.Atom1.Element)
		c2 := structure.ElementColor(b.Atom2.Element)
		mb.halfCylinders(unit, b.Atom1.Position, b.Atom2.Position, radius, c1, c2, i)
	}
	return mb.buffer(name, picker)
}

// linkBuffer draws atom pairs as single-coloured cylinders.
func linkBuffer(name string, pairs [][2]math3d.Vec3, radius float64, c color.RGBA, picker picking.Picker, p Params) *buffer.Buffer {
	unit := models.Cylinder(p.RadialSegments, true)
	mb := newMeshBuilder(name)
	for i, pr := range pairs {
		mb.cylinder(unit, pr[0], pr[1], radius, c, i)
	}
	return mb.buffer(name, picker)
}

func bondEnds(bonds []*structure.Bond) [][2]math3d.Vec3 {
	out := make([][2]math3d.Vec3, len(bonds))
	for i, b := range bonds {
		out[i] = [2]math3d.Vec3{b.Atom1.Position, b.Atom2.Position}
	}
	return out
}

// BallAndStick draws atoms as spheres of BondRadius*AspectRatio and bonds
// as cylinders of BondRadius.
func BallAndStick(s *structure.Structure, p Params) *Representation {
	r := newRepresentation(TypeBallAndStick, s)
	radius := p.BondRadius * p.AspectRatio
	r.add(spheres(s.Name+" atoms", s.Positions(), constant(len(s.Atoms), radius),
		atomColors(s.Atoms, p), nil, &picking.AtomPicker{Structure: s}, p))
	r.add(bondBuffer(s.Name+" bonds", s.Bonds, p.BondRadius, picking.NewBondPicker(s), p))
	return r
}

// Spacefill draws atoms as spheres of their scaled van der Waals radius.
func Spacefill(s *structure.Structure, p Params) *Representation {
	r := newRepresentation(TypeSpacefill, s)
	radii := make([]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		radii[i] = structure.VdwRadius(a.Element) * p.RadiusScale
	}
	r.add(spheres(s.Name+" spacefill", s.Positions(), radii, atomColors(s.Atoms, p), nil,
		&picking.AtomPicker{Structure: s}, p))
	return r
}

// traceAtoms returns the CA atoms (P for nucleic acids) in atom order.
func traceAtoms(s *structure.Structure) []*structure.Atom {
	var out []*structure.Atom
	for _, a := range s.Atoms {
		if a.Name == "CA" || a.Name == "P" {
			out = append(out, a)
		}
	}
	return out
}

// traceBonds links consecutive trace atoms of the same chain whose residue
// numbers differ by one.
func traceBonds(trace []*structure.Atom) []*structure.Bond {
	var out []*structure.Bond
	for i := 1; i < len(trace); i++ {
		a, b := trace[i-1], trace[i]
		if a.Chain == b.Chain && b.ResNo-a.ResNo == 1 {
			out = append(out, &structure.Bond{Atom1: a, Atom2: b, Order: 1})
		}
	}
	return out
}

// Backbone draws the CA trace as spheres joined by cylinders. Structures
// without trace atoms fall back to ball+stick.
func Backbone(s *structure.Structure, p Params) *Representation {
	trace := traceAtoms(s)
	if len(trace) == 0 {
		return BallAndStick(s, p)
	}
	r := newRepresentation(TypeBackbone, s)
	radius := p.BondRadius * p.AspectRatio * 1.5
	r.add(spheres(s.Name+" trace", atomPositions(trace), constant(len(trace), radius),
		atomColors(trace, p), atomIndices(trace), &picking.AtomPicker{Structure: s}, p))

	links := traceBonds(trace)
	picker := picking.NewBondPicker(s)
	picker.Bonds = links
	r.add(bondBuffer(s.Name+" backbone", links, radius*0.75, picker, p))
	return r
}

// Contacts draws polar contacts found with FindContacts.
func Contacts(s *structure.Structure, p Params) *Representation {
	r := newRepresentation(TypeContact, s)
	contacts := s.FindContacts(p.ContactDistance)
	r.add(linkBuffer(s.Name+" contacts", bondEnds(contacts), p.BondRadius/2, contactColor,
		picking.NewContactPicker(s, contacts), p))
	return r
}

// Distances draws a cylinder per measured atom pair. Pairs with an atom
// index out of range are skipped.
func Distances(s *structure.Structure, pairs [][2]int, p Params) *Representation {
	r := newRepresentation(TypeDistance, s)
	var measured []*structure.Bond
	for _, pr := range pairs {
		i, j := pr[0], pr[1]
		if i < 0 || j < 0 || i >= len(s.Atoms) || j >= len(s.Atoms) {
			continue
		}
		measured = append(measured, &structure.Bond{Atom1: s.Atoms[i], Atom2: s.Atoms[j], Order: 1})
	}
	r.add(linkBuffer(s.Name+" distances", bondEnds(measured), p.BondRadius/2, distanceColor,
		picking.NewDistancePicker(s, measured), p))
	return r
}

// Clashes draws each recorded clash as a cylinder between its atoms.
func Clashes(s *structure.Structure, p Params) *Representation {
	r := newRepresentation(TypeClash, s)
	pairs := make([][2]math3d.Vec3, len(s.Clashes))
	for i, c := range s.Clashes {
		pairs[i] = [2]math3d.Vec3{c.Atom1.Position, c.Atom2.Position}
	}
	r.add(linkBuffer(s.Name+" clashes", pairs, p.BondRadius, clashColor,
		&picking.ClashPicker{Structure: s}, p))
	return r
}

// Unitcell draws the cell outline: corner spheres and edge cylinders.
func Unitcell(s *structure.Structure, p Params) *Representation {
	r := newRepresentation(TypeUnitcell, s)
	uc := s.Unitcell
	if uc == nil {
		return r
	}
	picker := &picking.UnitcellPicker{Structure: s}
	corners := uc.Corners()
	cyl := models.Cylinder(p.RadialSegments, true)
	sphere := models.Sphere(p.SphereDetail)
	mb := newMeshBuilder(s.Name + " unitcell")
	for _, e := range uc.Edges() {
		mb.cylinder(cyl, corners[e[0]], corners[e[1]], p.BondRadius, cellColor, 0)
	}
	for _, c := range corners {
		mb.add(sphere, math3d.Translate(c).Mul(math3d.ScaleUniform(p.BondRadius*2)), cellColor, 0)
	}
	r.add(mb.buffer(s.Name+" unitcell", picker))
	return r
}
