package picking

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/molview/pkg/math3d"
	"github.com/taigrr/molview/pkg/models"
	"github.com/taigrr/molview/pkg/shape"
	"github.com/taigrr/molview/pkg/structure"
	"github.com/taigrr/molview/pkg/volume"
)

type fixture struct {
	prot    *structure.Structure
	shape   *shape.Shape
	volume  *volume.Volume
	surface *volume.Surface
	pickers map[Kind]Picker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	prot := structure.New("prot")
	prot.AddAtom(structure.Atom{Name: "CA", Element: "C", Chain: "A", ResNo: 1, Position: math3d.V3(0, 0, 0)})
	prot.AddAtom(structure.Atom{Name: "CB", Element: "C", Chain: "A", ResNo: 1, Position: math3d.V3(1.5, 0, 0)})
	_, err := prot.AddBond(0, 1, 1)
	require.NoError(t, err)
	prot.AddClash(prot.Atoms[0], prot.Atoms[1])
	prot.Unitcell, err = structure.NewUnitcell(10, 10, 10, 90, 90, 90, "P 21 21 21")
	require.NoError(t, err)

	c := color.RGBA{255, 255, 255, 255}
	o := math3d.V3(0, 0, 0)
	x := math3d.V3(1, 0, 0)
	y := math3d.V3(0, 1, 0)
	z := math3d.V3(0, 0, 1)
	shp := shape.New("geo", shape.DefaultParams()).
		AddArrow(o, x, c, 1, "").
		AddBox(o, c, 1, y, z, "crate").
		AddCone(o, x, c, 1, "").
		AddCylinder(o, x, c, 1, "").
		AddEllipsoid(o, c, 1, x, y, "").
		AddOctahedron(o, c, 1, y, z, "").
		AddSphere(o, c, 1, "").
		AddTetrahedron(o, c, 1, y, z, "").
		AddTorus(o, c, 1, x, y, "").
		AddMesh(models.Box(), c, "")

	vol, err := volume.New("map", 2, 1, 1, []float64{0.123456, 98765.4}, math3d.Identity())
	require.NoError(t, err)
	surf := volume.NewSurface("sas", models.Box())

	pickers := map[Kind]Picker{
		KindAtom:     &AtomPicker{Structure: prot},
		KindAxes:     &AxesPicker{Axes: &Axes{Name: "axes"}, Source: prot},
		KindBond:     NewBondPicker(prot),
		KindClash:    &ClashPicker{Structure: prot},
		KindContact:  NewContactPicker(prot, prot.Bonds),
		KindDistance: NewDistancePicker(prot, prot.Bonds),
		KindMesh:     &MeshPicker{Shape: shp, Mesh: shp.Meshes[0]},
		KindSlice:    NewSlicePicker(vol, []int{1, 0}),
		KindSurface:  &SurfacePicker{Surface: surf},
		KindUnitcell: &UnitcellPicker{Structure: prot},
		KindUnknown:  &UnknownPicker{Source: "blob"},
		KindVolume:   NewVolumePicker(vol, nil),
	}
	for _, k := range Kinds() {
		if k.IsShapePrimitive() {
			pickers[k] = NewPrimitivePicker(k, shp)
		}
	}
	return &fixture{prot: prot, shape: shp, volume: vol, surface: surf, pickers: pickers}
}

func accessors() map[Kind]func(*Proxy) bool {
	return map[Kind]func(*Proxy) bool{
		KindArrow:       func(p *Proxy) bool { return p.Arrow() != nil },
		KindAtom:        func(p *Proxy) bool { return p.Atom() != nil },
		KindAxes:        func(p *Proxy) bool { return p.Axes() != nil },
		KindBond:        func(p *Proxy) bool { return p.Bond() != nil },
		KindBox:         func(p *Proxy) bool { return p.Box() != nil },
		KindCone:        func(p *Proxy) bool { return p.Cone() != nil },
		KindClash:       func(p *Proxy) bool { return p.Clash() != nil },
		KindContact:     func(p *Proxy) bool { return p.Contact() != nil },
		KindCylinder:    func(p *Proxy) bool { return p.Cylinder() != nil },
		KindDistance:    func(p *Proxy) bool { return p.Distance() != nil },
		KindEllipsoid:   func(p *Proxy) bool { return p.Ellipsoid() != nil },
		KindOctahedron:  func(p *Proxy) bool { return p.Octahedron() != nil },
		KindMesh:        func(p *Proxy) bool { return p.Mesh() != nil },
		KindSlice:       func(p *Proxy) bool { return p.Slice() != nil },
		KindSphere:      func(p *Proxy) bool { return p.Sphere() != nil },
		KindSurface:     func(p *Proxy) bool { return p.Surface() != nil },
		KindTetrahedron: func(p *Proxy) bool { return p.Tetrahedron() != nil },
		KindTorus:       func(p *Proxy) bool { return p.Torus() != nil },
		KindUnitcell:    func(p *Proxy) bool { return p.Unitcell() != nil },
		KindUnknown:     func(p *Proxy) bool { return p.Unknown() != nil },
		KindVolume:      func(p *Proxy) bool { return p.Volume() != nil },
	}
}

func TestExactlyOneAccessorPresent(t *testing.T) {
	f := newFixture(t)
	acc := accessors()
	require.Len(t, acc, len(Kinds()))
	require.Len(t, f.pickers, len(Kinds()))

	for kind, picker := range f.pickers {
		p := NewProxy(PickResult{ID: 0, Picker: picker}, Context{})
		require.Equal(t, kind, p.Kind())
		for other, get := range acc {
			assert.Equal(t, other == kind, get(p), "picker %s, accessor %s", kind, other)
		}
	}
}

func TestAccessorsAbsentForBadIndex(t *testing.T) {
	f := newFixture(t)
	for kind, picker := range f.pickers {
		if kind == KindUnknown || kind == KindAxes || kind == KindUnitcell {
			continue // these ignore the index
		}
		p := NewProxy(PickResult{ID: 999, Picker: picker}, Context{})
		assert.False(t, accessors()[kind](p), "kind %s", kind)
		assert.Equal(t, "nothing", p.Describe(), "kind %s", kind)
	}
}

func TestDescribe(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		kind Kind
		id   int
		want string
	}{
		{KindArrow, 0, "arrow: 0 (geo)"},
		{KindAtom, 1, "atom: A:1:CB (prot)"},
		{KindAxes, 0, "axes"},
		{KindBond, 0, "bond: A:1:CA - A:1:CB (prot)"},
		{KindBox, 0, "box: crate (geo)"},
		{KindCone, 0, "cone: 0 (geo)"},
		{KindClash, 0, "clash: A:1:CA - A:1:CB"},
		{KindContact, 0, "contact: A:1:CA - A:1:CB (prot)"},
		{KindCylinder, 0, "cylinder: 0 (geo)"},
		{KindDistance, 0, "distance: A:1:CA - A:1:CB (prot)"},
		{KindEllipsoid, 0, "ellipsoid: 0 (geo)"},
		{KindOctahedron, 0, "octahedron: 0 (geo)"},
		{KindMesh, 3, "mesh: 0 (geo)"},
		{KindSlice, 0, "slice: 9.88e+4 (map)"},
		{KindSphere, 0, "sphere: 0 (geo)"},
		{KindSurface, 5, "surface: sas"},
		{KindTetrahedron, 0, "tetrahedron: 0 (geo)"},
		{KindTorus, 0, "torus: 0 (geo)"},
		{KindUnitcell, 0, "unitcell: P 21 21 21 (prot)"},
		{KindUnknown, 0, "unknown"},
		{KindVolume, 0, "volume: 0.123 (map)"},
	}
	require.Len(t, tests, len(Kinds()))
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := NewProxy(PickResult{ID: tt.id, Picker: f.pickers[tt.kind]}, Context{})
			assert.Equal(t, tt.want, p.Describe())
		})
	}
}

func TestDescribeNameFallsBackToID(t *testing.T) {
	f := newFixture(t)
	f.shape.AddSphere(math3d.V3(5, 0, 0), color.RGBA{}, 1, "")
	p := NewProxy(PickResult{ID: 1, Picker: f.pickers[KindSphere]}, Context{})
	assert.Equal(t, "sphere: 1 (geo)", p.Describe())
}

func TestDescribeWithoutPicker(t *testing.T) {
	p := NewProxy(PickResult{}, Context{})
	assert.Equal(t, "nothing", p.Describe())
	assert.Nil(t, p.Object())
	assert.Nil(t, p.Unknown())
	assert.Nil(t, p.Component())
}

type fakeMouse struct {
	alt, ctrl, meta, shift bool
	pos                    math3d.Vec2
}

func (m *fakeMouse) AltKey() bool { return m.alt }
func (m *fakeMouse) CtrlKey() bool { return m.ctrl }
func (m *fakeMouse) MetaKey() bool { return m.meta }
func (m *fakeMouse) ShiftKey() bool { return m.shift }
func (m *fakeMouse) CanvasPosition() math3d.Vec2 { return m.pos }

// mapProjector places world X on canvas X and world Y on canvas Y.
type mapProjector struct{}

func (mapProjector) PositionOnCanvas(p math3d.Vec3) math3d.Vec2 { return math3d.V2(p.X, p.Y) }

func bondProxy(t *testing.T, p1, p2 math3d.Vec3, mouse *fakeMouse) (*Proxy, *structure.Structure) {
	t.Helper()
	s := structure.New("prot")
	s.AddAtom(structure.Atom{Name: "CA", Chain: "A", ResNo: 1, Position: p1})
	s.AddAtom(structure.Atom{Name: "CB", Chain: "A", ResNo: 1, Position: p2})
	_, err := s.AddBond(0, 1, 1)
	require.NoError(t, err)
	ctx := Context{Mouse: mouse, Projector: mapProjector{}}
	return NewProxy(PickResult{Picker: NewBondPicker(s)}, ctx), s
}

func TestClosestBondAtom(t *testing.T) {
	mouse := &fakeMouse{}

	// Atom1 projects 3 away from the pointer, atom2 5 away.
	p, s := bondProxy(t, math3d.V3(3, 0, 0), math3d.V3(0, 5, 0), mouse)
	assert.Same(t, s.Atoms[0], p.ClosestBondAtom())

	p, s = bondProxy(t, math3d.V3(0, 5, 0), math3d.V3(3, 0, 0), mouse)
	assert.Same(t, s.Atoms[1], p.ClosestBondAtom())

	// Ties favour atom1.
	p, s = bondProxy(t, math3d.V3(4, 0, 0), math3d.V3(0, 4, 0), mouse)
	assert.Same(t, s.Atoms[0], p.ClosestBondAtom())
}

func TestClosestBondAtomOnlyForBonds(t *testing.T) {
	f := newFixture(t)
	ctx := Context{Mouse: &fakeMouse{}, Projector: mapProjector{}}
	for _, kind := range []Kind{KindContact, KindDistance, KindAtom} {
		p := NewProxy(PickResult{Picker: f.pickers[kind]}, ctx)
		assert.Nil(t, p.ClosestBondAtom(), "kind %s", kind)
	}

	// No projector, no answer.
	p := NewProxy(PickResult{Picker: f.pickers[KindBond]}, Context{})
	assert.Nil(t, p.ClosestBondAtom())
}

func TestInputReadsAreLive(t *testing.T) {
	mouse := &fakeMouse{pos: math3d.V2(1, 2)}
	p, _ := bondProxy(t, math3d.V3(0, 0, 0), math3d.V3(10, 0, 0), mouse)
	assert.False(t, p.ShiftKey())
	assert.Same(t, p.Bond().Atom1(), p.ClosestBondAtom())

	mouse.shift, mouse.alt, mouse.ctrl, mouse.meta = true, true, true, true
	mouse.pos = math3d.V2(9, 0)
	assert.True(t, p.ShiftKey())
	assert.True(t, p.AltKey())
	assert.True(t, p.CtrlKey())
	assert.True(t, p.MetaKey())
	assert.Equal(t, math3d.V2(9, 0), p.CanvasPosition())
	assert.Same(t, p.Bond().Atom2(), p.ClosestBondAtom())
}

type testComponent struct {
	name   string
	object any
	matrix math3d.Mat4
}

func (c *testComponent) Name() string { return c.name }
func (c *testComponent) Object() any { return c.object }
func (c *testComponent) Matrix() math3d.Mat4 { return c.matrix }

type componentList []Component

func (l componentList) ComponentsByObject(data any) []Component {
	var out []Component
	for _, c := range l {
		if c.Object() == data {
			out = append(out, c)
		}
	}
	return out
}

func TestComponentFirstMatchAndPosition(t *testing.T) {
	f := newFixture(t)
	first := &testComponent{name: "first", object: f.prot, matrix: math3d.Translate(math3d.V3(0, 5, 0))}
	second := &testComponent{name: "second", object: f.prot, matrix: math3d.Identity()}
	other := &testComponent{name: "other", object: f.shape, matrix: math3d.Identity()}
	ctx := Context{Components: componentList{other, first, second}}

	inst := &Instance{ID: 2, Name: "copy", Matrix: math3d.Translate(math3d.V3(10, 0, 0))}
	p := NewProxy(PickResult{ID: 1, Picker: f.pickers[KindAtom], Instance: inst}, ctx)
	require.NotNil(t, p.Component())
	assert.Equal(t, "first", p.Component().Name())
	assert.Equal(t, math3d.V3(11.5, 5, 0), p.Position())
	assert.Same(t, inst, p.Instance())

	none := NewProxy(PickResult{Picker: f.pickers[KindVolume]}, ctx)
	assert.Nil(t, none.Component())
}

func TestPickerPositions(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, math3d.V3(0.75, 0, 0), f.pickers[KindBond].Position(0, nil, nil))
	assert.Equal(t, math3d.V3(0.5, 0, 0), f.pickers[KindCylinder].Position(0, nil, nil))
	assert.Equal(t, math3d.V3(1, 0, 0), f.pickers[KindSlice].Position(0, nil, nil))
	center := f.pickers[KindUnitcell].Position(0, nil, nil)
	assert.InDelta(t, 5, center.X, 1e-9)
	assert.InDelta(t, 5, center.Y, 1e-9)
	assert.InDelta(t, 5, center.Z, 1e-9)
}

func TestNewPrimitivePickerRejectsOtherKinds(t *testing.T) {
	assert.Panics(t, func() { NewPrimitivePicker(KindAtom, shape.New("s", shape.DefaultParams())) })
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("banana")
	assert.Error(t, err)
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestToPrecision(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1.23456, "1.23"},
		{-2.5, "-2.50"},
		{0.000123456, "0.000123"},
		{123, "123"},
		{1234, "1.23e+3"},
		{98765.4, "9.88e+4"},
		{99.95, "100"},
		{1e-7, "1.00e-7"},
		{0.0000012345, "0.00000123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToPrecision(tt.in, 3), "ToPrecision(%g)", tt.in)
	}
}
